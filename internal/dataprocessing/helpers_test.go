package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"whrpipe/pkg/contracts/domain"
)

var nan = math.NaN()

// canonicalFrame builds a normalized frame. Metrics not listed in values are all NaN.
func canonicalFrame(t *testing.T, names []string, years []int, values map[domain.Metric][]float64) *Frame {
	t.Helper()

	cols := []*Column{
		NewStringColumn(domain.ColumnCountryName, names),
		NewIntColumn(domain.ColumnYear, years, nil),
	}
	for _, m := range domain.Metrics {
		v, ok := values[m]
		if !ok {
			v = make([]float64, len(names))
			for i := range v {
				v[i] = nan
			}
		}
		cols = append(cols, NewFloatColumn(m.String(), v))
	}

	f, err := NewFrame(cols...)
	require.NoError(t, err)
	return f
}

func intsOf(t *testing.T, f *Frame, name string) []int {
	t.Helper()

	col, ok := f.Column(name)
	require.True(t, ok, "column %s", name)
	out := make([]int, col.Len())
	for i := range out {
		v, set := col.Int(i)
		require.True(t, set, "column %s row %d unset", name, i)
		out[i] = v
	}
	return out
}
