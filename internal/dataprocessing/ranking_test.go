package dataprocessing

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whrpipe/pkg/contracts/domain"
)

func TestRankingEngine_Rank(t *testing.T) {
	f := canonicalFrame(t,
		[]string{"Switzerland", "Russia", "Switzerland", "Russia", "Congo"},
		[]int{2019, 2019, 2020, 2020, 2020},
		map[domain.Metric][]float64{
			domain.MetricLifeLadder:     {7.7, 5.6, 7.5, 5.5, 5.1},
			domain.MetricNegativeAffect: {0.17, 0.2, 0.16, 0.18, 0.3},
		})

	out, report, err := NewRankingEngine(domain.Metrics, nil).Rank(f)
	require.NoError(t, err)

	assert.Equal(t, RankingReport{Years: 2, RankedRows: 5}, report)
	assert.Equal(t, []int{1, 2, 1, 2, 3}, intsOf(t, out, domain.MetricLifeLadder.RankColumn()))
	assert.Equal(t, []int{2, 1, 3, 2, 1}, intsOf(t, out, domain.MetricNegativeAffect.RankColumn()))
	assert.Equal(t, []int{2, 2, 3, 3, 3}, intsOf(t, out, domain.ColumnTotalRanks))
}

func TestRankingEngine_TiesAndMissing(t *testing.T) {
	f := canonicalFrame(t,
		[]string{"Chad", "Benin", "Austria", "Benin", "Angola"},
		[]int{2020, 2020, 2020, 2020, 2020},
		map[domain.Metric][]float64{
			domain.MetricLifeLadder: {5, nan, 5, 5, nan},
		})

	out, _, err := NewRankingEngine([]domain.Metric{domain.MetricLifeLadder}, nil).Rank(f)
	require.NoError(t, err)

	// present values first (Austria, Benin row 3, Chad), then missing (Angola, Benin row 1)
	assert.Equal(t, []int{3, 5, 1, 2, 4}, intsOf(t, out, domain.MetricLifeLadder.RankColumn()))
}

func TestRankingEngine_CoverageProperty(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	years := []int{2018, 2018, 2019, 2019, 2019, 2020, 2018}
	f := canonicalFrame(t, names, years, map[domain.Metric][]float64{
		domain.MetricLifeLadder: {3, 3, nan, 1, 2, 9, 3},
		domain.MetricFreedom:    {0.1, 0.5, 0.2, 0.2, nan, 0.4, 0.3},
	})

	out, _, err := NewRankingEngine(domain.Metrics, nil).Rank(f)
	require.NoError(t, err)

	totals := intsOf(t, out, domain.ColumnTotalRanks)
	for _, m := range domain.Metrics {
		ranks := intsOf(t, out, m.RankColumn())
		byYear := map[int][]int{}
		for i, y := range years {
			byYear[y] = append(byYear[y], ranks[i])
			assert.Equal(t, countOf(years, y), totals[i])
		}
		for y, rs := range byYear {
			sort.Ints(rs)
			for i, r := range rs {
				assert.Equal(t, i+1, r, "metric %s year %d", m, y)
			}
		}
	}
}

func TestRankingEngine_SingleYearCountry(t *testing.T) {
	f := canonicalFrame(t,
		[]string{"A", "A", "B", "Solo"},
		[]int{2019, 2020, 2020, 2020},
		map[domain.Metric][]float64{domain.MetricLifeLadder: {1, 2, 3, 4}})

	out, _, err := NewRankingEngine(domain.Metrics, nil).Rank(f)
	require.NoError(t, err)

	assert.Equal(t, 3, intsOf(t, out, domain.ColumnTotalRanks)[3])
	assert.Equal(t, 1, intsOf(t, out, domain.MetricLifeLadder.RankColumn())[3])
}

func TestRankingEngine_MissingYearSkipped(t *testing.T) {
	f := MustFrame(
		NewStringColumn(domain.ColumnCountryName, []string{"A", "B"}),
		NewIntColumn(domain.ColumnYear, []int{2020, 0}, []bool{true, false}),
		NewFloatColumn(domain.MetricLifeLadder.String(), []float64{1, 2}),
	)

	out, report, err := NewRankingEngine([]domain.Metric{domain.MetricLifeLadder}, nil).Rank(f)
	require.NoError(t, err)

	assert.Equal(t, 1, report.SkippedRows)
	rank, _ := out.Column(domain.MetricLifeLadder.RankColumn())
	assert.True(t, rank.IsMissing(1))
	assert.False(t, rank.IsMissing(0))
}

func TestRankingEngine_RequiresTypedYear(t *testing.T) {
	f := MustFrame(
		NewStringColumn(domain.ColumnCountryName, []string{"A"}),
		NewStringColumn(domain.ColumnYear, []string{"2020"}),
	)
	_, _, err := NewRankingEngine(domain.Metrics, nil).Rank(f)
	assert.Error(t, err)
}

func countOf(values []int, v int) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}
