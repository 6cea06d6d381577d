package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"whrpipe/internal/dataprocessing"
	"whrpipe/pkg/contracts/domain"
)

// cleanedRow renders one line of a cleaned file. values holds the nine
// metrics in publication order, "" for missing; ranks are derived from rank.
func cleanedRow(name, code string, year int, values []string, rank, total int) string {
	cells := []string{name, name, code, fmt.Sprint(year)}
	cells = append(cells, values...)
	for range domain.Metrics {
		cells = append(cells, fmt.Sprint(rank))
	}
	cells = append(cells, fmt.Sprint(total))
	return strings.Join(cells, ",")
}

func metricValues(v ...string) []string {
	out := make([]string, len(domain.Metrics))
	copy(out, v)
	for i := len(v); i < len(out); i++ {
		out[i] = "0.5"
	}
	return out
}

// sampleCSV has Switzerland over three years with life_ladder and generosity
// moving together, and Chad for a single year out of file order
func sampleCSV() string {
	lines := []string{
		strings.Join(domain.OutputColumns(), ","),
		cleanedRow("Switzerland", "CHE", 2021, metricValues("7.5", "11.0", "", "", "", "0.3"), 1, 2),
		cleanedRow("Chad", "TCD", 2020, metricValues("4.4", "7.4", "", "", "", "0.1"), 2, 2),
		cleanedRow("Switzerland", "CHE", 2019, metricValues("7.3", "11.1", "", "", "", "0.1"), 1, 2),
		cleanedRow("Switzerland", "CHE", 2020, metricValues("7.4", "", "", "", "", "0.2"), 1, 2),
		cleanedRow("Somaliland region", "", 2020, metricValues("5.0"), 1, 2),
	}
	return strings.Join(lines, "\n") + "\n"
}

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	f, err := dataprocessing.ReadCSV(strings.NewReader(sampleCSV()), dataprocessing.LoadOptions{})
	require.NoError(t, err)
	d, err := FromFrame(f)
	require.NoError(t, err)
	return d
}
