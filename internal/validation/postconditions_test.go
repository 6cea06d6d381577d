package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whrpipe/internal/dataprocessing"
	"whrpipe/pkg/contracts/domain"
)

var testMetrics = []domain.Metric{domain.MetricLifeLadder}

type rankedRow struct {
	name, iso, code string
	year            int
	hasYear         bool
	value           float64
	rank, total     int
}

func buildRanked(t *testing.T, rows []rankedRow) *dataprocessing.Frame {
	t.Helper()
	n := len(rows)
	names, isos, codes := make([]string, n), make([]string, n), make([]string, n)
	years, ranks, totals := make([]int, n), make([]int, n), make([]int, n)
	present, rankPresent := make([]bool, n), make([]bool, n)
	values := make([]float64, n)
	for i, r := range rows {
		names[i], isos[i], codes[i] = r.name, r.iso, r.code
		years[i], present[i] = r.year, r.hasYear
		values[i] = r.value
		ranks[i], totals[i] = r.rank, r.total
		rankPresent[i] = r.rank > 0
	}
	f, err := dataprocessing.NewFrame(
		dataprocessing.NewStringColumn(domain.ColumnCountryName, names),
		dataprocessing.NewStringColumn(domain.ColumnCountryNameISO, isos),
		dataprocessing.NewStringColumn(domain.ColumnCountryCodeISO, codes),
		dataprocessing.NewIntColumn(domain.ColumnYear, years, present),
		dataprocessing.NewFloatColumn(domain.MetricLifeLadder.String(), values),
		dataprocessing.NewIntColumn(domain.MetricLifeLadder.RankColumn(), ranks, rankPresent),
		dataprocessing.NewIntColumn(domain.ColumnTotalRanks, totals, rankPresent),
	)
	require.NoError(t, err)
	return f
}

func validRows() []rankedRow {
	return []rankedRow{
		{"Switzerland", "Switzerland", "CHE", 2020, true, 7.5, 1, 2},
		{"Russia", "Russian Federation", "RUS", 2020, true, 5.5, 2, 2},
		{"Russia", "Russian Federation", "RUS", 2019, true, 5.6, 1, 1},
	}
}

func checksOf(violations []Violation) []string {
	var checks []string
	for _, v := range violations {
		checks = append(checks, v.Check)
	}
	return checks
}

func TestValidate_Clean(t *testing.T) {
	v := NewFrameValidator(testMetrics, []string{"Kosovo"}, nil)
	assert.Empty(t, v.Validate(buildRanked(t, validRows())))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rows []rankedRow) []rankedRow
		check  string
	}{
		{
			name: "missing year",
			mutate: func(rows []rankedRow) []rankedRow {
				rows[2].hasYear = false
				rows[2].rank, rows[2].total = 0, 0
				return rows
			},
			check: CheckYearPresent,
		},
		{
			name: "duplicate rank",
			mutate: func(rows []rankedRow) []rankedRow {
				rows[1].rank = 1
				return rows
			},
			check: CheckRankCoverage,
		},
		{
			name: "rank gap",
			mutate: func(rows []rankedRow) []rankedRow {
				rows[1].rank = 3
				return rows
			},
			check: CheckRankCoverage,
		},
		{
			name: "wrong total",
			mutate: func(rows []rankedRow) []rankedRow {
				rows[2].total = 2
				return rows
			},
			check: CheckRankTotals,
		},
		{
			name: "excluded country survives",
			mutate: func(rows []rankedRow) []rankedRow {
				rows[1].name, rows[1].iso = "Kosovo", "Kosovo"
				return rows
			},
			check: CheckExclusion,
		},
		{
			name: "impure code",
			mutate: func(rows []rankedRow) []rankedRow {
				rows[2].code = "RUX"
				return rows
			},
			check: CheckCodePurity,
		},
		{
			name: "empty metric column",
			mutate: func(rows []rankedRow) []rankedRow {
				for i := range rows {
					rows[i].value = math.NaN()
				}
				return rows
			},
			check: CheckEmptyColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFrameValidator(testMetrics, []string{"Kosovo"}, nil)
			violations := v.Validate(buildRanked(t, tt.mutate(validRows())))
			require.NotEmpty(t, violations)
			assert.Contains(t, checksOf(violations), tt.check)
		})
	}
}

func TestCheckCodePurity_NullCodeIsConsistent(t *testing.T) {
	rows := []rankedRow{
		{"Somaliland region", "Somalia", "", 2020, true, 4.1, 1, 1},
		{"Somaliland region", "Somalia", "", 2021, true, 4.2, 1, 1},
	}
	v := NewFrameValidator(testMetrics, nil, nil)
	assert.Empty(t, v.CheckCodePurity(buildRanked(t, rows)))
}

func TestViolationString(t *testing.T) {
	v := Violation{Check: CheckRankCoverage, Message: "year 2020: life_ladder_rank is not a permutation of 1..3"}
	assert.Equal(t, "rank_coverage: year 2020: life_ladder_rank is not a permutation of 1..3", v.String())
}
