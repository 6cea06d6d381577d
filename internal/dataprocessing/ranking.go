package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"whrpipe/pkg/contracts/domain"
)

// RankingReport summarises one ranking pass
type RankingReport struct {
	Years       int
	RankedRows  int
	SkippedRows int
}

// RankingEngine precomputes per-year leaderboard positions for each metric
type RankingEngine struct {
	metrics []domain.Metric
	logger  *slog.Logger
}

// NewRankingEngine creates an engine ranking the given metrics
func NewRankingEngine(metrics []domain.Metric, logger *slog.Logger) *RankingEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingEngine{metrics: metrics, logger: logger}
}

// Rank returns a frame with one <metric>_rank column per metric and a
// total_number_of_ranks column. Within a year the highest value ranks 1.
// Missing values rank after every present value; equal values are ordered by
// country name and then by row position. Rows without a year get no rank.
func (e *RankingEngine) Rank(f *Frame) (*Frame, RankingReport, error) {
	var report RankingReport

	years, ok := f.Column(domain.ColumnYear)
	if !ok || years.Kind() != KindInt {
		return nil, report, fmt.Errorf("int column %q required for ranking", domain.ColumnYear)
	}
	names, ok := f.Column(domain.ColumnCountryName)
	if !ok {
		return nil, report, fmt.Errorf("column %q required for ranking", domain.ColumnCountryName)
	}

	partitions := make(map[int][]int)
	var yearOrder []int
	for i := 0; i < f.Len(); i++ {
		y, ok := years.Int(i)
		if !ok {
			report.SkippedRows++
			continue
		}
		if _, seen := partitions[y]; !seen {
			yearOrder = append(yearOrder, y)
		}
		partitions[y] = append(partitions[y], i)
	}
	report.Years = len(yearOrder)
	report.RankedRows = f.Len() - report.SkippedRows

	if report.SkippedRows > 0 {
		e.logger.Warn("Rows without a year are not ranked", slog.Int("rows", report.SkippedRows))
	}

	totals := make([]int, f.Len())
	present := make([]bool, f.Len())
	for _, idx := range partitions {
		for _, i := range idx {
			totals[i], present[i] = len(idx), true
		}
	}

	cols := make([]*Column, 0, len(e.metrics)+1)
	for _, m := range e.metrics {
		col, ok := f.Column(m.String())
		if !ok {
			return nil, report, fmt.Errorf("metric column %q not found", m)
		}

		ranks := make([]int, f.Len())
		for _, y := range yearOrder {
			idx := append([]int(nil), partitions[y]...)
			sortByValue(idx, col, names)
			for rank, i := range idx {
				ranks[i] = rank + 1
			}
		}
		cols = append(cols, NewIntColumn(m.RankColumn(), ranks, present))
	}
	cols = append(cols, NewIntColumn(domain.ColumnTotalRanks, totals, present))

	out, err := f.With(cols...)
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// sortByValue orders row indices best first: higher value, present before
// missing, then country name ascending, then original row position.
func sortByValue(idx []int, values, names *Column) {
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		va, vb := values.Float(ia), values.Float(ib)
		nanA, nanB := math.IsNaN(va), math.IsNaN(vb)
		switch {
		case nanA != nanB:
			return nanB
		case !nanA && va != vb:
			return va > vb
		}
		if na, nb := names.String(ia), names.String(ib); na != nb {
			return na < nb
		}
		return ia < ib
	})
}
