// Package dataprocessing holds the table transformations of the World
// Happiness pipeline. It knows nothing about files beyond reading raw input
// and never writes output; publication belongs to the operations layer.
//
// # Architecture
//
// The package is organized around an immutable column table:
//
// 1. Frame: named, typed columns (string, float, int) with NaN/blank gaps
// 2. Parser: reads raw CSV or XLSX tables into string frames
// 3. Normalizer: maps raw headers onto the canonical schema and types cells
// 4. Interpolator: fills metric gaps forward along rows or per country
// 5. RankingEngine: per-year leaderboard positions for every metric
//
// # Usage
//
//	raw, err := dataprocessing.LoadFile("data.csv", dataprocessing.LoadOptions{})
//	if err != nil {
//	    return err
//	}
//	norm, err := dataprocessing.NewNormalizer(dataprocessing.DefaultSchema(), logger).Normalize(raw)
//	filled, report, err := dataprocessing.NewInterpolator(dataprocessing.ModeRowOrder, domain.Metrics, logger).Interpolate(norm)
//	ranked, _, err := dataprocessing.NewRankingEngine(domain.Metrics, logger).Rank(filled)
//
// # Data Flow
//
//	Raw file → Parser → Frame → Normalizer → Interpolator → RankingEngine → Frame
//
// Every stage returns a new Frame. Column slices are copied on construction
// and never written afterwards, so frames may be shared freely.
package dataprocessing
