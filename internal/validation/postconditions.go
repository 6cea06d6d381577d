package validation

import (
	"fmt"
	"log/slog"
	"sort"

	"whrpipe/internal/dataprocessing"
	"whrpipe/pkg/contracts/domain"
)

// Names of the post-condition checks run on a ranked frame
const (
	CheckYearPresent  = "year_present"
	CheckRankCoverage = "rank_coverage"
	CheckRankTotals   = "rank_totals"
	CheckExclusion    = "exclusion"
	CheckEmptyColumn  = "empty_column"
	CheckCodePurity   = "code_purity"
)

// Violation is one failed post-condition
type Violation struct {
	Check   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Check, v.Message)
}

// FrameValidator checks a ranked frame before it is published
type FrameValidator struct {
	metrics  []domain.Metric
	excluded map[string]struct{}
	logger   *slog.Logger
}

// NewFrameValidator creates a validator for the given metrics and excluded
// country names
func NewFrameValidator(metrics []domain.Metric, excluded []string, logger *slog.Logger) *FrameValidator {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		set[name] = struct{}{}
	}
	return &FrameValidator{metrics: metrics, excluded: set, logger: logger}
}

// Validate runs every check and returns the violations in a stable order.
// An empty result means the frame may be published.
func (v *FrameValidator) Validate(f *dataprocessing.Frame) []Violation {
	var out []Violation
	out = append(out, v.CheckYears(f)...)
	out = append(out, v.CheckColumns(f)...)
	out = append(out, v.CheckRanks(f)...)
	out = append(out, v.CheckExclusions(f)...)
	out = append(out, v.CheckCodePurity(f)...)

	for _, violation := range out {
		v.logger.Error("Post-condition failed",
			slog.String("check", violation.Check),
			slog.String("message", violation.Message))
	}
	return out
}

// CheckYears requires a year on every row
func (v *FrameValidator) CheckYears(f *dataprocessing.Frame) []Violation {
	years, ok := f.Column(domain.ColumnYear)
	if !ok {
		return []Violation{{Check: CheckYearPresent, Message: "year column is missing"}}
	}
	if n := years.MissingCount(); n > 0 {
		return []Violation{{Check: CheckYearPresent, Message: fmt.Sprintf("%d row(s) have no year", n)}}
	}
	return nil
}

// CheckColumns requires every metric column to hold at least one value
func (v *FrameValidator) CheckColumns(f *dataprocessing.Frame) []Violation {
	if f.Len() == 0 {
		return nil
	}
	var out []Violation
	for _, m := range v.metrics {
		col, ok := f.Column(m.String())
		if !ok {
			out = append(out, Violation{Check: CheckEmptyColumn, Message: fmt.Sprintf("column %s is missing", m)})
			continue
		}
		if col.MissingCount() == col.Len() {
			out = append(out, Violation{Check: CheckEmptyColumn, Message: fmt.Sprintf("column %s has no values", m)})
		}
	}
	return out
}

// CheckRanks requires, for every year and metric, that the ranks are exactly
// 1..N where N is the year's row count, and that total_number_of_ranks is N
// on every row of the year
func (v *FrameValidator) CheckRanks(f *dataprocessing.Frame) []Violation {
	years, ok := f.Column(domain.ColumnYear)
	if !ok {
		return nil
	}
	totals, ok := f.Column(domain.ColumnTotalRanks)
	if !ok {
		return []Violation{{Check: CheckRankTotals, Message: "total_number_of_ranks column is missing"}}
	}

	partitions := make(map[int][]int)
	for i := 0; i < f.Len(); i++ {
		if y, ok := years.Int(i); ok {
			partitions[y] = append(partitions[y], i)
		}
	}
	order := make([]int, 0, len(partitions))
	for y := range partitions {
		order = append(order, y)
	}
	sort.Ints(order)

	var out []Violation
	for _, y := range order {
		idx := partitions[y]
		n := len(idx)
		for _, i := range idx {
			if total, ok := totals.Int(i); !ok || total != n {
				out = append(out, Violation{
					Check:   CheckRankTotals,
					Message: fmt.Sprintf("year %d: total_number_of_ranks is not %d", y, n),
				})
				break
			}
		}

		for _, m := range v.metrics {
			ranks, ok := f.Column(m.RankColumn())
			if !ok {
				out = append(out, Violation{Check: CheckRankCoverage, Message: fmt.Sprintf("column %s is missing", m.RankColumn())})
				continue
			}
			if !isPermutation(ranks, idx) {
				out = append(out, Violation{
					Check:   CheckRankCoverage,
					Message: fmt.Sprintf("year %d: %s is not a permutation of 1..%d", y, m.RankColumn(), n),
				})
			}
		}
	}
	return out
}

// isPermutation reports whether the ranks of rows idx are exactly 1..len(idx)
func isPermutation(ranks *dataprocessing.Column, idx []int) bool {
	seen := make([]bool, len(idx)+1)
	for _, i := range idx {
		r, ok := ranks.Int(i)
		if !ok || r < 1 || r > len(idx) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

// CheckExclusions requires that no excluded name survives in either the raw
// or the corrected name column
func (v *FrameValidator) CheckExclusions(f *dataprocessing.Frame) []Violation {
	found := make(map[string]bool)
	for _, name := range []string{domain.ColumnCountryName, domain.ColumnCountryNameISO} {
		col, ok := f.Column(name)
		if !ok {
			continue
		}
		for i := 0; i < col.Len(); i++ {
			if _, excluded := v.excluded[col.String(i)]; excluded {
				found[col.String(i)] = true
			}
		}
	}
	if len(found) == 0 {
		return nil
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return []Violation{{Check: CheckExclusion, Message: fmt.Sprintf("excluded countries present: %v", names)}}
}

// CheckCodePurity requires that every corrected name maps to one code
func (v *FrameValidator) CheckCodePurity(f *dataprocessing.Frame) []Violation {
	names, ok := f.Column(domain.ColumnCountryNameISO)
	if !ok {
		return nil
	}
	codes, ok := f.Column(domain.ColumnCountryCodeISO)
	if !ok {
		return []Violation{{Check: CheckCodePurity, Message: "country_code_iso column is missing"}}
	}

	first := make(map[string]string)
	conflicts := make(map[string]bool)
	for i := 0; i < f.Len(); i++ {
		name, code := names.String(i), codes.String(i)
		if prev, seen := first[name]; !seen {
			first[name] = code
		} else if prev != code {
			conflicts[name] = true
		}
	}
	if len(conflicts) == 0 {
		return nil
	}

	list := make([]string, 0, len(conflicts))
	for name := range conflicts {
		list = append(list, name)
	}
	sort.Strings(list)
	return []Violation{{Check: CheckCodePurity, Message: fmt.Sprintf("names with more than one code: %v", list)}}
}
