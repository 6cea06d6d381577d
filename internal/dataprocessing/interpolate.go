package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"whrpipe/pkg/contracts/domain"
)

// InterpolationMode selects the axis along which gaps are filled
type InterpolationMode string

const (
	// ModeRowOrder interpolates down the whole column in file order
	ModeRowOrder InterpolationMode = "row_order"
	// ModePerCountry interpolates inside each country's rows ordered by year
	ModePerCountry InterpolationMode = "per_country"
)

// IsValid reports whether m is a known mode
func (m InterpolationMode) IsValid() bool {
	return m == ModeRowOrder || m == ModePerCountry
}

// InterpolationReport summarises one interpolation pass
type InterpolationReport struct {
	Mode         InterpolationMode
	Filled       map[string]int
	EmptyColumns []string
}

// TotalFilled returns the number of cells filled across all columns
func (r InterpolationReport) TotalFilled() int {
	total := 0
	for _, n := range r.Filled {
		total += n
	}
	return total
}

// Interpolator fills gaps in metric columns
type Interpolator struct {
	mode    InterpolationMode
	metrics []domain.Metric
	logger  *slog.Logger
}

// NewInterpolator creates an interpolator. An empty mode means ModeRowOrder.
func NewInterpolator(mode InterpolationMode, metrics []domain.Metric, logger *slog.Logger) *Interpolator {
	if mode == "" {
		mode = ModeRowOrder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpolator{mode: mode, metrics: metrics, logger: logger}
}

// Interpolate returns a frame whose metric columns have interior gaps filled
// linearly and trailing gaps carried forward. Leading gaps stay missing.
// Columns with no value at all are left as they are and reported.
func (ip *Interpolator) Interpolate(f *Frame) (*Frame, InterpolationReport, error) {
	report := InterpolationReport{Mode: ip.mode, Filled: make(map[string]int, len(ip.metrics))}
	if !ip.mode.IsValid() {
		return nil, report, fmt.Errorf("unknown interpolation mode %q", ip.mode)
	}

	groups, err := ip.groups(f)
	if err != nil {
		return nil, report, err
	}

	var filledCols []*Column
	for _, m := range ip.metrics {
		col, ok := f.Column(m.String())
		if !ok {
			return nil, report, fmt.Errorf("metric column %q not found", m)
		}
		if col.Kind() != KindFloat {
			return nil, report, fmt.Errorf("metric column %q is %s, expected float", m, col.Kind())
		}

		values := col.Floats()
		if col.MissingCount() == len(values) {
			report.EmptyColumns = append(report.EmptyColumns, m.String())
			ip.logger.Warn("Metric column has no values", slog.String("column", m.String()))
			continue
		}

		filled := 0
		for _, idx := range groups {
			series := make([]float64, len(idx))
			for j, i := range idx {
				series[j] = values[i]
			}
			n := fillForward(series)
			for j, i := range idx {
				values[i] = series[j]
			}
			filled += n
		}

		report.Filled[m.String()] = filled
		filledCols = append(filledCols, NewFloatColumn(m.String(), values))
	}

	out, err := f.With(filledCols...)
	if err != nil {
		return nil, report, err
	}

	ip.logger.Debug("Interpolation complete",
		slog.String("mode", string(ip.mode)),
		slog.Int("filled", report.TotalFilled()),
		slog.Any("empty_columns", report.EmptyColumns))

	return out, report, nil
}

// groups returns the row index sequences that are interpolated independently
func (ip *Interpolator) groups(f *Frame) ([][]int, error) {
	if ip.mode == ModeRowOrder {
		all := make([]int, f.Len())
		for i := range all {
			all[i] = i
		}
		return [][]int{all}, nil
	}

	names, ok := f.Column(domain.ColumnCountryName)
	if !ok {
		return nil, fmt.Errorf("column %q required for %s interpolation", domain.ColumnCountryName, ip.mode)
	}
	years, ok := f.Column(domain.ColumnYear)
	if !ok {
		return nil, fmt.Errorf("column %q required for %s interpolation", domain.ColumnYear, ip.mode)
	}

	var order []string
	byCountry := make(map[string][]int)
	for i := 0; i < f.Len(); i++ {
		name := names.String(i)
		if _, seen := byCountry[name]; !seen {
			order = append(order, name)
		}
		byCountry[name] = append(byCountry[name], i)
	}

	groups := make([][]int, 0, len(order))
	for _, name := range order {
		idx := byCountry[name]
		sort.SliceStable(idx, func(a, b int) bool {
			ya, okA := years.Int(idx[a])
			yb, okB := years.Int(idx[b])
			if okA != okB {
				return okA
			}
			return ya < yb
		})
		groups = append(groups, idx)
	}
	return groups, nil
}

// fillForward fills NaN gaps of series in place and returns how many cells it
// filled. Gaps between two known values are interpolated linearly by position,
// gaps after the last known value take that value, gaps before the first known
// value are left alone.
func fillForward(series []float64) int {
	filled := 0
	prev := -1
	for i, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (v - series[prev]) / float64(i-prev)
			for k := prev + 1; k < i; k++ {
				series[k] = series[prev] + step*float64(k-prev)
				filled++
			}
		}
		prev = i
	}
	if prev >= 0 {
		for k := prev + 1; k < len(series); k++ {
			series[k] = series[prev]
			filled++
		}
	}
	return filled
}
