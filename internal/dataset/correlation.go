package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	apperrors "whrpipe/internal/errors"
	"whrpipe/pkg/contracts/domain"
)

// Defaults of the dashboard's initial selection
const (
	DefaultCountry       = "Switzerland"
	DefaultYear          = 2020
	DefaultFirstFeature  = domain.MetricLifeLadder
	DefaultSecondFeature = domain.MetricGenerosity
)

// Strength buckets a correlation coefficient by its absolute value
type Strength int

const (
	StrengthNegligible Strength = iota
	StrengthWeak
	StrengthModerate
	StrengthStrong
	StrengthVeryStrong
)

var strengthNames = [...]string{"negligible", "weak", "moderate", "strong", "very strong"}

var significanceLabels = [...]string{
	"Negligible Significance",
	"Weak Significance",
	"Moderate Significance",
	"Strong Significance",
	"Very Strong Signifiance",
}

func (s Strength) String() string {
	return strengthNames[s]
}

// SignificanceLabel returns the heading shown next to the coefficient
func (s Strength) SignificanceLabel() string {
	return significanceLabels[s]
}

// Categorize buckets r. Boundaries belong to the weaker bucket.
func Categorize(r float64) Strength {
	a := math.Abs(r)
	switch {
	case a <= 0.3:
		return StrengthNegligible
	case a <= 0.5:
		return StrengthWeak
	case a <= 0.7:
		return StrengthModerate
	case a <= 0.9:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

// CorrelationResult is the Pearson coefficient of two metrics for one country
type CorrelationResult struct {
	Country  string
	First    domain.Metric
	Second   domain.Metric
	R        float64
	Points   int
	Strength Strength
}

// Positive reports whether the metrics move together
func (c CorrelationResult) Positive() bool {
	return c.R >= 0
}

// Explanation returns the sentence describing the relationship
func (c CorrelationResult) Explanation() string {
	a, b := c.First.Label(), c.Second.Label()
	switch c.Strength {
	case StrengthNegligible:
		return fmt.Sprintf("The Correlation is negligibale. Therefore no real assumption can be made between %s and %s", a, b)
	case StrengthWeak:
		return fmt.Sprintf("The Correlation is weak. Therefore no real assumption can be made between %s and %s", a, b)
	}
	direction := "higher"
	if !c.Positive() {
		direction = "lower"
	}
	return fmt.Sprintf("The Correlation is %s: The higher %s the %s is %s in %s", c.Strength, a, direction, b, c.Country)
}

// SignExplanation describes what the sign of the coefficient means
func (c CorrelationResult) SignExplanation() string {
	if c.Positive() {
		return "A positive correlation means that if one value increases so does the other one."
	}
	return "A negative correlation means that if one value increases the other decreases."
}

// Significance renders the coefficient with two decimals
func (c CorrelationResult) Significance() string {
	return fmt.Sprintf("%4.2f", c.R)
}

// pairs returns the years where both metrics are present
func (d *Dataset) pairs(country string, a, b domain.Metric) (years []int, xs, ys []float64, err error) {
	rows, err := d.Rows(country)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, row := range rows {
		x, y := row.Values[a], row.Values[b]
		if !x.Valid || !y.Valid {
			continue
		}
		years = append(years, row.Year)
		xs = append(xs, x.Value)
		ys = append(ys, y.Value)
	}
	return years, xs, ys, nil
}

// Correlation computes the Pearson coefficient of a and b over the years of
// country where both are present
func (d *Dataset) Correlation(country string, a, b domain.Metric) (CorrelationResult, error) {
	if !a.IsValid() || !b.IsValid() {
		return CorrelationResult{}, apperrors.NewValidationError(fmt.Sprintf("unknown metric pair %s/%s", a, b))
	}
	_, xs, ys, err := d.pairs(country, a, b)
	if err != nil {
		return CorrelationResult{}, err
	}
	if len(xs) < 2 {
		return CorrelationResult{}, apperrors.NewValidationError(
			fmt.Sprintf("not enough data to correlate %s and %s for %s", a.Label(), b.Label(), country))
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return CorrelationResult{}, apperrors.NewValidationError(
			fmt.Sprintf("%s or %s is constant for %s", a.Label(), b.Label(), country))
	}
	return CorrelationResult{
		Country:  country,
		First:    a,
		Second:   b,
		R:        r,
		Points:   len(xs),
		Strength: Categorize(r),
	}, nil
}

// CorrelationMatrix holds the pairwise coefficients of every metric for one
// country, rounded to two decimals. Undefined entries are NaN.
type CorrelationMatrix struct {
	Country string
	Metrics []domain.Metric
	Values  *mat.SymDense
}

// Title returns the heading of the heatmap
func (m *CorrelationMatrix) Title() string {
	return fmt.Sprintf("Correlation Information about %s", m.Country)
}

// Labels returns the human readable axis labels
func (m *CorrelationMatrix) Labels() []string {
	out := make([]string, len(m.Metrics))
	for i, metric := range m.Metrics {
		out[i] = metric.Label()
	}
	return out
}

// At returns the coefficient of metrics i and j
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values.At(i, j)
}

// CorrelationMatrix computes the heatmap for country
func (d *Dataset) CorrelationMatrix(country string) (*CorrelationMatrix, error) {
	if _, err := d.Rows(country); err != nil {
		return nil, err
	}
	n := len(domain.Metrics)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			_, xs, ys, _ := d.pairs(country, domain.Metrics[i], domain.Metrics[j])
			r := math.NaN()
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			sym.SetSym(i, j, round2(r))
		}
	}
	metrics := make([]domain.Metric, n)
	copy(metrics, domain.Metrics)
	return &CorrelationMatrix{Country: country, Metrics: metrics, Values: sym}, nil
}

// Trend is an ordinary least squares fit of the second metric on the first
type Trend struct {
	Country   string
	First     domain.Metric
	Second    domain.Metric
	Years     []int
	X         []float64
	Y         []float64
	Intercept float64
	Slope     float64
	RSquared  float64
}

// Title returns the heading of the scatter view
func (t Trend) Title() string {
	return fmt.Sprintf("Comparing %s and %s for %s", t.First.Label(), t.Second.Label(), t.Country)
}

// Predict returns the fitted value of the second metric at x
func (t Trend) Predict(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Scatter returns the paired readings of a and b for country with a fitted
// trend line
func (d *Dataset) Scatter(country string, a, b domain.Metric) (Trend, error) {
	if !a.IsValid() || !b.IsValid() {
		return Trend{}, apperrors.NewValidationError(fmt.Sprintf("unknown metric pair %s/%s", a, b))
	}
	years, xs, ys, err := d.pairs(country, a, b)
	if err != nil {
		return Trend{}, err
	}
	if len(xs) < 2 {
		return Trend{}, apperrors.NewValidationError(
			fmt.Sprintf("not enough data to compare %s and %s for %s", a.Label(), b.Label(), country))
	}
	if stat.Variance(xs, nil) == 0 {
		return Trend{}, apperrors.NewValidationError(fmt.Sprintf("%s is constant for %s", a.Label(), country))
	}
	t := Trend{Country: country, First: a, Second: b, Years: years, X: xs, Y: ys}
	t.Intercept, t.Slope = stat.LinearRegression(xs, ys, nil, false)
	// A constant second metric is fitted exactly
	if t.RSquared = stat.RSquared(xs, ys, nil, t.Intercept, t.Slope); math.IsNaN(t.RSquared) {
		t.RSquared = 1
	}
	return t, nil
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
