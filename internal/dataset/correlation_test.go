package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whrpipe/internal/errors"
	"whrpipe/pkg/contracts/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		r    float64
		want Strength
	}{
		{0, StrengthNegligible},
		{0.3, StrengthNegligible},
		{-0.31, StrengthWeak},
		{0.5, StrengthWeak},
		{0.7, StrengthModerate},
		{-0.85, StrengthStrong},
		{0.9, StrengthStrong},
		{0.95, StrengthVeryStrong},
		{-1, StrengthVeryStrong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.r), "r=%v", tt.r)
	}
}

func TestSignificanceLabel(t *testing.T) {
	assert.Equal(t, "Negligible Significance", StrengthNegligible.SignificanceLabel())
	assert.Equal(t, "Very Strong Signifiance", StrengthVeryStrong.SignificanceLabel())
	assert.Equal(t, "very strong", StrengthVeryStrong.String())
}

func TestExplanation(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		want string
	}{
		{
			name: "negligible",
			r:    0.1,
			want: "The Correlation is negligibale. Therefore no real assumption can be made between Life Ladder and Generosity",
		},
		{
			name: "weak",
			r:    -0.4,
			want: "The Correlation is weak. Therefore no real assumption can be made between Life Ladder and Generosity",
		},
		{
			name: "moderate positive",
			r:    0.6,
			want: "The Correlation is moderate: The higher Life Ladder the higher is Generosity in Switzerland",
		},
		{
			name: "very strong negative",
			r:    -0.95,
			want: "The Correlation is very strong: The higher Life Ladder the lower is Generosity in Switzerland",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CorrelationResult{
				Country:  "Switzerland",
				First:    domain.MetricLifeLadder,
				Second:   domain.MetricGenerosity,
				R:        tt.r,
				Strength: Categorize(tt.r),
			}
			assert.Equal(t, tt.want, c.Explanation())
		})
	}
}

func TestSignExplanation(t *testing.T) {
	assert.Contains(t, CorrelationResult{R: 0}.SignExplanation(), "positive")
	assert.Contains(t, CorrelationResult{R: -0.2}.SignExplanation(), "negative")
	assert.Equal(t, "-0.20", CorrelationResult{R: -0.2}.Significance())
}

func TestCorrelation(t *testing.T) {
	d := loadSample(t)

	c, err := d.Correlation(DefaultCountry, DefaultFirstFeature, DefaultSecondFeature)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.Equal(t, 3, c.Points)
	assert.Equal(t, StrengthVeryStrong, c.Strength)
	assert.True(t, c.Positive())
}

func TestCorrelationUsesCompletePairsOnly(t *testing.T) {
	d := loadSample(t)

	// log_gdp is missing in 2020, leaving 2019 and 2021
	c, err := d.Correlation("Switzerland", domain.MetricLifeLadder, domain.MetricLogGDP)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Points)
	assert.InDelta(t, -1.0, c.R, 1e-9)
	assert.False(t, c.Positive())
}

func TestCorrelationErrors(t *testing.T) {
	d := loadSample(t)

	_, err := d.Correlation("Chad", domain.MetricLifeLadder, domain.MetricGenerosity)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = d.Correlation("Switzerland", domain.MetricLifeLadder, domain.MetricFreedom)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation), "constant series")

	_, err = d.Correlation("Switzerland", domain.MetricLifeLadder, domain.Metric("kindness"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = d.Correlation("Atlantis", domain.MetricLifeLadder, domain.MetricGenerosity)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestCorrelationMatrix(t *testing.T) {
	d := loadSample(t)

	m, err := d.CorrelationMatrix("Switzerland")
	require.NoError(t, err)
	assert.Equal(t, "Correlation Information about Switzerland", m.Title())
	assert.Equal(t, "Life Ladder", m.Labels()[0])

	ladder, generosity := 0, 5
	assert.Equal(t, 1.0, m.At(ladder, generosity))
	assert.Equal(t, m.At(ladder, generosity), m.At(generosity, ladder))
	assert.Equal(t, 1.0, m.At(ladder, ladder))
	// Social support is missing everywhere
	assert.True(t, math.IsNaN(m.At(ladder, 2)))

	_, err = d.CorrelationMatrix("Atlantis")
	assert.Error(t, err)
}

func TestScatter(t *testing.T) {
	d := loadSample(t)

	tr, err := d.Scatter("Switzerland", domain.MetricLifeLadder, domain.MetricGenerosity)
	require.NoError(t, err)
	assert.Equal(t, "Comparing Life Ladder and Generosity for Switzerland", tr.Title())
	assert.Equal(t, []int{2019, 2020, 2021}, tr.Years)
	assert.InDelta(t, 1.0, tr.Slope, 1e-9)
	assert.InDelta(t, -7.2, tr.Intercept, 1e-9)
	assert.InDelta(t, 1.0, tr.RSquared, 1e-9)
	assert.InDelta(t, 0.2, tr.Predict(7.4), 1e-9)

	_, err = d.Scatter("Chad", domain.MetricLifeLadder, domain.MetricGenerosity)
	assert.Error(t, err)
}
