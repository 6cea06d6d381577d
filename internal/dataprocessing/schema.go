package dataprocessing

import (
	"fmt"
	"log/slog"

	apperrors "whrpipe/internal/errors"
	"whrpipe/pkg/contracts/domain"
)

// RawCountryColumn is the raw header holding free-text country names
const RawCountryColumn = "Country Name"

// RawYearColumn is the raw header holding the survey year
const RawYearColumn = "Year"

// Schema describes how raw headers map onto canonical columns
type Schema struct {
	// Rename maps every expected raw header to its canonical name
	Rename map[string]string
	// Remove lists raw headers that are dropped silently
	Remove []string
	// Passthrough lists canonical columns added upstream that are kept as strings
	Passthrough []string
	// Metrics lists the canonical metric columns, parsed as floats
	Metrics []domain.Metric
}

// DefaultSchema returns the World Happiness Report 2005-2021 layout
func DefaultSchema() Schema {
	return Schema{
		Rename: map[string]string{
			RawCountryColumn:                   domain.ColumnCountryName,
			RawYearColumn:                      domain.ColumnYear,
			"Life Ladder":                      domain.MetricLifeLadder.String(),
			"Log GDP Per Capita":               domain.MetricLogGDP.String(),
			"Social Support":                   domain.MetricSocialSupport.String(),
			"Healthy Life Expectancy At Birth": domain.MetricLifeExpectancy.String(),
			"Freedom To Make Life Choices":     domain.MetricFreedom.String(),
			"Generosity":                       domain.MetricGenerosity.String(),
			"Perceptions Of Corruption":        domain.MetricCorruption.String(),
			"Positive Affect":                  domain.MetricPositiveAffect.String(),
			"Negative Affect":                  domain.MetricNegativeAffect.String(),
		},
		Remove: []string{
			"Regional Indicator",
			"Confidence In National Government",
		},
		Passthrough: []string{
			domain.ColumnCountryNameISO,
			domain.ColumnCountryCodeISO,
		},
		Metrics: append([]domain.Metric(nil), domain.Metrics...),
	}
}

// Order returns the canonical column order produced by Normalize
func (s Schema) Order() []string {
	order := []string{domain.ColumnCountryName}
	order = append(order, s.Passthrough...)
	order = append(order, domain.ColumnYear)
	for _, m := range s.Metrics {
		order = append(order, m.String())
	}
	return order
}

// MissingColumns returns the expected raw headers absent from f. Columns on
// the removal list are expected too, their absence means the layout changed.
func (s Schema) MissingColumns(f *Frame) []string {
	var missing []string
	for raw := range s.Rename {
		if !f.Has(raw) {
			missing = append(missing, raw)
		}
	}
	for _, raw := range s.Remove {
		if !f.Has(raw) {
			missing = append(missing, raw)
		}
	}
	return missing
}

// Normalizer maps a raw frame onto the canonical schema
type Normalizer struct {
	schema Schema
	logger *slog.Logger
}

// NewNormalizer creates a normalizer for schema
func NewNormalizer(schema Schema, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{schema: schema, logger: logger}
}

// Normalize drops removal-list columns, renames the expected columns, drops
// any unknown column with a warning and types the result: country_name as
// string, year as int, every metric as float. A raw frame missing any
// expected column fails with a SchemaError naming all of them.
func (n *Normalizer) Normalize(f *Frame) (*Frame, error) {
	if missing := n.schema.MissingColumns(f); len(missing) > 0 {
		return nil, apperrors.NewSchemaError("normalize", missing...)
	}

	out := f.Drop(n.schema.Remove...)

	known := make(map[string]bool, len(n.schema.Rename)+len(n.schema.Passthrough))
	for raw := range n.schema.Rename {
		known[raw] = true
	}
	for _, name := range n.schema.Passthrough {
		known[name] = true
	}
	var unknown []string
	for _, name := range out.Names() {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		n.logger.Warn("Dropping unknown columns", slog.Any("columns", unknown))
		out = out.Drop(unknown...)
	}

	out, err := out.Rename(n.schema.Rename)
	if err != nil {
		return nil, fmt.Errorf("rename columns: %w", err)
	}

	var typed []*Column
	year, _ := out.Column(domain.ColumnYear)
	yearInt, err := year.ToInt()
	if err != nil {
		return nil, apperrors.NewParsingError("invalid year", err)
	}
	typed = append(typed, yearInt)

	for _, m := range n.schema.Metrics {
		col, ok := out.Column(m.String())
		if !ok {
			return nil, apperrors.NewSchemaError("normalize", m.String())
		}
		fc, err := col.ToFloat()
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid %s value", m), err)
		}
		typed = append(typed, fc)
	}

	out, err = out.With(typed...)
	if err != nil {
		return nil, err
	}

	var order []string
	for _, name := range n.schema.Order() {
		if out.Has(name) {
			order = append(order, name)
		}
	}
	return out.Select(order...)
}
