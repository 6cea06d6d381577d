package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by a cleaning run
type PipelineMetrics struct {
	RunsTotal         metric.Int64Counter
	RunDuration       metric.Float64Histogram
	StepDuration      metric.Float64Histogram
	StepErrors        metric.Int64Counter
	RowsLoaded        metric.Int64Counter
	RowsExcluded      metric.Int64Counter
	RowsPublished     metric.Int64Counter
	UnresolvedNames   metric.Int64Counter
	InterpolatedCells metric.Int64Counter
}

// CreatePipelineMetrics registers the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"whr_runs",
		metric.WithDescription("Total number of pipeline runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"whr_run_duration",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"whr_step_duration",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter(
		"whr_step_errors",
		metric.WithDescription("Total number of failed pipeline steps"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"whr_rows_loaded",
		metric.WithDescription("Raw rows read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	rowsExcluded, err := meter.Int64Counter(
		"whr_rows_excluded",
		metric.WithDescription("Rows dropped because their country has no ISO code"),
	)
	if err != nil {
		return nil, err
	}

	rowsPublished, err := meter.Int64Counter(
		"whr_rows_published",
		metric.WithDescription("Rows written to the cleaned file"),
	)
	if err != nil {
		return nil, err
	}

	unresolved, err := meter.Int64Counter(
		"whr_unresolved_countries",
		metric.WithDescription("Distinct country names without an ISO code"),
	)
	if err != nil {
		return nil, err
	}

	interpolated, err := meter.Int64Counter(
		"whr_interpolated_cells",
		metric.WithDescription("Metric cells filled by interpolation"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:         runsTotal,
		RunDuration:       runDuration,
		StepDuration:      stepDuration,
		StepErrors:        stepErrors,
		RowsLoaded:        rowsLoaded,
		RowsExcluded:      rowsExcluded,
		RowsPublished:     rowsPublished,
		UnresolvedNames:   unresolved,
		InterpolatedCells: interpolated,
	}, nil
}

// RecordStep records the duration and outcome of one pipeline step
func (m *PipelineMetrics) RecordStep(ctx context.Context, stepID string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
		m.StepErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("step", stepID)))
	}
	m.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("step", stepID),
		attribute.String("status", status),
	))
}

// RecordRun records the duration and outcome of a whole run
func (m *PipelineMetrics) RecordRun(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRows adds the row counts of one run. Zero counts are skipped.
func (m *PipelineMetrics) RecordRows(ctx context.Context, loaded, excluded, published int) {
	if m == nil {
		return
	}
	add(ctx, m.RowsLoaded, loaded)
	add(ctx, m.RowsExcluded, excluded)
	add(ctx, m.RowsPublished, published)
}

// RecordData adds the unresolved name and interpolated cell counts of one run
func (m *PipelineMetrics) RecordData(ctx context.Context, unresolved, interpolated int) {
	if m == nil {
		return
	}
	add(ctx, m.UnresolvedNames, unresolved)
	add(ctx, m.InterpolatedCells, interpolated)
}

func add(ctx context.Context, counter metric.Int64Counter, n int) {
	if n > 0 {
		counter.Add(ctx, int64(n))
	}
}
