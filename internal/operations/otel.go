package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"whrpipe/internal/infrastructure"
)

const (
	TracerName = "whrpipe.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	runtime *infrastructure.RuntimeMetrics
}

// NewOperationTracer creates a tracer from the given providers. Nil providers
// give a tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: tracenoop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
	}

	return &OperationTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
		runtime: runtimeMetrics,
	}, nil
}

// TraceRun creates a span for the entire run
func (pt *OperationTracer) TraceRun(ctx context.Context, runID string, req Request) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "whr.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.input", req.InputPath),
			attribute.String("run.output", req.OutputPath),
			attribute.String("run.interpolation", string(req.Interpolation)),
		),
	)
}

// TraceStep creates a span for one step
func (pt *OperationTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "whr.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion records the outcome of a step on its span and metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	pt.metrics.RecordStep(ctx, stepID, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "step completed")
}

// RecordRunCompletion records the outcome of a run
func (pt *OperationTracer) RecordRunCompletion(ctx context.Context, span trace.Span, state *State, err error) {
	duration := time.Since(state.StartTime)
	span.SetAttributes(
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int("run.rows_loaded", state.RowsLoaded),
		attribute.Int("run.rows_excluded", state.RowsExcluded),
		attribute.Int("run.rows_published", state.Output.Rows),
	)

	pt.metrics.RecordRun(ctx, duration, err)
	pt.metrics.RecordRows(ctx, state.RowsLoaded, state.RowsExcluded, state.Output.Rows)
	pt.metrics.RecordData(ctx, len(state.Unresolved), state.Interpolation.TotalFilled())
	if pt.runtime != nil {
		stats := pt.runtime.Collect(ctx, state.StartTime)
		span.SetAttributes(attribute.Int64("run.heap_alloc_bytes", stats.HeapAlloc))
	}

	infrastructure.AddSpanEvent(ctx, "run.completed", map[string]interface{}{
		"run_id":   state.RunID,
		"success":  err == nil,
		"duration": duration.Seconds(),
	})

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "run completed")
}
