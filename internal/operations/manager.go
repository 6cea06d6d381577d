package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"whrpipe/internal/countrycode"
	"whrpipe/internal/dataprocessing"
	"whrpipe/internal/exporter"
	"whrpipe/internal/files"
	"whrpipe/internal/infrastructure"
	"whrpipe/internal/validation"
)

// Dependencies holds the collaborators of a Manager. Zero fields get defaults.
type Dependencies struct {
	Logger    *slog.Logger
	Tables    *countrycode.Tables
	Authority countrycode.Authority
	Schema    *dataprocessing.Schema
	Telemetry *infrastructure.OTelProviders
}

// Manager runs the cleaning pipeline: load, exclude, resolve, normalize,
// interpolate, rank, validate and publish, in that order
type Manager struct {
	registry *Registry
	files    *files.Manager
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a manager with the standard steps registered
func NewManager(deps Dependencies) (*Manager, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "operations")
	tables := countrycode.DefaultTables()
	if deps.Tables != nil {
		tables = *deps.Tables
	}
	schema := dataprocessing.DefaultSchema()
	if deps.Schema != nil {
		schema = *deps.Schema
	}

	tracer, err := NewOperationTracer(deps.Telemetry)
	if err != nil {
		return nil, err
	}

	fileManager := files.NewManager(logger)
	fileValidator := validation.NewFileValidator(logger)
	writer := exporter.NewCSVWriter(fileManager, logger)

	registry := NewRegistry()
	steps := []Step{
		NewLoadStep(fileValidator, schema, logger),
		NewExcludeStep(tables, logger),
		NewResolveStep(tables, deps.Authority, logger),
		NewNormalizeStep(schema, logger),
		NewInterpolateStep(schema.Metrics, logger),
		NewRankStep(schema.Metrics, logger),
		NewValidateStep(schema.Metrics, tables, logger),
		NewPublishStep(fileValidator, writer, logger),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, fmt.Errorf("failed to register step: %w", err)
		}
	}

	return &Manager{
		registry: registry,
		files:    fileManager,
		tracer:   tracer,
		logger:   logger,
	}, nil
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Run executes every step in order. On error the returned Result describes
// how far the run got and no output file has been written or replaced.
func (m *Manager) Run(ctx context.Context, req Request) (*Result, error) {
	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewState(req.ID, req)

	ctx, span := m.tracer.TraceRun(ctx, req.ID, req)
	defer span.End()

	m.logOperationStart(ctx, req)

	err := m.checkRequest(req)
	if err == nil {
		err = m.executeSequential(ctx, state, m.registry.Steps())
	}

	m.tracer.RecordRunCompletion(ctx, span, state, err)
	result := state.Result()
	if err != nil {
		m.logOperationError(ctx, req.ID, err)
		return result, err
	}

	m.logOperationComplete(ctx, result)
	return result, nil
}

// checkRequest rejects requests that would overwrite their own input
func (m *Manager) checkRequest(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	same, err := m.files.SamePath(req.InputPath, req.OutputPath)
	if err != nil {
		return WrapError(err, StepIDPublish)
	}
	if same {
		return NewValidationError(StepIDPublish, "output path must differ from input path")
	}
	return nil
}

// executeSequential executes steps one by one, stopping at the first failure
func (m *Manager) executeSequential(ctx context.Context, state *State, steps []Step) error {
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	for i, step := range steps {
		stepState := state.GetStage(step.ID())

		if err := ctx.Err(); err != nil {
			m.skipRemaining(state, steps[i:], "run cancelled")
			m.logger.WarnContext(ctx, "Run cancelled", slog.String("step", step.ID()))
			return NewCancellationError(step.ID(), err)
		}

		if err := m.executeStep(ctx, state, step, stepState); err != nil {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("%s failed", step.ID()))
			return err
		}
	}
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *State, step Step, stepState *StepState) error {
	stepCtx, span := m.tracer.TraceStep(ctx, state.RunID, step.ID())
	defer span.End()

	m.logStageStart(stepCtx, state.RunID, step.ID())
	stepState.Start()
	start := time.Now()

	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	if err != nil {
		opErr := WrapError(err, step.ID())
		stepState.Fail(opErr)
		m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, opErr)
		m.logStageError(stepCtx, state.RunID, step.ID(), opErr)
		return opErr
	}

	stepState.Complete(stepMessage(step.ID(), state))
	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, nil)
	m.logStageComplete(stepCtx, state.RunID, step.ID(), duration)
	return nil
}

func (m *Manager) skipRemaining(state *State, steps []Step, reason string) {
	for _, step := range steps {
		if st := state.GetStage(step.ID()); st != nil {
			st.Skip(reason)
		}
	}
}

// stepMessage summarises what a completed step produced
func stepMessage(stepID string, state *State) string {
	switch stepID {
	case StepIDLoad:
		return fmt.Sprintf("%d rows", state.RowsLoaded)
	case StepIDExclude:
		return fmt.Sprintf("%d rows removed", state.RowsExcluded)
	case StepIDResolve:
		return fmt.Sprintf("%d names unresolved", len(state.Unresolved))
	case StepIDNormalize:
		return fmt.Sprintf("%d columns", len(state.Normalized.Names()))
	case StepIDInterpolate:
		return fmt.Sprintf("%d cells filled", state.Interpolation.TotalFilled())
	case StepIDRank:
		return fmt.Sprintf("%d years", state.Ranking.Years)
	case StepIDValidate:
		return "all checks passed"
	case StepIDPublish:
		return fmt.Sprintf("%d rows written", state.Output.Rows)
	default:
		return ""
	}
}
