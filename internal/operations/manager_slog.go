package operations

import (
	"context"
	"log/slog"
	"time"
)

// logOperationStart logs the start of a run
func (m *Manager) logOperationStart(ctx context.Context, req Request) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", req.ID),
		slog.String("input", req.InputPath),
		slog.String("output", req.OutputPath),
		slog.String("interpolation", string(req.Interpolation)),
		slog.Int("workers", req.Workers))
}

// logOperationComplete logs the completion of a run
func (m *Manager) logOperationComplete(ctx context.Context, result *Result) {
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", result.RunID),
		slog.Int("rows_loaded", result.RowsLoaded),
		slog.Int("rows_excluded", result.RowsExcluded),
		slog.Int("rows_published", result.Output.Rows),
		slog.Int("unresolved", len(result.Unresolved)),
		slog.Duration("duration", result.Duration))
}

// logOperationError logs a failed run
func (m *Manager) logOperationError(ctx context.Context, operationID string, err error) {
	m.logger.ErrorContext(ctx, "operation_error",
		slog.String("operation_id", operationID),
		slog.String("type", string(GetErrorType(err))),
		slog.String("error", err.Error()))
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, operationID, stepID string) {
	m.logger.DebugContext(ctx, "stage_start",
		slog.String("operation_id", operationID),
		slog.String("step", stepID))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, operationID, stepID string, duration time.Duration) {
	m.logger.DebugContext(ctx, "stage_complete",
		slog.String("operation_id", operationID),
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

// logStageError logs a Step error
func (m *Manager) logStageError(ctx context.Context, operationID, stepID string, err error) {
	m.logger.ErrorContext(ctx, "stage_error",
		slog.String("operation_id", operationID),
		slog.String("step", stepID),
		slog.String("error", err.Error()))
}
