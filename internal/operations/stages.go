package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"whrpipe/internal/countrycode"
	"whrpipe/internal/dataprocessing"
	apperrors "whrpipe/internal/errors"
	"whrpipe/internal/exporter"
	"whrpipe/internal/validation"
	"whrpipe/pkg/contracts/domain"
)

// LoadStep reads the raw table and checks that every expected header is there
type LoadStep struct {
	BaseStage
	files  *validation.FileValidator
	schema dataprocessing.Schema
	logger *slog.Logger
}

// NewLoadStep creates a new load step
func NewLoadStep(files *validation.FileValidator, schema dataprocessing.Schema, logger *slog.Logger) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad),
		files:     files,
		schema:    schema,
		logger:    logger,
	}
}

// Execute runs the load step
func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	path := state.Request.InputPath
	if err := s.files.ValidateInputFile(path); err != nil {
		return NewValidationError(s.ID(), err.Error())
	}

	raw, err := dataprocessing.LoadFile(path, dataprocessing.LoadOptions{
		Delimiter: state.Request.Delimiter,
		Sheet:     state.Request.Sheet,
	})
	if err != nil {
		return err
	}

	// Report every missing header now rather than one at a time in later steps
	if missing := s.schema.MissingColumns(raw); len(missing) > 0 {
		return apperrors.NewSchemaError(s.ID(), missing...)
	}

	state.Raw = raw
	state.RowsLoaded = raw.Len()

	s.logger.InfoContext(ctx, "Raw table loaded",
		slog.String("path", path),
		slog.Int("rows", raw.Len()),
		slog.Int("columns", len(raw.Names())))
	return nil
}

// ExcludeStep drops every row whose raw country name is on the exclusion list
type ExcludeStep struct {
	BaseStage
	tables countrycode.Tables
	logger *slog.Logger
}

// NewExcludeStep creates a new exclusion step
func NewExcludeStep(tables countrycode.Tables, logger *slog.Logger) *ExcludeStep {
	return &ExcludeStep{
		BaseStage: NewBaseStage(StepIDExclude, StepNameExclude),
		tables:    tables,
		logger:    logger,
	}
}

// Execute runs the exclusion step
func (s *ExcludeStep) Execute(ctx context.Context, state *State) error {
	if !state.Raw.Has(dataprocessing.RawCountryColumn) {
		return apperrors.NewSchemaError(s.ID(), dataprocessing.RawCountryColumn)
	}

	resolver := countrycode.NewResolver(s.tables, nil, countrycode.WithLogger(s.logger))
	removed := make(map[string]int)
	filtered, err := state.Raw.FilterValues(dataprocessing.RawCountryColumn, func(name string) bool {
		if resolver.Excluded(name) {
			removed[name]++
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.ID(), err)
	}

	state.Filtered = filtered
	state.RowsExcluded = state.Raw.Len() - filtered.Len()

	if state.RowsExcluded > 0 {
		s.logger.InfoContext(ctx, "Excluded countries removed",
			slog.Int("rows", state.RowsExcluded),
			slog.Any("countries", removed))
	}
	return nil
}

// ResolveStep adds the corrected name and ISO alpha-3 code of every row
type ResolveStep struct {
	BaseStage
	tables    countrycode.Tables
	authority countrycode.Authority
	logger    *slog.Logger
}

// NewResolveStep creates a new resolution step. A nil authority means the
// built-in ISO 3166 registry.
func NewResolveStep(tables countrycode.Tables, authority countrycode.Authority, logger *slog.Logger) *ResolveStep {
	return &ResolveStep{
		BaseStage: NewBaseStage(StepIDResolve, StepNameResolve),
		tables:    tables,
		authority: authority,
		logger:    logger,
	}
}

// Execute runs the resolution step
func (s *ResolveStep) Execute(ctx context.Context, state *State) error {
	names, ok := state.Filtered.Column(dataprocessing.RawCountryColumn)
	if !ok {
		return apperrors.NewSchemaError(s.ID(), dataprocessing.RawCountryColumn)
	}

	resolver := countrycode.NewResolver(s.tables, s.authority,
		countrycode.WithWorkers(state.Request.Workers),
		countrycode.WithLogger(s.logger))

	corrected := make([]string, names.Len())
	for i := range corrected {
		corrected[i] = resolver.Correct(names.String(i))
	}

	found, err := resolver.ResolveAll(ctx, corrected)
	if err != nil {
		return err
	}

	codes := make([]string, len(corrected))
	unresolved := make(map[string]struct{})
	for i, name := range corrected {
		if code, ok := found[name]; ok {
			codes[i] = code
		} else {
			unresolved[name] = struct{}{}
		}
	}

	resolved, err := state.Filtered.With(
		dataprocessing.NewStringColumn(domain.ColumnCountryNameISO, corrected),
		dataprocessing.NewStringColumn(domain.ColumnCountryCodeISO, codes),
	)
	if err != nil {
		return err
	}

	state.Resolved = resolved
	state.Unresolved = make([]string, 0, len(unresolved))
	for name := range unresolved {
		state.Unresolved = append(state.Unresolved, name)
	}
	sort.Strings(state.Unresolved)

	s.logger.InfoContext(ctx, "Country codes resolved",
		slog.Int("names", len(found)+len(unresolved)),
		slog.Int("unresolved", len(unresolved)))
	return nil
}

// NormalizeStep maps the resolved table onto the canonical schema
type NormalizeStep struct {
	BaseStage
	normalizer *dataprocessing.Normalizer
}

// NewNormalizeStep creates a new normalization step
func NewNormalizeStep(schema dataprocessing.Schema, logger *slog.Logger) *NormalizeStep {
	return &NormalizeStep{
		BaseStage:  NewBaseStage(StepIDNormalize, StepNameNormalize),
		normalizer: dataprocessing.NewNormalizer(schema, logger),
	}
}

// Execute runs the normalization step
func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	normalized, err := s.normalizer.Normalize(state.Resolved)
	if err != nil {
		return err
	}
	state.Normalized = normalized
	return nil
}

// InterpolateStep fills gaps in the metric columns
type InterpolateStep struct {
	BaseStage
	metrics []domain.Metric
	logger  *slog.Logger
}

// NewInterpolateStep creates a new interpolation step
func NewInterpolateStep(metrics []domain.Metric, logger *slog.Logger) *InterpolateStep {
	return &InterpolateStep{
		BaseStage: NewBaseStage(StepIDInterpolate, StepNameInterpolate),
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute runs the interpolation step. Empty columns are reported here and
// fail the run at the post-condition step.
func (s *InterpolateStep) Execute(ctx context.Context, state *State) error {
	ip := dataprocessing.NewInterpolator(state.Request.Interpolation, s.metrics, s.logger)
	filled, report, err := ip.Interpolate(state.Normalized)
	if err != nil {
		return err
	}

	state.Interpolated = filled
	state.Interpolation = report

	s.logger.InfoContext(ctx, "Missing values interpolated",
		slog.String("mode", string(report.Mode)),
		slog.Int("filled", report.TotalFilled()),
		slog.Any("empty_columns", report.EmptyColumns))
	return nil
}

// RankStep precomputes per-year ranks for every metric
type RankStep struct {
	BaseStage
	engine *dataprocessing.RankingEngine
	logger *slog.Logger
}

// NewRankStep creates a new ranking step
func NewRankStep(metrics []domain.Metric, logger *slog.Logger) *RankStep {
	return &RankStep{
		BaseStage: NewBaseStage(StepIDRank, StepNameRank),
		engine:    dataprocessing.NewRankingEngine(metrics, logger),
		logger:    logger,
	}
}

// Execute runs the ranking step
func (s *RankStep) Execute(ctx context.Context, state *State) error {
	ranked, report, err := s.engine.Rank(state.Interpolated)
	if err != nil {
		return err
	}

	state.Ranked = ranked
	state.Ranking = report

	s.logger.InfoContext(ctx, "Metrics ranked",
		slog.Int("years", report.Years),
		slog.Int("rows", report.RankedRows))
	return nil
}

// ValidateStep checks the ranked table before anything is written
type ValidateStep struct {
	BaseStage
	validator *validation.FrameValidator
}

// NewValidateStep creates a new post-condition step
func NewValidateStep(metrics []domain.Metric, tables countrycode.Tables, logger *slog.Logger) *ValidateStep {
	return &ValidateStep{
		BaseStage: NewBaseStage(StepIDValidate, StepNameValidate),
		validator: validation.NewFrameValidator(metrics, tables.ExcludedNames(), logger),
	}
}

// Execute runs the post-condition checks. The first violation names the
// failed check; all of them are kept in the error context.
func (s *ValidateStep) Execute(ctx context.Context, state *State) error {
	violations := s.validator.Validate(state.Ranked)
	state.Violations = violations
	if len(violations) == 0 {
		return nil
	}

	all := make([]string, len(violations))
	for i, v := range violations {
		all[i] = v.String()
	}

	err := NewPostConditionError(s.ID(), violations[0].Check, violations[0].Message)
	if len(violations) > 1 {
		err.Message = fmt.Sprintf("%s (and %d more)", err.Message, len(violations)-1)
	}
	err.Context = map[string]interface{}{"violations": strings.Join(all, "; ")}
	return err
}

// PublishStep writes the cleaned table atomically
type PublishStep struct {
	BaseStage
	files  *validation.FileValidator
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// NewPublishStep creates a new publication step
func NewPublishStep(files *validation.FileValidator, writer *exporter.CSVWriter, logger *slog.Logger) *PublishStep {
	return &PublishStep{
		BaseStage: NewBaseStage(StepIDPublish, StepNamePublish),
		files:     files,
		writer:    writer,
		logger:    logger,
	}
}

// Execute runs the publication step
func (s *PublishStep) Execute(ctx context.Context, state *State) error {
	path := state.Request.OutputPath
	if err := s.files.ValidateOutputFile(path); err != nil {
		return NewValidationError(s.ID(), err.Error())
	}

	// Last point at which a cancelled run leaves no trace
	if err := ctx.Err(); err != nil {
		return err
	}

	stats, err := s.writer.WriteAtomic(state.Ranked, path, exporter.WriteOptions{
		Columns:   domain.OutputColumns(),
		BOMPrefix: state.Request.WriteBOM,
	})
	if err != nil {
		return apperrors.NewStorageError("failed to publish cleaned file", err).WithContext("path", path)
	}
	state.Output = stats

	s.logger.InfoContext(ctx, "Cleaned file published",
		slog.String("path", stats.Path),
		slog.Int("rows", stats.Rows),
		slog.Int64("bytes", stats.Bytes))
	return nil
}
