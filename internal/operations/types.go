package operations

import (
	"time"

	"whrpipe/internal/dataprocessing"
	"whrpipe/internal/exporter"
)

// Pipeline step identifiers, in execution order
const (
	StepIDLoad        = "load"
	StepIDExclude     = "exclude"
	StepIDResolve     = "resolve"
	StepIDNormalize   = "normalize"
	StepIDInterpolate = "interpolate"
	StepIDRank        = "rank"
	StepIDValidate    = "validate"
	StepIDPublish     = "publish"
)

// Pipeline step names
const (
	StepNameLoad        = "Load Raw Table"
	StepNameExclude     = "Remove Excluded Countries"
	StepNameResolve     = "Resolve Country Codes"
	StepNameNormalize   = "Normalize Schema"
	StepNameInterpolate = "Interpolate Missing Values"
	StepNameRank        = "Rank Metrics"
	StepNameValidate    = "Check Post-Conditions"
	StepNamePublish     = "Publish Cleaned File"
)

// Result summarises a completed run
type Result struct {
	RunID         string                             `json:"run_id"`
	Duration      time.Duration                      `json:"duration"`
	Steps         []StepSummary                      `json:"steps"`
	RowsLoaded    int                                `json:"rows_loaded"`
	RowsExcluded  int                                `json:"rows_excluded"`
	Unresolved    []string                           `json:"unresolved,omitempty"`
	Interpolation dataprocessing.InterpolationReport `json:"interpolation"`
	Ranking       dataprocessing.RankingReport       `json:"ranking"`
	Output        exporter.WriteStats                `json:"output"`
}

// StepSummary is the final state of one step
type StepSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}
