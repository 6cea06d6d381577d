package operations

import (
	"fmt"
	"strings"

	"whrpipe/internal/config"
	"whrpipe/internal/dataprocessing"
)

// Request describes one cleaning run
type Request struct {
	// ID identifies the run in logs and traces, generated when empty
	ID string `json:"id"`

	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`

	// Delimiter separates CSV input fields, ',' when zero
	Delimiter rune `json:"delimiter"`

	// Sheet selects the XLSX worksheet, the first sheet when empty
	Sheet string `json:"sheet,omitempty"`

	Interpolation dataprocessing.InterpolationMode `json:"interpolation"`

	// Workers bounds concurrent country code lookups
	Workers int `json:"workers"`

	// WriteBOM prefixes the output with a UTF-8 BOM
	WriteBOM bool `json:"write_bom"`
}

// RequestFromConfig builds a request from the pipeline configuration
func RequestFromConfig(cfg config.PipelineConfig) Request {
	return Request{
		InputPath:     cfg.InputPath,
		OutputPath:    cfg.OutputPath,
		Delimiter:     cfg.DelimiterRune(),
		Sheet:         cfg.Sheet,
		Interpolation: dataprocessing.InterpolationMode(cfg.Interpolation),
		Workers:       cfg.Workers,
		WriteBOM:      cfg.WriteBOM,
	}
}

// Validate checks the request fields that need no file system access
func (r Request) Validate() error {
	if strings.TrimSpace(r.InputPath) == "" {
		return NewValidationError(StepIDLoad, "input path is required")
	}
	if strings.TrimSpace(r.OutputPath) == "" {
		return NewValidationError(StepIDPublish, "output path is required")
	}
	if r.Interpolation != "" && !r.Interpolation.IsValid() {
		return NewValidationError(StepIDInterpolate, fmt.Sprintf("unknown interpolation mode %q", r.Interpolation))
	}
	if r.Workers < 0 {
		return NewValidationError(StepIDResolve, fmt.Sprintf("workers must not be negative, got %d", r.Workers))
	}
	return nil
}
