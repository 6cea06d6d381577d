package operations

import (
	"sync"
	"time"

	"whrpipe/internal/dataprocessing"
	"whrpipe/internal/exporter"
	"whrpipe/internal/validation"
)

// State carries the frames and reports of one run from step to step. Each
// step reads what earlier steps produced and sets its own fields; frames are
// never modified once set.
type State struct {
	mu sync.RWMutex

	RunID     string
	Request   Request
	StartTime time.Time

	// Frames, in the order they are produced
	Raw          *dataprocessing.Frame
	Filtered     *dataprocessing.Frame
	Resolved     *dataprocessing.Frame
	Normalized   *dataprocessing.Frame
	Interpolated *dataprocessing.Frame
	Ranked       *dataprocessing.Frame

	// Reports
	RowsLoaded    int
	RowsExcluded  int
	Unresolved    []string
	Interpolation dataprocessing.InterpolationReport
	Ranking       dataprocessing.RankingReport
	Violations    []validation.Violation
	Output        exporter.WriteStats

	steps map[string]*StepState
	order []string
}

// NewState creates the state of a new run
func NewState(runID string, req Request) *State {
	return &State{
		RunID:     runID,
		Request:   req,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// GetStage returns the state of a specific Step
func (s *State) GetStage(stepID string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps[stepID]
}

// SetStage registers the state of a Step
func (s *State) SetStage(stepID string, state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.steps[stepID]; !ok {
		s.order = append(s.order, stepID)
	}
	s.steps[stepID] = state
}

// Summaries returns the step states in execution order
func (s *State) Summaries() []StepSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StepSummary, 0, len(s.order))
	for _, id := range s.order {
		st := s.steps[id]
		status, message := st.Snapshot()
		out = append(out, StepSummary{
			ID:       st.ID,
			Name:     st.Name,
			Status:   status,
			Message:  message,
			Duration: st.Duration(),
		})
	}
	return out
}

// HasFailures returns true if any Step has failed
func (s *State) HasFailures() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.steps {
		if status, _ := st.Snapshot(); status == StepStatusFailed {
			return true
		}
	}
	return false
}

// Result builds the run summary
func (s *State) Result() *Result {
	return &Result{
		RunID:         s.RunID,
		Duration:      time.Since(s.StartTime),
		Steps:         s.Summaries(),
		RowsLoaded:    s.RowsLoaded,
		RowsExcluded:  s.RowsExcluded,
		Unresolved:    s.Unresolved,
		Interpolation: s.Interpolation,
		Ranking:       s.Ranking,
		Output:        s.Output,
	}
}
