package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStep struct {
	BaseStage
	run func(ctx context.Context, state *State) error
}

func newFakeStep(id string) *fakeStep {
	return &fakeStep{BaseStage: NewBaseStage(id, "Fake "+id)}
}

func (s *fakeStep) Execute(ctx context.Context, state *State) error {
	if s.run != nil {
		return s.run(ctx, state)
	}
	return nil
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(newFakeStep("b")))
	require.NoError(t, registry.Register(newFakeStep("a")))
	assert.Error(t, registry.Register(newFakeStep("a")), "duplicate id")
	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(newFakeStep("")))

	assert.Equal(t, 2, registry.Count())

	var ids []string
	for _, step := range registry.Steps() {
		ids = append(ids, step.ID())
	}
	assert.Equal(t, []string{"b", "a"}, ids, "registration order is kept")

	step, err := registry.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Fake a", step.Name())

	_, err = registry.Get("missing")
	assert.Error(t, err)
}

func TestNewManager_RegistersStepsInOrder(t *testing.T) {
	manager, _ := newTestManager(t, nil)

	var ids []string
	for _, step := range manager.GetRegistry().Steps() {
		ids = append(ids, step.ID())
	}
	assert.Equal(t, []string{
		StepIDLoad, StepIDExclude, StepIDResolve, StepIDNormalize,
		StepIDInterpolate, StepIDRank, StepIDValidate, StepIDPublish,
	}, ids)
}

func TestExecuteSequential_StopsAtFirstFailure(t *testing.T) {
	manager, _ := newTestManager(t, nil)

	ran := map[string]bool{}
	mark := func(id string) func(context.Context, *State) error {
		return func(context.Context, *State) error {
			ran[id] = true
			return nil
		}
	}
	first, second, third := newFakeStep("first"), newFakeStep("second"), newFakeStep("third")
	first.run = mark("first")
	second.run = func(context.Context, *State) error {
		return NewPostConditionError("", "rank_coverage", "gap")
	}
	third.run = mark("third")

	state := NewState("run-1", Request{})
	err := manager.executeSequential(context.Background(), state, []Step{first, second, third})
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "second", opErr.Step)
	assert.True(t, ran["first"])
	assert.False(t, ran["third"])
	assert.True(t, state.HasFailures())

	summaries := state.Summaries()
	require.Len(t, summaries, 3)
	assert.Equal(t, StepStatusCompleted, summaries[0].Status)
	assert.Equal(t, StepStatusFailed, summaries[1].Status)
	assert.Equal(t, StepStatusSkipped, summaries[2].Status)
	assert.Equal(t, "second failed", summaries[2].Message)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{name: "valid", req: Request{InputPath: "in.csv", OutputPath: "out.csv"}},
		{name: "no input", req: Request{OutputPath: "out.csv"}, wantErr: "input path is required"},
		{name: "no output", req: Request{InputPath: "in.csv"}, wantErr: "output path is required"},
		{name: "bad mode", req: Request{InputPath: "in.csv", OutputPath: "out.csv", Interpolation: "spline"}, wantErr: "unknown interpolation mode"},
		{name: "negative workers", req: Request{InputPath: "in.csv", OutputPath: "out.csv", Workers: -1}, wantErr: "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
