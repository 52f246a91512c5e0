package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	state := NewState(42)

	require.Equal(t, int64(42), state.UserID)
	require.Equal(t, 1, state.CurrentStep)
	require.Empty(t, state.CompletedSteps)
	require.Empty(t, state.FormData.Goals.Selected)
}

func TestGoToStepBounds(t *testing.T) {
	state := NewState(1)
	state.CurrentStep = 3

	state.GoToStep(0)
	require.Equal(t, 3, state.CurrentStep)

	state.GoToStep(7)
	require.Equal(t, 3, state.CurrentStep)

	state.GoToStep(6)
	require.Equal(t, 6, state.CurrentStep)

	state.GoToStep(1)
	require.Equal(t, 1, state.CurrentStep)
}

func TestNextStepMarksCompletedAndAdvances(t *testing.T) {
	state := NewState(1)

	state.NextStep()
	require.Equal(t, 2, state.CurrentStep)
	require.True(t, state.IsCompleted(1))
	require.False(t, state.IsCompleted(2))
}

func TestNextStepAtFinalStepIsNoOp(t *testing.T) {
	state := NewState(1)
	state.CurrentStep = TotalSteps

	state.NextStep()
	require.Equal(t, TotalSteps, state.CurrentStep)
	require.False(t, state.IsCompleted(TotalSteps))
}

func TestPreviousStepKeepsCompletionMarks(t *testing.T) {
	state := NewState(1)
	state.NextStep()
	state.NextStep()
	require.Equal(t, 3, state.CurrentStep)

	state.PreviousStep()
	state.PreviousStep()
	require.Equal(t, 1, state.CurrentStep)
	require.True(t, state.IsCompleted(1))
	require.True(t, state.IsCompleted(2))

	state.PreviousStep()
	require.Equal(t, 1, state.CurrentStep)
}

func TestCompletedStepsNoDuplicates(t *testing.T) {
	state := NewState(1)
	state.NextStep()
	state.PreviousStep()
	state.NextStep()

	require.Equal(t, []int{1}, state.CompletedSteps)
}

func TestProgressPercentage(t *testing.T) {
	state := NewState(1)

	require.Equal(t, 17, state.ProgressPercentage())

	state.CurrentStep = 3
	require.Equal(t, 50, state.ProgressPercentage())

	state.CurrentStep = TotalSteps
	require.Equal(t, 100, state.ProgressPercentage())
}

func TestStepKey(t *testing.T) {
	require.Equal(t, "step1", StepKey(1))
	require.Equal(t, "step6", StepKey(6))
}
