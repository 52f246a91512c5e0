package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func requirePermutation(t *testing.T, form GoalsForm) {
	t.Helper()
	seen := make(map[int]bool, len(form.Selected))
	for _, sel := range form.Selected {
		require.GreaterOrEqual(t, sel.Priority, 1)
		require.LessOrEqual(t, sel.Priority, len(form.Selected))
		require.False(t, seen[sel.Priority], "duplicate priority %d", sel.Priority)
		seen[sel.Priority] = true
	}
}

func TestSelectAppendsLowestPriority(t *testing.T) {
	var form GoalsForm

	require.NoError(t, form.Select("crm", true))
	require.NoError(t, form.Select("analytics", false))
	require.NoError(t, form.Select("courses", false))

	require.Equal(t, []string{"crm", "analytics", "courses"}, form.GoalIDs())
	requirePermutation(t, form)
}

func TestSelectDuplicateIsNoOp(t *testing.T) {
	var form GoalsForm
	require.NoError(t, form.Select("crm", true))
	require.NoError(t, form.Select("crm", false))

	require.Len(t, form.Selected, 1)
	require.True(t, form.Selected[0].SetupNow)
}

func TestSelectCap(t *testing.T) {
	var form GoalsForm
	ids := []string{"a", "b", "c", "d", "e", "f"}
	for _, id := range ids {
		require.NoError(t, form.Select(id, false))
	}
	require.Error(t, form.Select("g", false))
	require.Len(t, form.Selected, MaxGoals)
}

func TestDeselectCompactsPriorities(t *testing.T) {
	var form GoalsForm
	require.NoError(t, form.Select("a", false))
	require.NoError(t, form.Select("b", false))
	require.NoError(t, form.Select("c", false))

	form.Deselect("b")

	require.Equal(t, []string{"a", "c"}, form.GoalIDs())
	requirePermutation(t, form)
}

func TestDeselectUnknownIsNoOp(t *testing.T) {
	var form GoalsForm
	require.NoError(t, form.Select("a", false))
	form.Deselect("missing")
	require.Len(t, form.Selected, 1)
}

func TestSetPrioritySwaps(t *testing.T) {
	var form GoalsForm
	require.NoError(t, form.Select("a", false))
	require.NoError(t, form.Select("b", false))
	require.NoError(t, form.Select("c", false))

	require.NoError(t, form.SetPriority("c", 1))

	require.Equal(t, []string{"c", "b", "a"}, form.GoalIDs())
	requirePermutation(t, form)
}

func TestSetPriorityRejectsOutOfRange(t *testing.T) {
	var form GoalsForm
	require.NoError(t, form.Select("a", false))
	require.NoError(t, form.Select("b", false))

	require.Error(t, form.SetPriority("a", 0))
	require.Error(t, form.SetPriority("a", 3))
	require.Error(t, form.SetPriority("missing", 1))
	requirePermutation(t, form)
}

func TestPriorityPermutationAcrossOperationSequence(t *testing.T) {
	var form GoalsForm
	require.NoError(t, form.Select("a", false))
	require.NoError(t, form.Select("b", false))
	require.NoError(t, form.Select("c", false))
	require.NoError(t, form.Select("d", false))

	require.NoError(t, form.SetPriority("d", 2))
	form.Deselect("a")
	require.NoError(t, form.Select("e", false))
	require.NoError(t, form.SetPriority("e", 1))
	form.Deselect("c")

	requirePermutation(t, form)
	require.Len(t, form.GoalIDs(), 3)
}
