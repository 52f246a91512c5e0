package wizard

import "fmt"

// MaxGoals caps how many objectives a workspace can rank during setup.
const MaxGoals = 6

// Select adds a goal at the lowest priority. Selecting an already-selected
// goal is a no-op.
func (g *GoalsForm) Select(goalID string, setupNow bool) error {
	if g.indexOf(goalID) >= 0 {
		return nil
	}
	if len(g.Selected) >= MaxGoals {
		return fmt.Errorf("select goal: at most %d goals", MaxGoals)
	}
	g.Selected = append(g.Selected, SelectedGoal{
		GoalID:   goalID,
		Priority: len(g.Selected) + 1,
		SetupNow: setupNow,
	})
	return nil
}

// Deselect removes a goal and compacts the remaining priorities so they stay
// a contiguous 1..k run, preserving relative order.
func (g *GoalsForm) Deselect(goalID string) {
	idx := g.indexOf(goalID)
	if idx < 0 {
		return
	}
	removed := g.Selected[idx].Priority
	g.Selected = append(g.Selected[:idx], g.Selected[idx+1:]...)
	for i := range g.Selected {
		if g.Selected[i].Priority > removed {
			g.Selected[i].Priority--
		}
	}
}

// SetPriority assigns a new priority to a selected goal. When another goal
// already holds that priority the two swap, so the selection always remains a
// permutation of 1..k.
func (g *GoalsForm) SetPriority(goalID string, priority int) error {
	idx := g.indexOf(goalID)
	if idx < 0 {
		return fmt.Errorf("set priority: goal %q not selected", goalID)
	}
	if priority < 1 || priority > len(g.Selected) {
		return fmt.Errorf("set priority: priority %d out of range 1..%d", priority, len(g.Selected))
	}
	current := g.Selected[idx].Priority
	if current == priority {
		return nil
	}
	for i := range g.Selected {
		if g.Selected[i].Priority == priority {
			g.Selected[i].Priority = current
			break
		}
	}
	g.Selected[idx].Priority = priority
	return nil
}

func (g *GoalsForm) indexOf(goalID string) int {
	for i, sel := range g.Selected {
		if sel.GoalID == goalID {
			return i
		}
	}
	return -1
}

// GoalIDs returns the selected goal IDs in priority order.
func (g *GoalsForm) GoalIDs() []string {
	byPriority := make([]string, len(g.Selected))
	for _, sel := range g.Selected {
		if sel.Priority >= 1 && sel.Priority <= len(byPriority) {
			byPriority[sel.Priority-1] = sel.GoalID
		}
	}
	ids := make([]string, 0, len(byPriority))
	for _, id := range byPriority {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
