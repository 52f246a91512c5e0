package wizard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mewayz/onboarding/internal/domain"
)

// TotalSteps is the number of steps in the workspace setup flow.
const TotalSteps = 6

// Step keys namespace per-step form data within the persisted state.
func StepKey(step int) string {
	return fmt.Sprintf("step%d", step)
}

// BasicsForm collects workspace identity (step 1).
type BasicsForm struct {
	Name     string                `json:"name"`
	Slug     string                `json:"slug"`
	Industry string                `json:"industry"`
	TeamSize domain.TeamSizeBucket `json:"team_size"`
}

// SelectedGoal is a chosen business objective with its ranking.
type SelectedGoal struct {
	GoalID   string `json:"goal_id"`
	Priority int    `json:"priority"`
	SetupNow bool   `json:"setup_now"`
}

// GoalsForm collects selected goals (step 2).
type GoalsForm struct {
	Selected []SelectedGoal `json:"selected"`
}

// SelectedFeature is a chosen catalog feature.
type SelectedFeature struct {
	FeatureSlug string `json:"feature_slug"`
	IsEnabled   bool   `json:"is_enabled"`
	Priority    string `json:"priority"`
}

// FeaturesForm collects selected features (step 3).
type FeaturesForm struct {
	Selected []SelectedFeature `json:"selected"`
}

// PlanForm records the subscription choice (step 4).
type PlanForm struct {
	PlanSlug     string `json:"plan_slug"`
	BillingCycle string `json:"billing_cycle"`
}

// InviteDraft is a pending teammate invitation (step 5).
type InviteDraft struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Message    string `json:"message,omitempty"`
}

// TeamForm collects invitation drafts (step 5, optional).
type TeamForm struct {
	Invites []InviteDraft `json:"invites"`
}

// BrandingForm collects white-label settings (step 6, optional).
type BrandingForm struct {
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	DarkMode       bool   `json:"dark_mode"`
}

// FormData holds every step's collected input. Entries are never deleted once
// written; revisiting an earlier step does not invalidate later steps.
type FormData struct {
	Basics   BasicsForm   `json:"step1"`
	Goals    GoalsForm    `json:"step2"`
	Features FeaturesForm `json:"step3"`
	Plan     PlanForm     `json:"step4"`
	Team     TeamForm     `json:"step5"`
	Branding BrandingForm `json:"step6"`
}

// State is one user's in-progress workspace setup. Errors and Warnings are
// request-scoped; only the navigation pointer, completed set, and form data
// survive a round trip through the durable store.
type State struct {
	UserID         int64     `json:"user_id"`
	CurrentStep    int       `json:"current_step"`
	CompletedSteps []int     `json:"completed_steps"`
	FormData       FormData  `json:"form_data"`
	Revision       int64     `json:"revision"`
	UpdatedAt      time.Time `json:"updated_at"`

	Errors   map[string]string `json:"-"`
	Warnings map[string]string `json:"-"`
}

// NewState returns the all-defaults state for a user entering the flow.
func NewState(userID int64) *State {
	return &State{
		UserID:      userID,
		CurrentStep: 1,
	}
}

// GoToStep moves the pointer if the target is within bounds; out-of-range
// targets are ignored rather than treated as errors.
func (s *State) GoToStep(step int) {
	if step < 1 || step > TotalSteps {
		return
	}
	s.CurrentStep = step
}

// NextStep marks the current step completed and advances the pointer as a
// single transition. At the final step it is a no-op.
func (s *State) NextStep() {
	if s.CurrentStep >= TotalSteps {
		return
	}
	s.markCompleted(s.CurrentStep)
	s.CurrentStep++
}

// PreviousStep rewinds the pointer without removing completion marks.
func (s *State) PreviousStep() {
	if s.CurrentStep <= 1 {
		return
	}
	s.CurrentStep--
}

// IsCompleted reports whether the step has been advanced past.
func (s *State) IsCompleted(step int) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

func (s *State) markCompleted(step int) {
	if s.IsCompleted(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
	sort.Ints(s.CompletedSteps)
}

// ProgressPercentage reports flow progress for the current pointer.
func (s *State) ProgressPercentage() int {
	return int(math.Round(float64(s.CurrentStep) / float64(TotalSteps) * 100))
}

// SetError records a field-level validation message.
func (s *State) SetError(field, message string) {
	if s.Errors == nil {
		s.Errors = make(map[string]string)
	}
	s.Errors[field] = message
}

// SetWarning records a non-blocking advisory message.
func (s *State) SetWarning(key, message string) {
	if s.Warnings == nil {
		s.Warnings = make(map[string]string)
	}
	s.Warnings[key] = message
}
