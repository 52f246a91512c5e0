package wizard

import (
	"regexp"
	"strings"

	"github.com/mewayz/onboarding/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Result carries validation output for one step. Errors block the "next"
// action; warnings are advisory and never gate navigation.
type Result struct {
	Errors   map[string]string
	Warnings map[string]string
}

// Valid reports whether the step gate passes.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) addError(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[field] = message
}

func (r *Result) addWarning(key, message string) {
	if r.Warnings == nil {
		r.Warnings = make(map[string]string)
	}
	r.Warnings[key] = message
}

// ValidateStep runs the gate rule for one step against the collected form
// data. Steps 5 and 6 are optional and always pass. Offending input is
// reported verbatim, never truncated or repaired.
func ValidateStep(step int, data FormData) Result {
	var res Result
	switch step {
	case 1:
		validateBasics(data.Basics, &res)
	case 2:
		validateGoals(data.Goals, &res)
	case 3:
		validateFeatures(data.Features, &res)
	case 4:
		validatePlan(data.Plan, &res)
	}
	return res
}

func validateBasics(form BasicsForm, res *Result) {
	if strings.TrimSpace(form.Name) == "" {
		res.addError("name", "Workspace name is required.")
	}
	slug := strings.TrimSpace(form.Slug)
	switch {
	case slug == "":
		res.addError("slug", "Workspace URL is required.")
	case !slugPattern.MatchString(slug):
		res.addError("slug", "Workspace URL may only contain lowercase letters, numbers, and dashes.")
	}
	if strings.TrimSpace(form.Industry) == "" {
		res.addError("industry", "Choose an industry.")
	}
	if !form.TeamSize.Valid() {
		res.addError("team_size", "Choose a team size.")
	}
}

func validateGoals(form GoalsForm, res *Result) {
	if len(form.Selected) == 0 {
		res.addError("goals", "Select at least one goal.")
		return
	}
	seen := make(map[int]bool, len(form.Selected))
	for _, sel := range form.Selected {
		if sel.Priority < 1 || sel.Priority > len(form.Selected) || seen[sel.Priority] {
			res.addError("goals", "Goal priorities must be unique and contiguous from 1.")
			return
		}
		seen[sel.Priority] = true
	}
}

func validateFeatures(form FeaturesForm, res *Result) {
	if len(form.Selected) == 0 {
		res.addError("features", "Select at least one feature.")
		return
	}
	enabled := 0
	for _, sel := range form.Selected {
		if sel.IsEnabled {
			enabled++
		}
	}
	if enabled == 0 {
		res.addError("features", "Enable at least one selected feature.")
		return
	}
	// Exceeding the free-tier cap warns but never blocks; upgrading the plan
	// at step 4 resolves it.
	if enabled > domain.FreeFeatureCap {
		res.addWarning("features_cap", "The free plan includes up to 10 enabled features. Pick a paid plan to keep them all.")
	}
}

func validatePlan(form PlanForm, res *Result) {
	if strings.TrimSpace(form.PlanSlug) == "" {
		res.addError("plan", "Choose a subscription plan.")
	}
}

// ValidateSubmission runs every gate ahead of final submission.
func ValidateSubmission(data FormData) Result {
	var res Result
	for step := 1; step <= TotalSteps; step++ {
		stepRes := ValidateStep(step, data)
		for field, msg := range stepRes.Errors {
			res.addError(field, msg)
		}
		for key, msg := range stepRes.Warnings {
			res.addWarning(key, msg)
		}
	}
	return res
}
