package wizard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mewayz/onboarding/internal/domain"
)

func validBasics() BasicsForm {
	return BasicsForm{
		Name:     "Acme Studio",
		Slug:     "acme-studio",
		Industry: "marketing",
		TeamSize: domain.TeamSmall,
	}
}

func TestValidateBasics(t *testing.T) {
	res := ValidateStep(1, FormData{Basics: validBasics()})
	require.True(t, res.Valid())

	res = ValidateStep(1, FormData{})
	require.False(t, res.Valid())
	require.Contains(t, res.Errors, "name")
	require.Contains(t, res.Errors, "slug")
	require.Contains(t, res.Errors, "industry")
	require.Contains(t, res.Errors, "team_size")

	form := validBasics()
	form.Slug = "Acme Studio!"
	res = ValidateStep(1, FormData{Basics: form})
	require.False(t, res.Valid())
	require.Contains(t, res.Errors["slug"], "lowercase")
}

func TestValidateGoals(t *testing.T) {
	res := ValidateStep(2, FormData{})
	require.False(t, res.Valid())
	require.Contains(t, res.Errors, "goals")

	var goals GoalsForm
	require.NoError(t, goals.Select("crm", false))
	require.NoError(t, goals.Select("analytics", false))
	res = ValidateStep(2, FormData{Goals: goals})
	require.True(t, res.Valid())

	broken := GoalsForm{Selected: []SelectedGoal{
		{GoalID: "crm", Priority: 1},
		{GoalID: "analytics", Priority: 1},
	}}
	res = ValidateStep(2, FormData{Goals: broken})
	require.False(t, res.Valid())

	gap := GoalsForm{Selected: []SelectedGoal{
		{GoalID: "crm", Priority: 1},
		{GoalID: "analytics", Priority: 3},
	}}
	res = ValidateStep(2, FormData{Goals: gap})
	require.False(t, res.Valid())
}

func TestValidateFeatures(t *testing.T) {
	res := ValidateStep(3, FormData{})
	require.False(t, res.Valid())

	allDisabled := FeaturesForm{Selected: []SelectedFeature{
		{FeatureSlug: "crm_pipeline", IsEnabled: false},
	}}
	res = ValidateStep(3, FormData{Features: allDisabled})
	require.False(t, res.Valid())

	ok := FeaturesForm{Selected: []SelectedFeature{
		{FeatureSlug: "crm_pipeline", IsEnabled: true},
		{FeatureSlug: "team_tasks", IsEnabled: false},
	}}
	res = ValidateStep(3, FormData{Features: ok})
	require.True(t, res.Valid())
	require.Empty(t, res.Warnings)
}

func TestValidateFeaturesCapWarnsButPasses(t *testing.T) {
	var form FeaturesForm
	for i := 0; i < domain.FreeFeatureCap+1; i++ {
		form.Selected = append(form.Selected, SelectedFeature{
			FeatureSlug: fmt.Sprintf("feature-%d", i),
			IsEnabled:   true,
		})
	}

	res := ValidateStep(3, FormData{Features: form})
	require.True(t, res.Valid())
	require.Contains(t, res.Warnings, "features_cap")
}

func TestValidatePlan(t *testing.T) {
	res := ValidateStep(4, FormData{})
	require.False(t, res.Valid())
	require.Contains(t, res.Errors, "plan")

	res = ValidateStep(4, FormData{Plan: PlanForm{PlanSlug: "pro"}})
	require.True(t, res.Valid())
}

func TestOptionalStepsAlwaysPass(t *testing.T) {
	require.True(t, ValidateStep(5, FormData{}).Valid())
	require.True(t, ValidateStep(6, FormData{}).Valid())
}

func TestValidateSubmissionAggregatesAllGates(t *testing.T) {
	res := ValidateSubmission(FormData{})
	require.False(t, res.Valid())
	require.Contains(t, res.Errors, "name")
	require.Contains(t, res.Errors, "goals")
	require.Contains(t, res.Errors, "features")
	require.Contains(t, res.Errors, "plan")

	var goals GoalsForm
	require.NoError(t, goals.Select("crm", false))
	full := FormData{
		Basics: validBasics(),
		Goals:  goals,
		Features: FeaturesForm{Selected: []SelectedFeature{
			{FeatureSlug: "crm_pipeline", IsEnabled: true},
		}},
		Plan: PlanForm{PlanSlug: "free", BillingCycle: domain.BillingMonthly},
	}
	require.True(t, ValidateSubmission(full).Valid())
}
