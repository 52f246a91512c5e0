package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mewayz/onboarding/internal/catalog"
	"github.com/mewayz/onboarding/internal/config"
	"github.com/mewayz/onboarding/internal/domain"
	"github.com/mewayz/onboarding/internal/wizard"
)

type memStore struct {
	records map[int64][]byte
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64][]byte)}
}

func (m *memStore) Load(_ context.Context, userID int64) (*wizard.State, error) {
	payload, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	var state wizard.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", domain.ErrStateCorrupt)
	}
	return &state, nil
}

func (m *memStore) Save(_ context.Context, state *wizard.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.records[state.UserID] = payload
	return nil
}

func (m *memStore) Delete(_ context.Context, userID int64) error {
	delete(m.records, userID)
	return nil
}

type fakeCatalogRepo struct {
	plans    []domain.Plan
	features []domain.Feature
}

func (f *fakeCatalogRepo) ListIndustries(context.Context) ([]domain.Industry, error) {
	return []domain.Industry{{ID: "marketing", Name: "Marketing"}}, nil
}

func (f *fakeCatalogRepo) ListGoals(context.Context) ([]domain.Goal, error) {
	return []domain.Goal{{ID: "crm", Name: "CRM"}}, nil
}

func (f *fakeCatalogRepo) ListFeatures(context.Context) ([]domain.Feature, error) {
	return f.features, nil
}

func (f *fakeCatalogRepo) ListFeaturesByGoal(context.Context, string) ([]domain.Feature, error) {
	return f.features, nil
}

func (f *fakeCatalogRepo) ListPlans(context.Context) ([]domain.Plan, error) {
	return f.plans, nil
}

func (f *fakeCatalogRepo) GetPlan(_ context.Context, slug string) (domain.Plan, error) {
	for _, plan := range f.plans {
		if plan.Slug == slug {
			return plan, nil
		}
	}
	return domain.Plan{}, domain.ErrPlanNotFound
}

func (f *fakeCatalogRepo) CountPlans(context.Context) (int64, error) {
	return int64(len(f.plans)), nil
}

type fakeWorkspaceRepo struct {
	taken   map[string]bool
	created []domain.Workspace
	err     error
}

func (f *fakeWorkspaceRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.taken[slug], nil
}

func (f *fakeWorkspaceRepo) Create(_ context.Context, workspace domain.Workspace) (domain.Workspace, error) {
	if f.err != nil {
		return domain.Workspace{}, f.err
	}
	f.created = append(f.created, workspace)
	return workspace, nil
}

type fakeInviteRepo struct {
	created  []domain.Invitation
	statuses map[int64]string
}

func (f *fakeInviteRepo) Create(_ context.Context, invitation domain.Invitation) (domain.Invitation, error) {
	f.created = append(f.created, invitation)
	return invitation, nil
}

func (f *fakeInviteRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	if f.statuses == nil {
		f.statuses = make(map[int64]string)
	}
	f.statuses[id] = status
	return nil
}

type fakeMailer struct {
	failFor map[string]error
	sent    []string
}

func (f *fakeMailer) Send(_ context.Context, _ domain.Workspace, invitation domain.Invitation) error {
	if err, ok := f.failFor[invitation.Email]; ok {
		return err
	}
	f.sent = append(f.sent, invitation.Email)
	return nil
}

type fixture struct {
	svc        *WizardService
	store      *memStore
	workspaces *fakeWorkspaceRepo
	invites    *fakeInviteRepo
	mailer     *fakeMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	store := newMemStore()
	workspaces := &fakeWorkspaceRepo{taken: make(map[string]bool)}
	invites := &fakeInviteRepo{}
	mailer := &fakeMailer{failFor: make(map[string]error)}
	repo := &fakeCatalogRepo{
		plans: []domain.Plan{
			{Slug: "free", Name: "Free", PricingModel: domain.PricingFlat},
			{Slug: "pro", Name: "Pro", PricingModel: domain.PricingFlat, BasePriceMonthly: 2900, BasePriceYearly: 29000},
		},
		features: []domain.Feature{
			{Slug: "post_scheduler", Name: "Post Scheduler"},
			{Slug: "content_calendar", Name: "Content Calendar"},
			{Slug: "analytics_dashboard", Name: "Analytics Dashboard"},
			{Slug: "crm_pipeline", Name: "CRM Pipeline"},
		},
	}

	svc := NewWizardService(store, catalog.NewResolver(repo), workspaces, invites, mailer, node, config.Config{}, zap.NewNop())
	return &fixture{svc: svc, store: store, workspaces: workspaces, invites: invites, mailer: mailer}
}

func completeForm(t *testing.T, f *fixture, userID int64) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.UpdateBasics(ctx, userID, wizard.BasicsForm{
		Name: "Acme Studio", Slug: "acme-studio", Industry: "marketing", TeamSize: domain.TeamSmall,
	})
	require.NoError(t, err)

	_, err = f.svc.SelectGoal(ctx, userID, "crm", true)
	require.NoError(t, err)

	_, err = f.svc.UpdateFeatures(ctx, userID, wizard.FeaturesForm{Selected: []wizard.SelectedFeature{
		{FeatureSlug: "crm_pipeline", IsEnabled: true},
	}})
	require.NoError(t, err)

	_, err = f.svc.UpdatePlan(ctx, userID, wizard.PlanForm{PlanSlug: "pro", BillingCycle: domain.BillingMonthly})
	require.NoError(t, err)
}

func TestNextBlockedByValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.Next(ctx, 1)
	require.Error(t, err)

	var wizardErr *WizardError
	require.True(t, errors.As(err, &wizardErr))
	require.Equal(t, "validation_failed", wizardErr.Code)
	require.Contains(t, wizardErr.Fields, "name")

	require.NotNil(t, view)
	require.Equal(t, 1, view.CurrentStep)
	require.Empty(t, view.CompletedSteps)
}

func TestNextAdvancesWhenGatePasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)

	view, err := f.svc.Next(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, view.CurrentStep)
	require.Contains(t, view.CompletedSteps, 1)

	// advancement is persisted
	reloaded, err := f.svc.GetState(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.CurrentStep)
}

func TestNextBlockedBySlugTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)
	f.workspaces.taken["acme-studio"] = true

	view, err := f.svc.Next(ctx, 1)
	require.Error(t, err)
	require.NotNil(t, view)
	require.Equal(t, 1, view.CurrentStep)
	require.Contains(t, view.Errors, "slug")

	// the failed check never persisted an advance
	reloaded, err := f.svc.GetState(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.CurrentStep)
	require.Empty(t, reloaded.Errors)
}

func TestGoToForwardJumpRequiresCompletedPredecessor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)

	// step 2 not completed yet, jumping to 3 is ignored
	view, err := f.svc.GoTo(ctx, 1, 3)
	require.NoError(t, err)
	require.Equal(t, 1, view.CurrentStep)

	_, err = f.svc.Next(ctx, 1)
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, 1)
	require.NoError(t, err)

	// steps 1 and 2 completed, step 3 is now reachable directly
	view, err = f.svc.GoTo(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, view.CurrentStep)
	view, err = f.svc.GoTo(ctx, 1, 3)
	require.NoError(t, err)
	require.Equal(t, 3, view.CurrentStep)
}

func TestGoalOperationsKeepPermutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SelectGoal(ctx, 1, "crm", false)
	require.NoError(t, err)
	_, err = f.svc.SelectGoal(ctx, 1, "analytics", false)
	require.NoError(t, err)
	view, err := f.svc.SetGoalPriority(ctx, 1, "analytics", 1)
	require.NoError(t, err)

	require.Equal(t, []string{"analytics", "crm"}, view.FormData.Goals.GoalIDs())

	view, err = f.svc.DeselectGoal(ctx, 1, "analytics")
	require.NoError(t, err)
	require.Equal(t, []string{"crm"}, view.FormData.Goals.GoalIDs())
	require.Equal(t, 1, view.FormData.Goals.Selected[0].Priority)
}

func TestUpdateGoalsRejectsBrokenPriorities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateGoals(ctx, 1, wizard.GoalsForm{Selected: []wizard.SelectedGoal{
		{GoalID: "crm", Priority: 2},
		{GoalID: "analytics", Priority: 2},
	}})
	require.Error(t, err)

	var wizardErr *WizardError
	require.True(t, errors.As(err, &wizardErr))
	require.Equal(t, "validation_failed", wizardErr.Code)
}

func TestEstimateUsesStoredSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)

	got, err := f.svc.Estimate(ctx, 1, "", "")
	require.NoError(t, err)
	require.Equal(t, int64(2900), got.Monthly)
	require.Equal(t, int64(5800), got.Savings)

	_, err = f.svc.Estimate(ctx, 1, "missing", "")
	var wizardErr *WizardError
	require.True(t, errors.As(err, &wizardErr))
	require.Equal(t, "plan_not_found", wizardErr.Code)
}

func TestRecommendationsSkipSelected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateBasics(ctx, 1, wizard.BasicsForm{
		Name: "Acme", Slug: "acme", Industry: "marketing", TeamSize: domain.TeamSolo,
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateFeatures(ctx, 1, wizard.FeaturesForm{Selected: []wizard.SelectedFeature{
		{FeatureSlug: "content_calendar", IsEnabled: true},
	}})
	require.NoError(t, err)

	recs, err := f.svc.Recommendations(ctx, 1)
	require.NoError(t, err)
	for _, rec := range recs {
		require.NotEqual(t, "content_calendar", rec.Feature.Slug)
	}
}

func TestSubmitCreatesWorkspaceAndErasesState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)
	_, err := f.svc.UpdateTeam(ctx, 1, wizard.TeamForm{Invites: []wizard.InviteDraft{
		{Email: "ana@example.com", Role: "admin"},
		{Email: "bo@example.com", Role: "editor"},
	}})
	require.NoError(t, err)

	submission, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.NotZero(t, submission.WorkspaceID)
	require.Equal(t, "acme-studio", submission.Slug)
	require.Len(t, submission.Invitations, 2)
	for _, result := range submission.Invitations {
		require.Equal(t, domain.InvitationSent, result.Status)
	}

	require.Len(t, f.workspaces.created, 1)
	require.Equal(t, int64(1), f.workspaces.created[0].OwnerID)
	require.NotContains(t, f.store.records, int64(1))

	// state starts over after submission
	view, err := f.svc.GetState(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, view.CurrentStep)
}

func TestSubmitReportsPartialInvitationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)
	_, err := f.svc.UpdateTeam(ctx, 1, wizard.TeamForm{Invites: []wizard.InviteDraft{
		{Email: "ok@example.com", Role: "admin"},
		{Email: "broken@example.com", Role: "editor"},
	}})
	require.NoError(t, err)
	f.mailer.failFor["broken@example.com"] = fmt.Errorf("smtp 550")

	submission, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.Len(t, submission.Invitations, 2)

	byEmail := make(map[string]domain.InvitationResult)
	for _, result := range submission.Invitations {
		byEmail[result.Email] = result
	}
	require.Equal(t, domain.InvitationSent, byEmail["ok@example.com"].Status)
	require.Equal(t, domain.InvitationFailed, byEmail["broken@example.com"].Status)
	require.NotEmpty(t, byEmail["broken@example.com"].Error)
}

func TestSubmitIncompleteIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, 1)
	require.Error(t, err)

	var wizardErr *WizardError
	require.True(t, errors.As(err, &wizardErr))
	require.Equal(t, "validation_failed", wizardErr.Code)
	require.Empty(t, f.workspaces.created)
}

func TestResetErasesDurableRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completeForm(t, f, 1)

	view, err := f.svc.Reset(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, view.CurrentStep)
	require.Empty(t, view.FormData.Basics.Name)
	require.NotContains(t, f.store.records, int64(1))
}

func TestCheckSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.workspaces.taken["taken-slug"] = true

	available, err := f.svc.CheckSlug(ctx, "fresh-slug")
	require.NoError(t, err)
	require.True(t, available)

	available, err = f.svc.CheckSlug(ctx, "taken-slug")
	require.NoError(t, err)
	require.False(t, available)

	_, err = f.svc.CheckSlug(ctx, "Bad Slug")
	require.Error(t, err)
}

func TestGenerateSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slug, available, err := f.svc.GenerateSlug(ctx, "Acme Studio")
	require.NoError(t, err)
	require.Equal(t, "acme-studio", slug)
	require.True(t, available)

	_, _, err = f.svc.GenerateSlug(ctx, "!!!")
	require.Error(t, err)
}
