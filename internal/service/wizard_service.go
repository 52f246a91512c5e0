package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mewayz/onboarding/internal/adapter/mail"
	"github.com/mewayz/onboarding/internal/catalog"
	"github.com/mewayz/onboarding/internal/config"
	"github.com/mewayz/onboarding/internal/domain"
	"github.com/mewayz/onboarding/internal/pricing"
	"github.com/mewayz/onboarding/internal/recommend"
	"github.com/mewayz/onboarding/internal/repository"
	slugpkg "github.com/mewayz/onboarding/internal/slug"
	"github.com/mewayz/onboarding/internal/wizard"
)

// WizardError standardizes flow errors for the HTTP layer. Fields carries
// per-field validation messages when the code is validation_failed.
type WizardError struct {
	Code        string
	Description string
	Status      int
	Fields      map[string]string
}

func (e *WizardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newWizardError(code, desc string, status int) *WizardError {
	return &WizardError{Code: code, Description: desc, Status: status}
}

// StateView is the wizard state as presented to clients, including derived
// navigation data and request-scoped errors and warnings.
type StateView struct {
	CurrentStep    int               `json:"current_step"`
	TotalSteps     int               `json:"total_steps"`
	CompletedSteps []int             `json:"completed_steps"`
	Progress       int               `json:"progress"`
	CanProceed     bool              `json:"can_proceed"`
	FormData       wizard.FormData   `json:"form_data"`
	Errors         map[string]string `json:"errors,omitempty"`
	Warnings       map[string]string `json:"warnings,omitempty"`
}

// WizardService owns the workspace setup flow: per-user persisted state,
// step-gated navigation, and final submission.
type WizardService struct {
	store      wizard.Store
	catalog    *catalog.Resolver
	workspaces repository.WorkspaceRepository
	invites    repository.InvitationRepository
	mailer     mail.InvitationSender
	snowflake  *snowflake.Node
	cfg        config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewWizardService wires dependencies.
func NewWizardService(store wizard.Store, resolver *catalog.Resolver, workspaces repository.WorkspaceRepository, invites repository.InvitationRepository, mailer mail.InvitationSender, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *WizardService {
	return &WizardService{
		store:      store,
		catalog:    resolver,
		workspaces: workspaces,
		invites:    invites,
		mailer:     mailer,
		snowflake:  node,
		cfg:        cfg,
		logger:     logger,
		tracer:     otel.Tracer("github.com/mewayz/onboarding/internal/service"),
	}
}

// GetState returns the user's current wizard state, rehydrated from the
// durable store or freshly defaulted.
func (s *WizardService) GetState(ctx context.Context, userID int64) (*StateView, error) {
	ctx, span := s.startSpan(ctx, "WizardService.GetState")
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.view(sess.State()), nil
}

// UpdateBasics stores step 1 input. Editing a field clears its previous
// validation error by construction: errors are computed per request and
// never persisted.
func (s *WizardService) UpdateBasics(ctx context.Context, userID int64, form wizard.BasicsForm) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.UpdateBasics", func(state *wizard.State) error {
		state.FormData.Basics = form
		return nil
	})
}

// UpdateGoals replaces the step 2 selection wholesale. Payloads that violate
// the priority permutation invariant are rejected rather than repaired.
func (s *WizardService) UpdateGoals(ctx context.Context, userID int64, form wizard.GoalsForm) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.UpdateGoals", func(state *wizard.State) error {
		if len(form.Selected) > 0 {
			if res := wizard.ValidateStep(2, wizard.FormData{Goals: form}); !res.Valid() {
				return &WizardError{Code: "validation_failed", Description: "Invalid goal selection.", Status: http.StatusUnprocessableEntity, Fields: res.Errors}
			}
		}
		state.FormData.Goals = form
		return nil
	})
}

// SelectGoal adds a goal at the lowest priority.
func (s *WizardService) SelectGoal(ctx context.Context, userID int64, goalID string, setupNow bool) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.SelectGoal", func(state *wizard.State) error {
		if err := state.FormData.Goals.Select(goalID, setupNow); err != nil {
			return newWizardError("invalid_request", err.Error(), http.StatusUnprocessableEntity)
		}
		return nil
	})
}

// DeselectGoal removes a goal, compacting the remaining priorities.
func (s *WizardService) DeselectGoal(ctx context.Context, userID int64, goalID string) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.DeselectGoal", func(state *wizard.State) error {
		state.FormData.Goals.Deselect(goalID)
		return nil
	})
}

// SetGoalPriority re-ranks a selected goal, swapping with any goal that
// already holds the requested priority.
func (s *WizardService) SetGoalPriority(ctx context.Context, userID int64, goalID string, priority int) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.SetGoalPriority", func(state *wizard.State) error {
		if err := state.FormData.Goals.SetPriority(goalID, priority); err != nil {
			return newWizardError("invalid_request", err.Error(), http.StatusUnprocessableEntity)
		}
		return nil
	})
}

// UpdateFeatures stores step 3 input.
func (s *WizardService) UpdateFeatures(ctx context.Context, userID int64, form wizard.FeaturesForm) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.UpdateFeatures", func(state *wizard.State) error {
		state.FormData.Features = form
		return nil
	})
}

// UpdatePlan stores step 4 input.
func (s *WizardService) UpdatePlan(ctx context.Context, userID int64, form wizard.PlanForm) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.UpdatePlan", func(state *wizard.State) error {
		if cycle := strings.TrimSpace(form.BillingCycle); cycle != "" && cycle != domain.BillingMonthly && cycle != domain.BillingYearly {
			return newWizardError("invalid_request", "billing_cycle must be monthly or yearly.", http.StatusUnprocessableEntity)
		}
		state.FormData.Plan = form
		return nil
	})
}

// UpdateTeam stores step 5 input.
func (s *WizardService) UpdateTeam(ctx context.Context, userID int64, form wizard.TeamForm) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.UpdateTeam", func(state *wizard.State) error {
		state.FormData.Team = form
		return nil
	})
}

// UpdateBranding stores step 6 input.
func (s *WizardService) UpdateBranding(ctx context.Context, userID int64, form wizard.BrandingForm) (*StateView, error) {
	return s.updateStep(ctx, userID, "WizardService.UpdateBranding", func(state *wizard.State) error {
		state.FormData.Branding = form
		return nil
	})
}

// Next gates the current step, then marks it completed and advances as a
// single persisted transition. The pointer never moves when the gate or a
// boundary check fails, so no entered data is ever lost to a failed call.
func (s *WizardService) Next(ctx context.Context, userID int64) (*StateView, error) {
	ctx, span := s.startSpan(ctx, "WizardService.Next")
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state := sess.State()

	res := wizard.ValidateStep(state.CurrentStep, state.FormData)
	for key, msg := range res.Warnings {
		state.SetWarning(key, msg)
	}
	if !res.Valid() {
		for field, msg := range res.Errors {
			state.SetError(field, msg)
		}
		return s.view(state), &WizardError{Code: "validation_failed", Description: "Fix the highlighted fields to continue.", Status: http.StatusUnprocessableEntity, Fields: res.Errors}
	}

	if state.CurrentStep == 1 {
		taken, err := s.workspaces.SlugExists(ctx, state.FormData.Basics.Slug)
		if err != nil {
			span.RecordError(err)
			state.SetError("form", "Could not verify workspace URL availability. Try again.")
			return s.view(state), newWizardError("slug_check_failed", "Slug availability check failed.", http.StatusBadGateway)
		}
		if taken {
			state.SetError("slug", "This workspace URL is already taken.")
			return s.view(state), &WizardError{Code: "validation_failed", Description: "This workspace URL is already taken.", Status: http.StatusUnprocessableEntity, Fields: state.Errors}
		}
	}

	state.NextStep()
	if err := sess.Save(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.audit("wizard.step.completed", "user_id", userID, "step", state.CurrentStep-1)
	return s.view(state), nil
}

// Previous rewinds one step without touching completion marks.
func (s *WizardService) Previous(ctx context.Context, userID int64) (*StateView, error) {
	return s.navigate(ctx, userID, "WizardService.Previous", func(state *wizard.State) {
		state.PreviousStep()
	})
}

// GoTo jumps to a step. Out-of-range targets and forward jumps past an
// uncompleted step are silently ignored; already-visited steps are always
// reachable.
func (s *WizardService) GoTo(ctx context.Context, userID int64, step int) (*StateView, error) {
	return s.navigate(ctx, userID, "WizardService.GoTo", func(state *wizard.State) {
		if step > state.CurrentStep && step != 1 && !state.IsCompleted(step-1) {
			return
		}
		state.GoToStep(step)
	})
}

// Reset abandons the flow: in-memory defaults, durable record erased.
func (s *WizardService) Reset(ctx context.Context, userID int64) (*StateView, error) {
	ctx, span := s.startSpan(ctx, "WizardService.Reset")
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := sess.Reset(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.audit("wizard.reset", "user_id", userID)
	return s.view(sess.State()), nil
}

// Recommendations suggests catalog features from the stored step 1 and
// step 2 answers, skipping anything already selected.
func (s *WizardService) Recommendations(ctx context.Context, userID int64) ([]recommend.Recommendation, error) {
	ctx, span := s.startSpan(ctx, "WizardService.Recommendations")
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state := sess.State()

	catalogCtx, err := s.catalog.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, newWizardError("catalog_unavailable", "Catalog could not be loaded. Try again.", http.StatusBadGateway)
	}

	selected := make([]string, 0, len(state.FormData.Features.Selected))
	for _, sel := range state.FormData.Features.Selected {
		selected = append(selected, sel.FeatureSlug)
	}

	recs := recommend.Recommend(
		state.FormData.Basics.Industry,
		state.FormData.Basics.TeamSize,
		state.FormData.Goals.GoalIDs(),
		selected,
		catalogCtx.Features,
	)
	return recs, nil
}

// Estimate projects the cost of a plan selection. An empty plan slug falls
// back to the stored step 4 choice.
func (s *WizardService) Estimate(ctx context.Context, userID int64, planSlug, cycle string) (domain.CostEstimate, error) {
	ctx, span := s.startSpan(ctx, "WizardService.Estimate")
	defer span.End()

	if cycle != "" && cycle != domain.BillingMonthly && cycle != domain.BillingYearly {
		return domain.CostEstimate{}, newWizardError("invalid_request", "cycle must be monthly or yearly.", http.StatusBadRequest)
	}

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return domain.CostEstimate{}, err
	}
	state := sess.State()

	if planSlug == "" {
		planSlug = state.FormData.Plan.PlanSlug
	}
	if strings.TrimSpace(planSlug) == "" {
		return domain.CostEstimate{}, newWizardError("invalid_request", "No plan selected to estimate.", http.StatusBadRequest)
	}

	catalogCtx, err := s.catalog.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.CostEstimate{}, newWizardError("catalog_unavailable", "Catalog could not be loaded. Try again.", http.StatusBadGateway)
	}
	plan, ok := catalogCtx.Plan(planSlug)
	if !ok {
		return domain.CostEstimate{}, newWizardError("plan_not_found", "Unknown subscription plan.", http.StatusNotFound)
	}

	enabled := 0
	for _, sel := range state.FormData.Features.Selected {
		if sel.IsEnabled {
			enabled++
		}
	}

	estimate, err := pricing.Estimate(plan, enabled)
	if err != nil {
		span.RecordError(err)
		s.log().Error("pricing table inconsistent", zap.String("plan", planSlug), zap.Error(err))
		return domain.CostEstimate{}, newWizardError("server_error", "Pricing could not be computed.", http.StatusInternalServerError)
	}
	return estimate, nil
}

// GenerateSlug derives a slug from a workspace name and reports whether it
// is currently available.
func (s *WizardService) GenerateSlug(ctx context.Context, name string) (string, bool, error) {
	ctx, span := s.startSpan(ctx, "WizardService.GenerateSlug")
	defer span.End()

	generated := slugpkg.Generate(name)
	if generated == "" {
		return "", false, newWizardError("invalid_request", "Workspace name yields no usable URL.", http.StatusBadRequest)
	}
	taken, err := s.workspaces.SlugExists(ctx, generated)
	if err != nil {
		span.RecordError(err)
		return "", false, fmt.Errorf("slug availability: %w", err)
	}
	return generated, !taken, nil
}

// CheckSlug reports availability of a caller-chosen slug. A malformed slug
// is a client error, not "unavailable".
func (s *WizardService) CheckSlug(ctx context.Context, slug string) (bool, error) {
	ctx, span := s.startSpan(ctx, "WizardService.CheckSlug")
	defer span.End()

	if !slugpkg.Valid(slug) {
		return false, newWizardError("invalid_request", "Workspace URL may only contain lowercase letters, numbers, and dashes.", http.StatusBadRequest)
	}
	taken, err := s.workspaces.SlugExists(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("slug availability: %w", err)
	}
	return !taken, nil
}

// Submit validates the whole flow, creates the workspace, dispatches
// invitations with per-recipient results, and erases the wizard record.
func (s *WizardService) Submit(ctx context.Context, userID int64) (*domain.Submission, error) {
	ctx, span := s.startSpan(ctx, "WizardService.Submit")
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state := sess.State()

	res := wizard.ValidateSubmission(state.FormData)
	if !res.Valid() {
		return nil, &WizardError{Code: "validation_failed", Description: "Setup is incomplete.", Status: http.StatusUnprocessableEntity, Fields: res.Errors}
	}

	taken, err := s.workspaces.SlugExists(ctx, state.FormData.Basics.Slug)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("submit slug check: %w", err)
	}
	if taken {
		return nil, &WizardError{Code: "validation_failed", Description: "This workspace URL is already taken.", Status: http.StatusUnprocessableEntity, Fields: map[string]string{"slug": "This workspace URL is already taken."}}
	}

	workspace, err := s.createWorkspace(ctx, userID, state.FormData)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := s.sendInvitations(ctx, workspace, state.FormData.Team.Invites)

	if err := sess.Reset(ctx); err != nil {
		// The workspace exists; a lingering wizard record only means the user
		// sees a stale draft on their next visit.
		s.log().Warn("failed to erase wizard state after submit", zap.Int64("user_id", userID), zap.Error(err))
	}

	s.audit("wizard.submitted", "user_id", userID, "workspace_id", workspace.ID, "slug", workspace.Slug, "invitations", len(results))
	return &domain.Submission{WorkspaceID: workspace.ID, Slug: workspace.Slug, Invitations: results}, nil
}

func (s *WizardService) createWorkspace(ctx context.Context, userID int64, form wizard.FormData) (domain.Workspace, error) {
	goals := make([]domain.WorkspaceGoal, 0, len(form.Goals.Selected))
	for _, sel := range form.Goals.Selected {
		goals = append(goals, domain.WorkspaceGoal{GoalID: sel.GoalID, Priority: sel.Priority, SetupNow: sel.SetupNow})
	}
	features := make([]domain.WorkspaceFeature, 0, len(form.Features.Selected))
	for _, sel := range form.Features.Selected {
		features = append(features, domain.WorkspaceFeature{FeatureSlug: sel.FeatureSlug, IsEnabled: sel.IsEnabled, Priority: sel.Priority})
	}

	cycle := form.Plan.BillingCycle
	if cycle == "" {
		cycle = domain.BillingMonthly
	}

	workspace := domain.Workspace{
		ID:           s.snowflake.Generate().Int64(),
		OwnerID:      userID,
		Name:         strings.TrimSpace(form.Basics.Name),
		Slug:         form.Basics.Slug,
		Industry:     form.Basics.Industry,
		TeamSize:     form.Basics.TeamSize,
		PlanSlug:     form.Plan.PlanSlug,
		BillingCycle: cycle,
		Goals:        goals,
		Features:     features,
		Branding: domain.WorkspaceBranding{
			LogoURL:        form.Branding.LogoURL,
			PrimaryColor:   form.Branding.PrimaryColor,
			SecondaryColor: form.Branding.SecondaryColor,
			AccentColor:    form.Branding.AccentColor,
			DarkMode:       form.Branding.DarkMode,
		},
		Status: "ACTIVE",
	}

	created, err := s.workspaces.Create(ctx, workspace)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("create workspace: %w", err)
	}
	return created, nil
}

func (s *WizardService) sendInvitations(ctx context.Context, workspace domain.Workspace, drafts []wizard.InviteDraft) []domain.InvitationResult {
	results := make([]domain.InvitationResult, 0, len(drafts))
	for _, draft := range drafts {
		email := strings.ToLower(strings.TrimSpace(draft.Email))
		if email == "" {
			continue
		}

		invitation := domain.Invitation{
			ID:          s.snowflake.Generate().Int64(),
			WorkspaceID: workspace.ID,
			Email:       email,
			Role:        draft.Role,
			Department:  draft.Department,
			Message:     draft.Message,
			Code:        uuid.NewString(),
			Status:      domain.InvitationPending,
		}
		created, err := s.invites.Create(ctx, invitation)
		if err != nil {
			s.log().Error("persist invitation failed", zap.Int64("workspace_id", workspace.ID), zap.String("email", email), zap.Error(err))
			results = append(results, domain.InvitationResult{Email: email, Status: domain.InvitationFailed, Error: "Invitation could not be saved."})
			continue
		}

		result := domain.InvitationResult{Email: email, Status: domain.InvitationSent}
		switch sendErr := s.mailer.Send(ctx, workspace, created); {
		case sendErr == nil:
		case sendErr == domain.ErrMailNotConfigured:
			result.Status = domain.InvitationPending
			result.Error = "Delivery deferred: mail provider not configured."
		default:
			s.log().Warn("invitation delivery failed", zap.Int64("invitation_id", created.ID), zap.String("email", email), zap.Error(sendErr))
			result.Status = domain.InvitationFailed
			result.Error = "Invitation email could not be delivered."
		}

		if result.Status != domain.InvitationPending {
			if err := s.invites.UpdateStatus(ctx, created.ID, result.Status); err != nil {
				s.log().Warn("invitation status update failed", zap.Int64("invitation_id", created.ID), zap.Error(err))
			}
		}
		results = append(results, result)
	}
	return results
}

func (s *WizardService) updateStep(ctx context.Context, userID int64, spanName string, mutate func(*wizard.State) error) (*StateView, error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state := sess.State()

	if err := mutate(state); err != nil {
		span.RecordError(err)
		return s.view(state), err
	}

	if err := sess.Save(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.view(state), nil
}

func (s *WizardService) navigate(ctx context.Context, userID int64, spanName string, move func(*wizard.State)) (*StateView, error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer span.End()

	sess, err := wizard.Open(ctx, s.store, userID, s.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state := sess.State()
	before := state.CurrentStep
	move(state)
	if state.CurrentStep == before {
		return s.view(state), nil
	}
	if err := sess.Save(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.view(state), nil
}

func (s *WizardService) view(state *wizard.State) *StateView {
	return &StateView{
		CurrentStep:    state.CurrentStep,
		TotalSteps:     wizard.TotalSteps,
		CompletedSteps: state.CompletedSteps,
		Progress:       state.ProgressPercentage(),
		CanProceed:     wizard.ValidateStep(state.CurrentStep, state.FormData).Valid(),
		FormData:       state.FormData,
		Errors:         state.Errors,
		Warnings:       state.Warnings,
	}
}

func (s *WizardService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *WizardService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *WizardService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
