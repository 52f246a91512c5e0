package repository

import (
	"context"

	"github.com/mewayz/onboarding/internal/domain"
)

// CatalogRepository exposes the onboarding catalog: industries, goals,
// features, and subscription plans.
type CatalogRepository interface {
	ListIndustries(ctx context.Context) ([]domain.Industry, error)
	ListGoals(ctx context.Context) ([]domain.Goal, error)
	ListFeatures(ctx context.Context) ([]domain.Feature, error)
	ListFeaturesByGoal(ctx context.Context, goalID string) ([]domain.Feature, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	GetPlan(ctx context.Context, slug string) (domain.Plan, error)
	CountPlans(ctx context.Context) (int64, error)
}

// WorkspaceRepository persists workspaces created at final submission.
type WorkspaceRepository interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, workspace domain.Workspace) (domain.Workspace, error)
}

// InvitationRepository persists teammate invitations per workspace.
type InvitationRepository interface {
	Create(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error)
	UpdateStatus(ctx context.Context, invitationID int64, status string) error
}
