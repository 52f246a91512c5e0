package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mewayz/onboarding/internal/domain"
)

// Compile-time interface assertions.
var (
	_ CatalogRepository    = (*PostgresCatalogRepo)(nil)
	_ WorkspaceRepository  = (*PostgresWorkspaceRepo)(nil)
	_ InvitationRepository = (*PostgresInvitationRepo)(nil)
)

// PostgresCatalogRepo implements CatalogRepository over pgx.
type PostgresCatalogRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepo(pool *pgxpool.Pool) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{db: pool}
}

const listIndustriesSQL = `SELECT id, name FROM industries ORDER BY name`

func (r *PostgresCatalogRepo) ListIndustries(ctx context.Context) ([]domain.Industry, error) {
	rows, err := r.db.Query(ctx, listIndustriesSQL)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}
	defer rows.Close()

	var industries []domain.Industry
	for rows.Next() {
		var industry domain.Industry
		if err := rows.Scan(&industry.ID, &industry.Name); err != nil {
			return nil, fmt.Errorf("scan industry: %w", err)
		}
		industries = append(industries, industry)
	}
	return industries, rows.Err()
}

const listGoalsSQL = `SELECT id, name, description, icon, created_at FROM goals ORDER BY name`

func (r *PostgresCatalogRepo) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	rows, err := r.db.Query(ctx, listGoalsSQL)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var goal domain.Goal
		if err := rows.Scan(&goal.ID, &goal.Name, &goal.Description, &goal.Icon, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

const listFeaturesSQL = `SELECT slug, name, description, goal_ids, tier, created_at FROM features ORDER BY name`

func (r *PostgresCatalogRepo) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	rows, err := r.db.Query(ctx, listFeaturesSQL)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()
	return scanFeatures(rows)
}

const listFeaturesByGoalSQL = `SELECT slug, name, description, goal_ids, tier, created_at
FROM features WHERE goal_ids ? $1 ORDER BY name`

func (r *PostgresCatalogRepo) ListFeaturesByGoal(ctx context.Context, goalID string) ([]domain.Feature, error) {
	rows, err := r.db.Query(ctx, listFeaturesByGoalSQL, goalID)
	if err != nil {
		return nil, fmt.Errorf("list features by goal: %w", err)
	}
	defer rows.Close()
	return scanFeatures(rows)
}

func scanFeatures(rows pgx.Rows) ([]domain.Feature, error) {
	var features []domain.Feature
	for rows.Next() {
		var (
			feature domain.Feature
			goalIDs []byte
		)
		if err := rows.Scan(&feature.Slug, &feature.Name, &feature.Description, &goalIDs, &feature.Tier, &feature.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		if len(goalIDs) > 0 {
			if err := json.Unmarshal(goalIDs, &feature.GoalIDs); err != nil {
				return nil, fmt.Errorf("decode feature goal ids: %w", err)
			}
		}
		features = append(features, feature)
	}
	return features, rows.Err()
}

const listPlansSQL = `SELECT slug, name, pricing_model, base_price_monthly, base_price_yearly,
feature_price_monthly, feature_price_yearly, feature_cap, created_at
FROM plans ORDER BY base_price_monthly`

func (r *PostgresCatalogRepo) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.db.Query(ctx, listPlansSQL)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

const getPlanSQL = `SELECT slug, name, pricing_model, base_price_monthly, base_price_yearly,
feature_price_monthly, feature_price_yearly, feature_cap, created_at
FROM plans WHERE slug = $1`

func (r *PostgresCatalogRepo) GetPlan(ctx context.Context, slug string) (domain.Plan, error) {
	row := r.db.QueryRow(ctx, getPlanSQL, slug)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, fmt.Errorf("plan %q: %w", slug, domain.ErrPlanNotFound)
		}
		return domain.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

func scanPlan(row pgx.Row) (domain.Plan, error) {
	var plan domain.Plan
	err := row.Scan(
		&plan.Slug,
		&plan.Name,
		&plan.PricingModel,
		&plan.BasePriceMonthly,
		&plan.BasePriceYearly,
		&plan.FeaturePriceMonthly,
		&plan.FeaturePriceYearly,
		&plan.FeatureCap,
		&plan.CreatedAt,
	)
	return plan, err
}

const countPlansSQL = `SELECT COUNT(*) FROM plans`

func (r *PostgresCatalogRepo) CountPlans(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countPlansSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return count, nil
}

// PostgresWorkspaceRepo implements WorkspaceRepository.
type PostgresWorkspaceRepo struct {
	db *pgxpool.Pool
}

func NewPostgresWorkspaceRepo(pool *pgxpool.Pool) *PostgresWorkspaceRepo {
	return &PostgresWorkspaceRepo{db: pool}
}

const slugExistsSQL = `SELECT EXISTS (SELECT 1 FROM workspaces WHERE slug = $1)`

func (r *PostgresWorkspaceRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, slugExistsSQL, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

const insertWorkspaceSQL = `INSERT INTO workspaces (id, owner_id, name, slug, industry, team_size, plan_slug, billing_cycle, goals, features, branding, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at, updated_at`

func (r *PostgresWorkspaceRepo) Create(ctx context.Context, workspace domain.Workspace) (domain.Workspace, error) {
	goals, err := json.Marshal(workspace.Goals)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("encode workspace goals: %w", err)
	}
	features, err := json.Marshal(workspace.Features)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("encode workspace features: %w", err)
	}
	branding, err := json.Marshal(workspace.Branding)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("encode workspace branding: %w", err)
	}

	row := r.db.QueryRow(ctx, insertWorkspaceSQL,
		workspace.ID,
		workspace.OwnerID,
		workspace.Name,
		workspace.Slug,
		workspace.Industry,
		string(workspace.TeamSize),
		workspace.PlanSlug,
		workspace.BillingCycle,
		goals,
		features,
		branding,
		workspace.Status,
	)
	if err := row.Scan(&workspace.CreatedAt, &workspace.UpdatedAt); err != nil {
		return domain.Workspace{}, fmt.Errorf("create workspace: %w", err)
	}
	return workspace, nil
}

// PostgresInvitationRepo implements InvitationRepository.
type PostgresInvitationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresInvitationRepo(pool *pgxpool.Pool) *PostgresInvitationRepo {
	return &PostgresInvitationRepo{db: pool}
}

const insertInvitationSQL = `INSERT INTO workspace_invitations (id, workspace_id, email, role, department, message, code, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at`

func (r *PostgresInvitationRepo) Create(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error) {
	row := r.db.QueryRow(ctx, insertInvitationSQL,
		invitation.ID,
		invitation.WorkspaceID,
		invitation.Email,
		invitation.Role,
		invitation.Department,
		invitation.Message,
		invitation.Code,
		invitation.Status,
	)
	if err := row.Scan(&invitation.CreatedAt, &invitation.UpdatedAt); err != nil {
		return domain.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}
	return invitation, nil
}

const updateInvitationStatusSQL = `UPDATE workspace_invitations SET status = $2, updated_at = NOW() WHERE id = $1`

func (r *PostgresInvitationRepo) UpdateStatus(ctx context.Context, invitationID int64, status string) error {
	if _, err := r.db.Exec(ctx, updateInvitationStatusSQL, invitationID, status); err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	return nil
}
