package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mewayz/onboarding/internal/domain"
	"github.com/mewayz/onboarding/internal/repository"
)

// Context stores the resolved onboarding catalog used throughout a request.
type Context struct {
	Industries []domain.Industry
	Goals      []domain.Goal
	Features   []domain.Feature
	Plans      []domain.Plan
}

// Feature resolves a catalog feature by slug.
func (c *Context) Feature(slug string) (domain.Feature, bool) {
	for _, feature := range c.Features {
		if feature.Slug == slug {
			return feature, true
		}
	}
	return domain.Feature{}, false
}

// Plan resolves a subscription plan by slug.
func (c *Context) Plan(slug string) (domain.Plan, bool) {
	for _, plan := range c.Plans {
		if plan.Slug == slug {
			return plan, true
		}
	}
	return domain.Plan{}, false
}

// Resolver loads catalog data from the repository.
type Resolver struct {
	repo repository.CatalogRepository
}

// NewResolver creates a catalog resolver.
func NewResolver(repo repository.CatalogRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Load assembles the full catalog context.
func (r *Resolver) Load(ctx context.Context) (*Context, error) {
	industries, err := r.repo.ListIndustries(ctx)
	if err != nil {
		zap.L().Error("failed to load industries", zap.Error(err))
		return nil, fmt.Errorf("resolve industries: %w", err)
	}

	goals, err := r.repo.ListGoals(ctx)
	if err != nil {
		zap.L().Error("failed to load goals", zap.Error(err))
		return nil, fmt.Errorf("resolve goals: %w", err)
	}

	features, err := r.repo.ListFeatures(ctx)
	if err != nil {
		zap.L().Error("failed to load features", zap.Error(err))
		return nil, fmt.Errorf("resolve features: %w", err)
	}

	plans, err := r.repo.ListPlans(ctx)
	if err != nil {
		zap.L().Error("failed to load plans", zap.Error(err))
		return nil, fmt.Errorf("resolve plans: %w", err)
	}

	return &Context{
		Industries: industries,
		Goals:      goals,
		Features:   features,
		Plans:      plans,
	}, nil
}
