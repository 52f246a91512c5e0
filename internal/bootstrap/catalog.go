package bootstrap

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mewayz/onboarding/internal/repository"
)

//go:embed seed.yaml
var seedManifest []byte

type seedFile struct {
	Industries []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"industries"`
	Goals []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Icon        string `yaml:"icon"`
	} `yaml:"goals"`
	Features []struct {
		Slug        string   `yaml:"slug"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		GoalIDs     []string `yaml:"goal_ids"`
		Tier        string   `yaml:"tier"`
	} `yaml:"features"`
	Plans []struct {
		Slug                string `yaml:"slug"`
		Name                string `yaml:"name"`
		PricingModel        string `yaml:"pricing_model"`
		BasePriceMonthly    int64  `yaml:"base_price_monthly"`
		BasePriceYearly     int64  `yaml:"base_price_yearly"`
		FeaturePriceMonthly int64  `yaml:"feature_price_monthly"`
		FeaturePriceYearly  int64  `yaml:"feature_price_yearly"`
		FeatureCap          int    `yaml:"feature_cap"`
	} `yaml:"plans"`
}

const (
	insertIndustrySQL = `INSERT INTO industries (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`
	insertGoalSQL     = `INSERT INTO goals (id, name, description, icon) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`
	insertFeatureSQL  = `INSERT INTO features (slug, name, description, goal_ids, tier) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (slug) DO NOTHING`
	insertPlanSQL     = `INSERT INTO plans (slug, name, pricing_model, base_price_monthly, base_price_yearly, feature_price_monthly, feature_price_yearly, feature_cap)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (slug) DO NOTHING`
)

// SeedCatalog loads the embedded catalog manifest on startup if the catalog
// is empty. Dev and e2e environments get a working catalog with no manual
// step; a populated database is left untouched.
func SeedCatalog(lc fx.Lifecycle, catalog repository.CatalogRepository, pool *pgxpool.Pool, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return seedCatalog(ctx, catalog, pool, logger)
		},
	})
}

func seedCatalog(ctx context.Context, catalog repository.CatalogRepository, pool *pgxpool.Pool, logger *zap.Logger) error {
	count, err := catalog.CountPlans(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog count: %w", err)
	}
	if count > 0 {
		return nil
	}

	var manifest seedFile
	if err := yaml.Unmarshal(seedManifest, &manifest); err != nil {
		return fmt.Errorf("decode seed manifest: %w", err)
	}

	for _, industry := range manifest.Industries {
		if _, err := pool.Exec(ctx, insertIndustrySQL, industry.ID, industry.Name); err != nil {
			return fmt.Errorf("seed industry %s: %w", industry.ID, err)
		}
	}
	for _, goal := range manifest.Goals {
		if _, err := pool.Exec(ctx, insertGoalSQL, goal.ID, goal.Name, goal.Description, goal.Icon); err != nil {
			return fmt.Errorf("seed goal %s: %w", goal.ID, err)
		}
	}
	for _, feature := range manifest.Features {
		goalIDs, err := json.Marshal(feature.GoalIDs)
		if err != nil {
			return fmt.Errorf("encode goal ids for %s: %w", feature.Slug, err)
		}
		if _, err := pool.Exec(ctx, insertFeatureSQL, feature.Slug, feature.Name, feature.Description, goalIDs, feature.Tier); err != nil {
			return fmt.Errorf("seed feature %s: %w", feature.Slug, err)
		}
	}
	for _, plan := range manifest.Plans {
		if _, err := pool.Exec(ctx, insertPlanSQL,
			plan.Slug,
			plan.Name,
			plan.PricingModel,
			plan.BasePriceMonthly,
			plan.BasePriceYearly,
			plan.FeaturePriceMonthly,
			plan.FeaturePriceYearly,
			plan.FeatureCap,
		); err != nil {
			return fmt.Errorf("seed plan %s: %w", plan.Slug, err)
		}
	}

	if logger != nil {
		logger.Info("catalog seeded",
			zap.Int("industries", len(manifest.Industries)),
			zap.Int("goals", len(manifest.Goals)),
			zap.Int("features", len(manifest.Features)),
			zap.Int("plans", len(manifest.Plans)),
		)
	}
	return nil
}
