package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mewayz/onboarding/internal/domain"
)

func TestEstimateFlatPlan(t *testing.T) {
	plan := domain.Plan{
		Slug:             "pro",
		PricingModel:     domain.PricingFlat,
		BasePriceMonthly: 2900,
		BasePriceYearly:  29000,
	}

	got, err := Estimate(plan, 25)
	require.NoError(t, err)
	require.Equal(t, int64(2900), got.Monthly)
	require.Equal(t, int64(29000), got.Yearly)
	require.Equal(t, int64(5800), got.Savings)
}

func TestEstimateFeatureBasedPlan(t *testing.T) {
	plan := domain.Plan{
		Slug:                "enterprise",
		PricingModel:        domain.PricingFeatureBased,
		BasePriceMonthly:    9900,
		BasePriceYearly:     99000,
		FeaturePriceMonthly: 500,
		FeaturePriceYearly:  5000,
	}

	got, err := Estimate(plan, 4)
	require.NoError(t, err)
	require.Equal(t, int64(9900+4*500), got.Monthly)
	require.Equal(t, int64(99000+4*5000), got.Yearly)
	require.Equal(t, got.Monthly*12-got.Yearly, got.Savings)
}

func TestEstimateFreePlanIsAlwaysZero(t *testing.T) {
	plan := domain.Plan{
		Slug:                domain.FreePlanSlug,
		PricingModel:        domain.PricingFeatureBased,
		FeaturePriceMonthly: 500,
		FeaturePriceYearly:  5000,
	}

	got, err := Estimate(plan, 8)
	require.NoError(t, err)
	require.Equal(t, domain.CostEstimate{}, got)
}

func TestEstimateUnknownPricingModel(t *testing.T) {
	plan := domain.Plan{Slug: "odd", PricingModel: "per_seat"}

	_, err := Estimate(plan, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrPricingTable))
}

func TestEstimateNegativeSavingsIsBrokenTable(t *testing.T) {
	plan := domain.Plan{
		Slug:             "pro",
		PricingModel:     domain.PricingFlat,
		BasePriceMonthly: 1000,
		BasePriceYearly:  13000,
	}

	_, err := Estimate(plan, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrPricingTable))
}
