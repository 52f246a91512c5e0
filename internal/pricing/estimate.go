// Package pricing projects subscription costs for a plan selection.
package pricing

import (
	"fmt"

	"github.com/mewayz/onboarding/internal/domain"
)

// Estimate computes the monthly/yearly/savings triple for a plan, in cents.
// The free plan always estimates to zero regardless of feature count: it is
// feature-capped, not feature-priced, so a priced catalog row must not leak
// through. A negative savings figure indicates a broken pricing table and is
// reported as an error rather than clamped.
func Estimate(plan domain.Plan, selectedFeatureCount int) (domain.CostEstimate, error) {
	if plan.Slug == domain.FreePlanSlug {
		return domain.CostEstimate{}, nil
	}

	var monthly, yearly int64
	switch plan.PricingModel {
	case domain.PricingFlat:
		monthly = plan.BasePriceMonthly
		yearly = plan.BasePriceYearly
	case domain.PricingFeatureBased:
		count := int64(selectedFeatureCount)
		monthly = plan.BasePriceMonthly + count*plan.FeaturePriceMonthly
		yearly = plan.BasePriceYearly + count*plan.FeaturePriceYearly
	default:
		return domain.CostEstimate{}, fmt.Errorf("plan %q: unknown pricing model %q: %w", plan.Slug, plan.PricingModel, domain.ErrPricingTable)
	}

	savings := monthly*12 - yearly
	if savings < 0 {
		return domain.CostEstimate{}, fmt.Errorf("plan %q: yearly price exceeds 12 months: %w", plan.Slug, domain.ErrPricingTable)
	}

	return domain.CostEstimate{Monthly: monthly, Yearly: yearly, Savings: savings}, nil
}
