package domain

import "time"

// Industry is a catalog entry describing a business vertical.
type Industry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamSizeBucket classifies workspace headcount for recommendations.
type TeamSizeBucket string

const (
	TeamSolo   TeamSizeBucket = "solo"
	TeamSmall  TeamSizeBucket = "small"
	TeamMedium TeamSizeBucket = "medium"
	TeamLarge  TeamSizeBucket = "large"
)

// Valid reports whether the bucket is one of the known values.
func (b TeamSizeBucket) Valid() bool {
	switch b {
	case TeamSolo, TeamSmall, TeamMedium, TeamLarge:
		return true
	}
	return false
}

// Goal is a business objective catalog entry (e.g. "Instagram Management").
type Goal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feature is a catalog capability (e.g. "Post Scheduler") belonging to one or
// more goals, optionally gated by subscription tier.
type Feature struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GoalIDs     []string  `json:"goal_ids"`
	Tier        string    `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
}

// Pricing models supported by subscription plans.
const (
	PricingFlat         = "flat"
	PricingFeatureBased = "feature_based"
)

// FreePlanSlug identifies the feature-capped zero-cost tier.
const FreePlanSlug = "free"

// FreeFeatureCap is the number of enabled features allowed on the free tier.
const FreeFeatureCap = 10

// Plan is a subscription tier. Prices are stored in cents.
type Plan struct {
	Slug                string    `json:"slug"`
	Name                string    `json:"name"`
	PricingModel        string    `json:"pricing_model"`
	BasePriceMonthly    int64     `json:"base_price_monthly"`
	BasePriceYearly     int64     `json:"base_price_yearly"`
	FeaturePriceMonthly int64     `json:"feature_price_monthly"`
	FeaturePriceYearly  int64     `json:"feature_price_yearly"`
	FeatureCap          int       `json:"feature_cap"`
	CreatedAt           time.Time `json:"created_at"`
}

// CostEstimate is the pricing projection for a plan selection, in cents.
type CostEstimate struct {
	Monthly int64 `json:"monthly"`
	Yearly  int64 `json:"yearly"`
	Savings int64 `json:"savings"`
}

// BillingCycle values accepted on plan selection.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)
