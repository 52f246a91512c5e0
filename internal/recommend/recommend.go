// Package recommend maps workspace attributes to suggested catalog features.
// Recommendations are deterministic table lookups; there is no scoring or
// ranking beyond fixed list order.
package recommend

import (
	"github.com/mewayz/onboarding/internal/domain"
)

// Reason explains which attribute produced a recommendation.
type Reason string

const (
	ReasonIndustry Reason = "industry"
	ReasonTeamSize Reason = "team_size"
	ReasonGoal     Reason = "goal"
)

// maxPerReason caps the recommendation surface per UI group, not globally.
const maxPerReason = 3

// Recommendation pairs a catalog feature with the reason it surfaced.
type Recommendation struct {
	Feature domain.Feature `json:"feature"`
	Reason  Reason         `json:"reason"`
}

var industryFeatures = map[string][]string{
	"marketing":  {"post_scheduler", "content_calendar", "analytics_dashboard"},
	"ecommerce":  {"product_catalog", "order_tracking", "payment_links"},
	"education":  {"course_builder", "student_progress", "live_sessions"},
	"creator":    {"link_in_bio", "audience_insights", "email_campaigns"},
	"agency":     {"crm_pipeline", "client_reports", "team_tasks"},
	"technology": {"crm_pipeline", "email_campaigns", "analytics_dashboard"},
	"retail":     {"product_catalog", "loyalty_program", "payment_links"},
}

var teamSizeFeatures = map[domain.TeamSizeBucket][]string{
	domain.TeamSolo:   {"link_in_bio", "post_scheduler", "email_campaigns"},
	domain.TeamSmall:  {"team_tasks", "crm_pipeline", "content_calendar"},
	domain.TeamMedium: {"team_tasks", "client_reports", "analytics_dashboard"},
	domain.TeamLarge:  {"crm_pipeline", "analytics_dashboard", "audience_insights"},
}

var goalFeatures = map[string][]string{
	"instagram_management": {"post_scheduler", "content_calendar", "audience_insights"},
	"link_in_bio":          {"link_in_bio", "payment_links"},
	"ecommerce":            {"product_catalog", "order_tracking", "payment_links"},
	"courses":              {"course_builder", "student_progress", "live_sessions"},
	"crm":                  {"crm_pipeline", "email_campaigns", "client_reports"},
	"analytics":            {"analytics_dashboard", "audience_insights"},
}

// Recommend suggests catalog features for the workspace attributes collected
// at step 1 and the goals ranked at step 2. Slugs already present in the
// caller's selection (enabled or not) are skipped, list order is preserved,
// and slugs missing from the catalog are dropped silently.
func Recommend(industry string, teamSize domain.TeamSizeBucket, goalIDs []string, selectedSlugs []string, catalog []domain.Feature) []Recommendation {
	bySlug := make(map[string]domain.Feature, len(catalog))
	for _, feature := range catalog {
		bySlug[feature.Slug] = feature
	}

	seen := make(map[string]bool, len(selectedSlugs))
	for _, slug := range selectedSlugs {
		seen[slug] = true
	}

	var goalSlugs []string
	for _, goalID := range goalIDs {
		goalSlugs = append(goalSlugs, goalFeatures[goalID]...)
	}

	var out []Recommendation
	appendGroup := func(slugs []string, reason Reason) {
		count := 0
		for _, slug := range slugs {
			if count >= maxPerReason || seen[slug] {
				continue
			}
			feature, ok := bySlug[slug]
			if !ok {
				continue
			}
			seen[slug] = true
			out = append(out, Recommendation{Feature: feature, Reason: reason})
			count++
		}
	}

	appendGroup(industryFeatures[industry], ReasonIndustry)
	appendGroup(teamSizeFeatures[teamSize], ReasonTeamSize)
	appendGroup(goalSlugs, ReasonGoal)
	return out
}
