package domain

import "time"

// Workspace is the tenant record created when onboarding completes.
type Workspace struct {
	ID           int64
	OwnerID      int64
	Name         string
	Slug         string
	Industry     string
	TeamSize     TeamSizeBucket
	PlanSlug     string
	BillingCycle string
	Goals        []WorkspaceGoal
	Features     []WorkspaceFeature
	Branding     WorkspaceBranding
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkspaceGoal is a selected goal with its onboarding priority.
type WorkspaceGoal struct {
	GoalID   string `json:"goal_id"`
	Priority int    `json:"priority"`
	SetupNow bool   `json:"setup_now"`
}

// WorkspaceFeature is a selected catalog feature.
type WorkspaceFeature struct {
	FeatureSlug string `json:"feature_slug"`
	IsEnabled   bool   `json:"is_enabled"`
	Priority    string `json:"priority"`
}

// WorkspaceBranding holds white-label settings collected at setup.
type WorkspaceBranding struct {
	LogoURL        string `json:"logo_url,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	AccentColor    string `json:"accent_color,omitempty"`
	DarkMode       bool   `json:"dark_mode,omitempty"`
}

// Invitation statuses.
const (
	InvitationPending = "PENDING"
	InvitationSent    = "SENT"
	InvitationFailed  = "FAILED"
)

// Invitation is a pending teammate invite attached to a workspace.
type Invitation struct {
	ID          int64
	WorkspaceID int64
	Email       string
	Role        string
	Department  string
	Message     string
	Code        string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvitationResult reports per-recipient delivery outcome at submission.
type InvitationResult struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Submission is the outcome of a completed onboarding flow.
type Submission struct {
	WorkspaceID int64              `json:"workspace_id"`
	Slug        string             `json:"slug"`
	Invitations []InvitationResult `json:"invitations"`
}
