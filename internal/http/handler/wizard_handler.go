package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mewayz/onboarding/internal/http/middleware"
	"github.com/mewayz/onboarding/internal/service"
	"github.com/mewayz/onboarding/internal/wizard"
)

// WizardHandler exposes the workspace setup flow over REST.
type WizardHandler struct {
	Wizard *service.WizardService
}

// NewWizardHandler creates the handler set.
func NewWizardHandler(wizardSvc *service.WizardService) *WizardHandler {
	return &WizardHandler{Wizard: wizardSvc}
}

// GetState returns the caller's current wizard state.
func (h *WizardHandler) GetState(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	view, err := h.Wizard.GetState(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateStep stores one step's payload.
func (h *WizardHandler) UpdateStep(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 1 || step > wizard.TotalSteps {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Unknown wizard step."})
		return
	}

	ctx := c.Request.Context()
	var view *service.StateView
	switch step {
	case 1:
		var form wizard.BasicsForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadPayload(c)
			return
		}
		view, err = h.Wizard.UpdateBasics(ctx, identity.UserID, form)
	case 2:
		var form wizard.GoalsForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadPayload(c)
			return
		}
		view, err = h.Wizard.UpdateGoals(ctx, identity.UserID, form)
	case 3:
		var form wizard.FeaturesForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadPayload(c)
			return
		}
		view, err = h.Wizard.UpdateFeatures(ctx, identity.UserID, form)
	case 4:
		var form wizard.PlanForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadPayload(c)
			return
		}
		view, err = h.Wizard.UpdatePlan(ctx, identity.UserID, form)
	case 5:
		var form wizard.TeamForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadPayload(c)
			return
		}
		view, err = h.Wizard.UpdateTeam(ctx, identity.UserID, form)
	case 6:
		var form wizard.BrandingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadPayload(c)
			return
		}
		view, err = h.Wizard.UpdateBranding(ctx, identity.UserID, form)
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectGoal adds a goal at the lowest priority.
func (h *WizardHandler) SelectGoal(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	var req struct {
		GoalID   string `json:"goal_id"`
		SetupNow bool   `json:"setup_now"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.GoalID == "" {
		respondBadPayload(c)
		return
	}
	view, err := h.Wizard.SelectGoal(c.Request.Context(), identity.UserID, req.GoalID, req.SetupNow)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeselectGoal removes a goal and compacts the remaining priorities.
func (h *WizardHandler) DeselectGoal(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	var req struct {
		GoalID string `json:"goal_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.GoalID == "" {
		respondBadPayload(c)
		return
	}
	view, err := h.Wizard.DeselectGoal(c.Request.Context(), identity.UserID, req.GoalID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetGoalPriority re-ranks a selected goal.
func (h *WizardHandler) SetGoalPriority(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	var req struct {
		GoalID   string `json:"goal_id"`
		Priority int    `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.GoalID == "" {
		respondBadPayload(c)
		return
	}
	view, err := h.Wizard.SetGoalPriority(c.Request.Context(), identity.UserID, req.GoalID, req.Priority)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Next advances the flow when the current step's gate passes.
func (h *WizardHandler) Next(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	view, err := h.Wizard.Next(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWizardErrorWithView(c, err, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Previous rewinds one step.
func (h *WizardHandler) Previous(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	view, err := h.Wizard.Previous(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GoTo jumps to a specific step.
func (h *WizardHandler) GoTo(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	var req struct {
		Step int `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c)
		return
	}
	view, err := h.Wizard.GoTo(c.Request.Context(), identity.UserID, req.Step)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Reset abandons the flow and erases the durable record.
func (h *WizardHandler) Reset(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	view, err := h.Wizard.Reset(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Submit completes onboarding: workspace creation plus invitation dispatch.
func (h *WizardHandler) Submit(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	submission, err := h.Wizard.Submit(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// Recommendations suggests features from the stored answers.
func (h *WizardHandler) Recommendations(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	recs, err := h.Wizard.Recommendations(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// Estimate projects plan cost for the caller's selection.
func (h *WizardHandler) Estimate(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	estimate, err := h.Wizard.Estimate(c.Request.Context(), identity.UserID, c.Query("plan"), c.Query("cycle"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// CheckSlug reports workspace URL availability.
func (h *WizardHandler) CheckSlug(c *gin.Context) {
	slug := c.Query("slug")
	available, err := h.Wizard.CheckSlug(c.Request.Context(), slug)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "available": available})
}

// GenerateSlug derives a slug from a workspace name.
func (h *WizardHandler) GenerateSlug(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c)
		return
	}
	slug, available, err := h.Wizard.GenerateSlug(c.Request.Context(), req.Name)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "available": available})
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
}

func respondBadPayload(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
}

func respondWizardError(c *gin.Context, err error) {
	respondWizardErrorWithView(c, err, nil)
}

// respondWizardErrorWithView includes the state view on gate failures so
// clients can render field errors without a follow-up fetch.
func respondWizardErrorWithView(c *gin.Context, err error, view *service.StateView) {
	if wizardErr, ok := err.(*service.WizardError); ok {
		body := gin.H{"error": wizardErr.Code, "error_description": wizardErr.Description}
		if len(wizardErr.Fields) > 0 {
			body["fields"] = wizardErr.Fields
		}
		if view != nil {
			body["state"] = view
		}
		c.JSON(wizardErr.Status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
}
