package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mewayz/onboarding/internal/repository"
)

// CatalogHandler serves the onboarding catalog.
type CatalogHandler struct {
	Catalog repository.CatalogRepository
}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler(repo repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Catalog: repo}
}

// ListIndustries returns the selectable industries.
func (h *CatalogHandler) ListIndustries(c *gin.Context) {
	industries, err := h.Catalog.ListIndustries(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"industries": industries})
}

// ListGoals returns the selectable business goals.
func (h *CatalogHandler) ListGoals(c *gin.Context) {
	goals, err := h.Catalog.ListGoals(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// ListFeatures returns catalog features, optionally scoped to one goal.
func (h *CatalogHandler) ListFeatures(c *gin.Context) {
	ctx := c.Request.Context()
	if goalID := strings.TrimSpace(c.Query("goal_id")); goalID != "" {
		features, err := h.Catalog.ListFeaturesByGoal(ctx, goalID)
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"features": features})
		return
	}
	features, err := h.Catalog.ListFeatures(ctx)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": features})
}

// ListPlans returns the subscription plans.
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	plans, err := h.Catalog.ListPlans(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func respondCatalogError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
}
