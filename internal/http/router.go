package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mewayz/onboarding/internal/config"
	"github.com/mewayz/onboarding/internal/http/handler"
	httpmiddleware "github.com/mewayz/onboarding/internal/http/middleware"
	"github.com/mewayz/onboarding/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, wizardHandler *handler.WizardHandler, catalogHandler *handler.CatalogHandler, authMiddleware *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	onboarding := r.Group("/onboarding", authMiddleware.Authenticate)
	{
		flow := onboarding.Group("/wizard")
		{
			flow.GET("", wizardHandler.GetState)
			flow.PUT("/steps/:step", wizardHandler.UpdateStep)
			flow.POST("/goals/select", wizardHandler.SelectGoal)
			flow.POST("/goals/deselect", wizardHandler.DeselectGoal)
			flow.POST("/goals/priority", wizardHandler.SetGoalPriority)
			flow.POST("/next", wizardHandler.Next)
			flow.POST("/previous", wizardHandler.Previous)
			flow.POST("/goto", wizardHandler.GoTo)
			flow.POST("/reset", wizardHandler.Reset)
			flow.POST("/submit", wizardHandler.Submit)
			flow.GET("/recommendations", wizardHandler.Recommendations)
			flow.GET("/estimate", wizardHandler.Estimate)
		}

		catalog := onboarding.Group("/catalog")
		{
			catalog.GET("/industries", catalogHandler.ListIndustries)
			catalog.GET("/goals", catalogHandler.ListGoals)
			catalog.GET("/features", catalogHandler.ListFeatures)
			catalog.GET("/plans", catalogHandler.ListPlans)
		}

		slug := onboarding.Group("/slug")
		{
			slug.GET("/check", wizardHandler.CheckSlug)
			slug.POST("/generate", wizardHandler.GenerateSlug)
		}
	}

	return r
}
