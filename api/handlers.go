package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	"github.com/gosearchlabs/go-chunk-ranker/internal/analytics"
	internalErrors "github.com/gosearchlabs/go-chunk-ranker/internal/errors"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

// API holds dependencies for API handlers, primarily the ranker manager.
type API struct {
	engine    services.RankerManager
	analytics *analytics.Service
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.RankerManager, analyticsService *analytics.Service) *API {
	return &API{
		engine:    engine,
		analytics: analyticsService,
	}
}

// SetupRoutes defines all the API routes for the ranking service.
func SetupRoutes(router *gin.Engine, engine services.RankerManager, analyticsService *analytics.Service) {
	apiHandler := NewAPI(engine, analyticsService)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Ranker pipeline management routes
	rankerRoutes := router.Group("/rankers")
	{
		rankerRoutes.POST("", apiHandler.CreateRankerHandler)                            // Create a new ranker pipeline
		rankerRoutes.GET("", apiHandler.ListRankersHandler)                              // List all ranker pipelines
		rankerRoutes.GET("/:rankerName", apiHandler.GetRankerHandler)                    // Get pipeline settings
		rankerRoutes.PATCH("/:rankerName/settings", apiHandler.UpdateSettingsHandler)    // Update pipeline settings
		rankerRoutes.DELETE("/:rankerName", apiHandler.DeleteRankerHandler)              // Delete a pipeline

		// Rank route per pipeline: the "search" event boundary
		rankerRoutes.POST("/:rankerName/_search", apiHandler.RankHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "go-chunk-ranker",
	})
}

// CreateRankerHandler handles the request to create a new ranker pipeline.
// Request Body: config.RankerSettings
func (api *API) CreateRankerHandler(c *gin.Context) {
	var settings config.RankerSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateRankerSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateRanker(settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrRankerAlreadyExists):
			SendRankerExistsError(c, settings.Name)
		case errors.Is(err, internalErrors.ErrInvalidConfiguration):
			SendInvalidConfigurationError(c, err)
		default:
			SendInternalError(c, "create ranker", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Ranker '" + settings.Name + "' created successfully"})
}

// ListRankersHandler lists all available ranker pipelines.
func (api *API) ListRankersHandler(c *gin.Context) {
	names := api.engine.ListRankers()
	c.JSON(http.StatusOK, gin.H{"rankers": names, "count": len(names)})
}

// GetRankerHandler retrieves the settings of a specific ranker pipeline.
func (api *API) GetRankerHandler(c *gin.Context) {
	rankerName := c.Param("rankerName")

	if result := ValidateRankerName(rankerName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	settings, err := api.engine.GetRankerSettings(rankerName)
	if err != nil {
		SendRankerNotFoundError(c, rankerName)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsHandler handles requests to update ranker pipeline settings.
// The full settings object is re-validated like at creation time.
func (api *API) UpdateSettingsHandler(c *gin.Context) {
	rankerName := c.Param("rankerName")

	if result := ValidateRankerName(rankerName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var settings config.RankerSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	settings.Name = rankerName
	if result := ValidateRankerSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.UpdateRankerSettings(rankerName, settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrRankerNotFound):
			SendRankerNotFoundError(c, rankerName)
		case errors.Is(err, internalErrors.ErrInvalidConfiguration):
			SendInvalidConfigurationError(c, err)
		default:
			SendInternalError(c, "update ranker settings", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully for ranker '" + rankerName + "'"})
}

// DeleteRankerHandler handles deleting a ranker pipeline.
func (api *API) DeleteRankerHandler(c *gin.Context) {
	rankerName := c.Param("rankerName")

	if result := ValidateRankerName(rankerName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteRanker(rankerName); err != nil {
		if errors.Is(err, internalErrors.ErrRankerNotFound) {
			SendRankerNotFoundError(c, rankerName)
			return
		}
		SendInternalError(c, "delete ranker", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ranker '" + rankerName + "' deleted successfully"})
}

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	dashboard, err := api.analytics.GetDashboardData()
	if err != nil {
		SendInternalError(c, "get analytics", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
