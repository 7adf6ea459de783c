package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful/internal/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/parse-recipe", handler.ParseRecipe)
		api.POST("/debug-recipe", handler.DebugRecipe)
		api.POST("/categorize-recipe", handler.CategorizeRecipe)
		api.GET("/categories", handler.Categories)
	}

	return router
}
