package routes

import (
	"time"

	"github.com/ujblackjack-cmd/it-da/handlers"
	"github.com/ujblackjack-cmd/it-da/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.RecommendationHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/healthz", h.Health)

	api := r.Group("/api/ai/recommendations")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.Use(middleware.ServiceAuthMiddleware())

		api.POST("/search", h.Search)
		api.POST("/satisfaction", h.Satisfaction)
		api.POST("/fallback", h.Fallback)
	}
}
