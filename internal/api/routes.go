package api

import (
	"github.com/algoprep/pulse/internal/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.Default()

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	// Middleware
	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/submissions", handler.IngestSubmission)
		api.GET("/users/:userId/stats", handler.GetPerformanceStats)
		api.GET("/users/:userId/recommendations", handler.GetRecommendations)
		api.GET("/submissions/:submissionId/reports", handler.GetPlagiarismReports)
		api.POST("/submissions/:submissionId/check", handler.TriggerCheck)
	}

	return router
}
