package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"editorial-backend/internal/shared/middleware"
	"editorial-backend/pkg/container"
)

func SetupRouter(c *container.AuthorsContainer) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.RateLimit(context.Background(), 50, 100),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAuthorRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.AuthorsContainer) {
	auth := v1.Group("/auth")
	{
		auth.POST("/token", c.AuthorHandler.IssueToken)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.AuthorsContainer) {
	// Reads are open. The publications service calls the existence
	// probe without a token.
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.ListAuthors)
		authors.GET("/:id", c.AuthorHandler.GetAuthor)
		authors.GET("/:id/exists", c.AuthorHandler.AuthorExists)
	}

	// Mutations require an editor token.
	protected := v1.Group("/authors")
	protected.Use(middleware.AuthRequired(c.JWTManager))
	{
		protected.POST("", c.AuthorHandler.CreateAuthor)
		protected.PUT("/:id", c.AuthorHandler.UpdateAuthor)
		protected.DELETE("/:id", c.AuthorHandler.DeleteAuthor)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.AuthorsContainer) {
	admin := v1.Group("/admin/authors")
	admin.Use(middleware.AuthRequired(c.JWTManager))
	{
		admin.POST("/import", c.AuthorHandler.ImportAuthors)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.AuthorsContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"service":   "authors",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
