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

func SetupRouter(c *container.PublicationsContainer) *gin.Engine {
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

		setupPublicationRoutes(v1, c)
	}

	return router
}

// ========================================
// PUBLICATION ROUTES
// ========================================
func setupPublicationRoutes(v1 *gin.RouterGroup, c *container.PublicationsContainer) {
	// Reads are open.
	publications := v1.Group("/publications")
	{
		publications.GET("", c.PublicationHandler.ListPublications)
		publications.GET("/stats", c.PublicationHandler.GetStats)
		publications.GET("/:id", c.PublicationHandler.GetPublication)
		publications.GET("/:id/history", c.PublicationHandler.GetStatusHistory)
		publications.GET("/:id/attachments", c.PublicationHandler.ListAttachments)
	}

	// Everything that writes, plus the export download, requires an
	// editor token issued by the authors service.
	protected := v1.Group("/publications")
	protected.Use(middleware.AuthRequired(c.JWTManager))
	{
		protected.POST("", c.PublicationHandler.CreatePublication)
		protected.GET("/export", c.PublicationHandler.ExportPublications)
		protected.PUT("/:id", c.PublicationHandler.UpdateContent)
		protected.PUT("/:id/status", c.PublicationHandler.ChangeStatus)
		protected.PUT("/:id/visibility", c.PublicationHandler.SetVisibility)
		protected.DELETE("/:id", c.PublicationHandler.DeletePublication)
		protected.POST("/:id/attachments", c.PublicationHandler.UploadAttachment)
		protected.DELETE("/:id/attachments/:attachmentID", c.PublicationHandler.DeleteAttachment)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.PublicationsContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"service":   "publications",
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

		// Check the authors registry. An unreachable directory blocks
		// new publications but not reads, so it only degrades status.
		directoryStatus := "ok"
		if !appCtx.Directory.HealthCheck(c.Request.Context()) {
			directoryStatus = "unreachable"
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database":         dbStatus,
			"redis":            redisStatus,
			"author_directory": directoryStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
