package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"editorial-backend/internal/shared/response"
	"editorial-backend/pkg/jwt"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ContextEditorEmail = "editorEmail"
	ContextEditorRole  = "editorRole"
)

// AuthRequired validates the Bearer token on mutating routes and puts
// the editor identity into the request context.
func AuthRequired(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract the token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify signature, expiry and role
		claims, err := manager.ValidateEditorToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		// 4. Expose the editor identity to handlers
		c.Set(ContextEditorEmail, claims.Email)
		c.Set(ContextEditorRole, claims.Role)

		c.Next()
	}
}
