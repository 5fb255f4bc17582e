package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"animedrop/internal/logging"
	"animedrop/internal/microservices/http-api/service"
	"animedrop/internal/shared"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextClaims   = "claims"
	ContextUserID   = "userID"
	ContextUsername = "username"
)

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, shared.ErrorBody{Message: msg})
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It accepts only "Authorization: Bearer <token>" and rejects tokens whose
// user no longer exists.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithMessage(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithMessage(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			abortWithMessage(c, http.StatusUnauthorized, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := authService.CurrentUser(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				abortWithMessage(c, http.StatusUnauthorized, err.Error())
				return
			}
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("auth user lookup failed")
			abortWithMessage(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		// Set user info in context for handlers to use
		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUsername, user.Username)

		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" outside AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// TokenFromQuery lets browser websocket clients, which cannot set headers,
// pass the JWT as ?token=. An explicit Authorization header wins.
func TokenFromQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}
