package handlers

import (
	"net/http"
	"strings"

	"todohub/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys for the identity resolved by the auth gate.
const (
	ctxUserIDKey   = "userId"
	ctxUsernameKey = "username"
)

// identityMiddleware is the auth gate: it extracts the bearer token, verifies
// it and attaches the resolved identity to the request context. It has no
// side effects of its own.
func (h *Handler) identityMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	identity, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserIDKey, identity.ID)
	c.Set(ctxUsernameKey, identity.Username)
	c.Next()
}

// callerIdentity reads the identity the middleware attached.
func callerIdentity(c *gin.Context) service.Identity {
	return service.Identity{
		ID:       c.GetInt(ctxUserIDKey),
		Username: c.GetString(ctxUsernameKey),
	}
}
