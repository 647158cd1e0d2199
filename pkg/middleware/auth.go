package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/sessions"
	"github.com/abacreative/admin-services/internal/tokens"
	"github.com/abacreative/admin-services/pkg/logger"
)

// AuthMiddleware returns a Gin middleware that verifies Bearer access
// tokens and rejects tokens revoked through the blacklist.
func AuthMiddleware(secret string, blacklist *sessions.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := tokens.ParseAccessToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), raw)
			if err != nil {
				logger.Warnf("middleware: blacklist check failed: %v", err)
			} else if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// RequirePermission gates a route on the authenticated role having the
// given permission. Must run after AuthMiddleware.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if !models.HasPermission(claims.Role, perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the access token claims set by AuthMiddleware, or
// nil when the request is unauthenticated.
func ClaimsFrom(c *gin.Context) *tokens.Claims {
	v, ok := c.Get("claims")
	if !ok {
		return nil
	}
	claims, _ := v.(*tokens.Claims)
	return claims
}
