package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/pkg/jwt"
	"github.com/ministry-site/core/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "auth_claims"
)

// Auth returns a middleware that requires a valid bearer token.
func Auth(signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.UnauthorizedMsg(c, "Access token required")
			return
		}
		claims, err := signer.Parse(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.UnauthorizedMsg(c, "Token expired")
				return
			}
			response.UnauthorizedMsg(c, "Invalid token")
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(uint)
	return id
}

// CurrentClaims returns the verified token claims, or nil on public routes.
func CurrentClaims(c *gin.Context) *jwt.Claims {
	v, _ := c.Get(ContextKeyClaims)
	claims, _ := v.(*jwt.Claims)
	return claims
}

func extractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
