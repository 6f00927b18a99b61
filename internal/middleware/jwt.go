package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"identity_wallet/internal/auth" // Session authenticator

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by SessionAuthMiddleware
const (
	SessionKey     = "session"
	PrincipalIDKey = "principalID"
)

// SessionAuthMiddleware resolves the bearer token to a live session
func SessionAuthMiddleware(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You need to log in to continue"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		// The token must map to a live session
		session, err := authenticator.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		c.Set(SessionKey, session)                 // Store session in context
		c.Set(PrincipalIDKey, session.PrincipalID) // Store principal id in context
		c.Next()                                   // Proceed to the next handler
	}
}

// SessionFrom returns the session stored by SessionAuthMiddleware
func SessionFrom(c *gin.Context) (*auth.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*auth.Session)
	return s, ok
}
