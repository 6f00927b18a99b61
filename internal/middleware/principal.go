package middleware

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"identity_wallet/internal/domain" // Importing domain models
	"identity_wallet/internal/store"  // Credential store

	"github.com/gin-gonic/gin" // Gin web framework
)

// PrincipalKey holds the principal loaded by LoadPrincipalMiddleware
const PrincipalKey = "principal"

// LoadPrincipalMiddleware fetches the session's principal from the database on each request
func LoadPrincipalMiddleware(credentials *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID, exists := c.Get(PrincipalIDKey) // Get principalID from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		p, err := credentials.FindByID(c.Request.Context(), principalID.(uint))
		if errors.Is(err, domain.ErrNotFound) {
			// Session outlived its principal
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}
		c.Set(PrincipalKey, p) // Store principal in context
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by LoadPrincipalMiddleware
func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok
}
