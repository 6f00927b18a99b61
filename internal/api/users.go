package api

import (
	"net/http" // HTTP status codes

	"identity_wallet/internal/domain" // Search filters
	"identity_wallet/internal/store"  // Credential store

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListPrincipalsHandler lists principals, optionally narrowed by searchBy and a term.
// The term is read from searchOption, searchTerm or statusOption, first one set wins.
func ListPrincipalsHandler(credentials *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := c.Query("searchOption")
		if term == "" {
			term = c.Query("searchTerm")
		}
		if term == "" {
			term = c.Query("statusOption")
		}
		filter := domain.ParseFilter(c.Query("searchBy"), term)
		principals, err := credentials.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users": principals,      // Matching principals
			"total": len(principals), // Number of matches
		})
	}
}
