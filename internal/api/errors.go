package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"identity_wallet/internal/domain" // Error taxonomy

	"github.com/gin-gonic/gin" // Gin web framework
)

// respondError maps a domain error onto a status code and error body.
// Anything unrecognised is reported as a generic failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/verify-email"})
	case errors.Is(err, domain.ErrUnknownUser), errors.Is(err, domain.ErrUnknownWallet), errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err) // Surface to the request logger
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
