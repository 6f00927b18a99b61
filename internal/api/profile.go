package api

import (
	"net/http" // HTTP status codes

	"identity_wallet/internal/middleware" // Session context helpers
	"identity_wallet/internal/profile"    // Profile updates

	"github.com/gin-gonic/gin" // Gin web framework
)

// UpdateProfileRequest carries the new identity; empty fields are kept
type UpdateProfileRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username"`
}

// MeHandler returns the caller's principal
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": p})
	}
}

// UpdateProfileHandler changes the caller's email and username
func UpdateProfileHandler(profiles *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.SessionFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Username != "" && !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-32 letters, digits, '.', '_' or '-'"})
			return
		}
		p, err := profiles.Update(c.Request.Context(), session.PrincipalID, req.Email, req.Username)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": p})
	}
}
