package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"time"     // Timestamp formatting

	"identity_wallet/internal/audit"      // Audit trail
	"identity_wallet/internal/auth"       // Sessions and verification
	"identity_wallet/internal/domain"     // Importing domain models
	"identity_wallet/internal/middleware" // Session context helpers
	"identity_wallet/internal/store"      // Credential store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"` // Identity must be a valid email
	Username    string `json:"username" binding:"required"`    // Username must be provided
	PhoneNumber string `json:"phonenumber"`                    // Informational only
	Password    string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for login; identity is an email or a username
type LoginRequest struct {
	Identity string `json:"identity" binding:"required"` // Email or username
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token     string `json:"token"`      // Bearer token
	SessionID string `json:"session_id"` // Session id
	ExpiresAt string `json:"expires_at"` // RFC3339 expiry
}

// ResendRequest asks for a fresh verification link
type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// isValidUsername keeps usernames safe to embed in verification links
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// isValidPassword checks the length bounds bcrypt can honour
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72
}

// RegisterHandler creates a principal, mails its verification link and records a Registration event
func RegisterHandler(credentials *store.CredentialStore, verifier *auth.Verifier, trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-32 letters, digits, '.', '_' or '-'"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
			return
		}
		p, err := credentials.Register(c.Request.Context(), store.Registration{
			Email:       req.Email,
			Username:    req.Username,
			PhoneNumber: req.PhoneNumber,
			Password:    req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		verifier.Issue(c.Request.Context(), p.Email, p.Username)  // Send verification email
		trail.Emit(domain.EventRegistration, p.Email, p.Username) // Record registration
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Verification email sent. Please check your email to verify your account.",
			"principal": p,
		})
	}
}

// LoginHandler authenticates a principal and returns its session token
func LoginHandler(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		session, err := authenticator.Login(c.Request.Context(), req.Identity, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{
			Token:     session.Token,
			SessionID: session.ID,
			ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		})
	}
}

// LogoutHandler ends the caller's session. Failures are logged, never surfaced.
func LogoutHandler(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := middleware.SessionFrom(c)
		if err := authenticator.Logout(c.Request.Context(), session); err != nil {
			logrus.WithFields(logrus.Fields{
				"session_id": session.ID,
				"error":      err.Error(),
			}).Error("Logout failed")
		}
		c.JSON(http.StatusOK, gin.H{"message": "You have signed out successfully."})
	}
}

// VerifyEmailHandler redeems a verification link; reachable without a session
func VerifyEmailHandler(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := verifier.Redeem(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Your email has been verified. You can now log in to your account.",
			"username": p.Username,
		})
	}
}

// ResendVerificationHandler reissues a verification link. The response does
// not reveal whether the email is registered.
func ResendVerificationHandler(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := verifier.Resend(c.Request.Context(), req.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Verification email sent. Please check your email to verify your account."})
	}
}

// VerificationStatusHandler reports whether the caller's email is verified
func VerificationStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if p.EmailVerified {
			c.JSON(http.StatusOK, gin.H{"verified": true, "message": "Your email is already verified."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": false, "message": "Verification email sent. Please check your email to verify your account."})
	}
}
