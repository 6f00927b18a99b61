package api

import (
	"identity_wallet/internal/audit"      // Audit trail
	"identity_wallet/internal/auth"       // Sessions and verification
	"identity_wallet/internal/ledger"     // Wallet ledger
	"identity_wallet/internal/middleware" // Middleware
	"identity_wallet/internal/profile"    // Profile updates
	"identity_wallet/internal/store"      // Credential store
	"identity_wallet/internal/utils"      // Wallet cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps bundles the components the HTTP layer routes to
type Deps struct {
	Credentials *store.CredentialStore
	Auth        *auth.Authenticator
	Verifier    *auth.Verifier
	Ledger      *ledger.Ledger
	Trail       *audit.Trail
	Profiles    *profile.Service
	WalletCache *utils.WalletCache
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	// Public routes
	r.POST("/register", RegisterHandler(d.Credentials, d.Verifier, d.Trail)) // Registration endpoint
	r.POST("/login", LoginHandler(d.Auth))                                   // Login endpoint
	r.GET("/verify-email/:username", VerifyEmailHandler(d.Verifier))         // Emailed verification link
	r.POST("/verify-email/resend", ResendVerificationHandler(d.Verifier))    // Reissue verification link

	// Session routes
	authed := r.Group("")
	authed.Use(middleware.SessionAuthMiddleware(d.Auth))
	authed.POST("/logout", LogoutHandler(d.Auth))                           // Logout endpoint
	authed.GET("/wallet", GetWalletHandler(d.Credentials, d.WalletCache))   // Cached wallet view
	authed.POST("/wallet/fund", FundWalletHandler(d.Ledger, d.WalletCache)) // Fund wallet endpoint
	authed.GET("/users", ListPrincipalsHandler(d.Credentials))              // List principals
	authed.GET("/search", ListPrincipalsHandler(d.Credentials))             // Search principals
	authed.POST("/update-profile", UpdateProfileHandler(d.Profiles))        // Update profile
	authed.GET("/audit-trail/:page", AuditTrailHandler(d.Trail))            // Paginated audit trail

	// Session routes needing the full principal record
	loaded := authed.Group("")
	loaded.Use(middleware.LoadPrincipalMiddleware(d.Credentials))
	loaded.GET("/me", MeHandler())                           // Current principal
	loaded.GET("/verify-email", VerificationStatusHandler()) // Verification status
}

// NewRouter builds a gin engine with request logging and all routes
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	RegisterRoutes(r, d)
	return r
}
