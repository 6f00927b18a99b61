package api

import (
	"encoding/json" // Raw amount decoding
	"net/http"      // HTTP status codes
	"strings"       // String manipulation

	"identity_wallet/internal/ledger"     // Wallet ledger
	"identity_wallet/internal/middleware" // Session context helpers
	"identity_wallet/internal/store"      // Credential store
	"identity_wallet/internal/utils"      // Wallet cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// FundRequest represents a funding request. Amount may be a JSON number or string.
type FundRequest struct {
	WalletID string          `json:"wallet_id" binding:"required"` // Target wallet
	Amount   json.RawMessage `json:"amount" binding:"required"`    // Parsed by ledger.ParseAmount
}

// FundWalletHandler tops up a wallet by id
func FundWalletHandler(l *ledger.Ledger, cache *utils.WalletCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FundRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amount, err := ledger.ParseAmount(strings.Trim(string(req.Amount), `"`))
		if err != nil {
			respondError(c, err)
			return
		}
		owner, err := l.Fund(c.Request.Context(), req.WalletID, amount)
		if err != nil {
			respondError(c, err)
			return
		}
		// Invalidate the owner's cached wallet view
		if err := cache.Invalidate(c.Request.Context(), owner.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"principal_id": owner.ID,
				"error":        err.Error(),
			}).Warn("Failed to invalidate wallet cache")
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Wallet funded successfully. Your new balance is: " + owner.Wallet.Balance.StringFixed(2),
			"wallet":  owner.Wallet,
		})
	}
}

// GetWalletHandler returns the caller's wallet, served from Redis when cached
func GetWalletHandler(credentials *store.CredentialStore, cache *utils.WalletCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.SessionFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		wallet, found, err := cache.Get(ctx, session.PrincipalID) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"wallet": wallet, "cached": true})
			return
		}
		// If not in cache, fetch from DB
		p, err := credentials.FindByID(ctx, session.PrincipalID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := cache.Set(ctx, p.ID, p.Wallet); err != nil {
			logrus.WithFields(logrus.Fields{"principal_id": p.ID, "error": err.Error()}).Warn("Failed to cache wallet")
		}
		c.JSON(http.StatusOK, gin.H{"wallet": p.Wallet, "cached": false})
	}
}
