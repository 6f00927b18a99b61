// Package ledger mutates wallet balances.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"identity_wallet/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Emitter records audit events without blocking the caller
type Emitter interface {
	Emit(kind domain.EventKind, email, username string)
}

// Ledger funds wallets. Balances only ever grow, so they stay non-negative.
type Ledger struct {
	db           *gorm.DB
	audit        Emitter
	auditFunding bool
}

// NewLedger creates a ledger; Funding events are emitted when auditFunding is set
func NewLedger(db *gorm.DB, audit Emitter, auditFunding bool) *Ledger {
	return &Ledger{db: db, audit: audit, auditFunding: auditFunding}
}

// Input bounds for a single funding amount
const (
	maxAmountLen      = 64  // Longest accepted amount literal
	maxAmountExponent = 18  // Largest accepted decimal exponent
	minAmountExponent = -64 // Smallest accepted decimal exponent
)

// MaxAmount is the exclusive upper bound of one funding, sized to decimal(20,2)
var MaxAmount = decimal.New(1, maxAmountExponent)

// ParseAmount parses a user supplied amount, rounded to cents.
// Non-numeric, zero, negative and out of range input yields domain.ErrInvalidAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxAmountLen {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	// Rounding rescales the coefficient, so huge exponents are refused first
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	amount = amount.Round(2)
	if !amount.IsPositive() || amount.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}

// Fund adds amount to the wallet and activates it, returning the updated owner.
// The increment is a single UPDATE so concurrent funding never loses an addition.
func (l *Ledger) Fund(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Principal, error) {
	if !amount.IsPositive() || amount.GreaterThanOrEqual(MaxAmount) {
		return nil, domain.ErrInvalidAmount
	}

	var owner domain.Principal
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Increment wallet balance
		res := tx.Model(&domain.Principal{}).
			Where("wallet_id = ?", walletID).
			Updates(map[string]any{
				"wallet_balance":   gorm.Expr("wallet_balance + ?", amount),
				"wallet_is_active": true,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: fund wallet: %v", domain.ErrPersistence, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUnknownWallet
		}
		// Read back the committed balance inside the same transaction
		if err := tx.Where("wallet_id = ?", walletID).First(&owner).Error; err != nil {
			return fmt.Errorf("%w: reload wallet: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUnknownWallet) {
			logrus.WithFields(logrus.Fields{
				"wallet_id": walletID,
				"amount":    amount.String(),
				"error":     err.Error(),
			}).Error("Funding failed")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"principal_id": owner.ID,
		"wallet_id":    walletID,
		"amount":       amount.String(),
		"balance":      owner.Wallet.Balance.String(),
		"timestamp":    time.Now().Format(time.RFC3339),
	}).Info("Wallet funded")

	if l.auditFunding && l.audit != nil {
		l.audit.Emit(domain.EventFunding, owner.Email, owner.Username)
	}
	return &owner, nil
}
