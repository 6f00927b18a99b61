package domain

import "github.com/shopspring/decimal" // Exact decimal arithmetic for balances

// Default currency applied to every new wallet
const (
	DefaultCurrencyCode   = "CAD" // ISO currency code
	DefaultCurrencySymbol = "$"   // Display symbol
)

// Wallet Model, embedded in Principal (one wallet per principal)
type Wallet struct {
	ID             string          `gorm:"column:wallet_id;size:36;uniqueIndex;not null" json:"id"`                          // Opaque id, generated once at registration
	Balance        decimal.Decimal `gorm:"column:wallet_balance;type:decimal(20,2);not null;default:0" json:"balance"`        // Never negative
	IsActive       bool            `gorm:"column:wallet_is_active;not null;default:false" json:"is_active"`                  // Flips to true on first funding
	CurrencyCode   string          `gorm:"column:wallet_currency_code;size:8;not null;default:CAD" json:"currency_code"`     // Fixed at creation
	CurrencySymbol string          `gorm:"column:wallet_currency_symbol;size:8;not null;default:$" json:"currency_symbol"` // Fixed at creation
}

// NewWallet returns a wallet with the default balance, activation and currency
func NewWallet(id string) Wallet {
	return Wallet{
		ID:             id,
		Balance:        decimal.Zero,
		IsActive:       false,
		CurrencyCode:   DefaultCurrencyCode,
		CurrencySymbol: DefaultCurrencySymbol,
	}
}
