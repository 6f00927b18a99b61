package main

import (
	"identity_wallet/internal/config" // Configuration
	"identity_wallet/internal/db"     // Database migrations
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Create principal and audit tables
}
