package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Error matching
	"net/http"  // HTTP server
	"os"        // Signal types
	"os/signal" // Signal handling
	"syscall"   // Termination signals
	"time"      // Shutdown timeout

	"identity_wallet/internal/api"     // HTTP handlers and routes
	"identity_wallet/internal/audit"   // Audit trail
	"identity_wallet/internal/auth"    // Sessions and verification
	"identity_wallet/internal/config"  // Configuration
	"identity_wallet/internal/db"      // Database connection
	"identity_wallet/internal/ledger"  // Wallet ledger
	"identity_wallet/internal/mail"    // Verification mail
	"identity_wallet/internal/profile" // Profile updates
	"identity_wallet/internal/store"   // Credential store
	"identity_wallet/internal/utils"   // Wallet cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err) // Refuse to start with an unusable config
	}

	// Connect to the database
	database, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Verification mail falls back to logging when SMTP is not configured
	var sender mail.Sender = mail.LogSender{}
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}

	credentials := store.NewCredentialStore(database)
	trail := audit.NewTrail(database, cfg.AuditQueueSize)
	defer trail.Close() // Drain pending audit events

	deps := api.Deps{
		Credentials: credentials,
		Auth:        auth.NewAuthenticator(credentials, auth.NewSessionRegistry(redisClient), trail, cfg.JWTSecret, cfg.SessionTTL),
		Verifier:    auth.NewVerifier(credentials, sender, cfg.AppBaseURL),
		Ledger:      ledger.NewLedger(database, trail, cfg.AuditFunding),
		Trail:       trail,
		Profiles:    profile.NewService(credentials, trail),
		WalletCache: utils.NewWalletCache(redisClient, cfg.WalletCacheTTL),
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(deps)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		logrus.Infof("Server running on %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}
