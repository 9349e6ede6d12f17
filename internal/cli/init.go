// Package cli provides common initialization for cmd/ledger and cmd/ledger-worker.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/analytics"
	"ledger/internal/backend"
	"ledger/internal/cache"
	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/log"
)

// SetupLogger builds the process logger at level and installs it as the slog default.
// Unknown levels fall back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// InitJournal creates the configured journal backend or exits the process.
func InitJournal(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize journal backend",
			log.FieldError, err.Error(),
			"backend", backendCfg.Type.String())
		os.Exit(1)
	}
	return res
}

// NewReportCache creates the analytics report cache and registers it with a
// cleanup manager. The caller starts and stops the manager.
func NewReportCache(logger *log.Logger, cfg *config.Config) (*cache.LRUCache[[]core.Transaction], *cache.Manager) {
	reports := cache.NewLRUCache[[]core.Transaction](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	manager := cache.NewManager(logger)
	manager.Register(reports)
	return reports, manager
}

// NewEngine builds the analytics engine for cfg's spending window.
func NewEngine(logger *log.Logger, cfg *config.Config, reports cache.Cache[[]core.Transaction]) *analytics.Engine {
	window, err := analytics.GetWindow(cfg.SpendingWindow)
	if err != nil {
		logger.Warn("Unknown spending window, using rolling month", log.FieldError, err.Error())
		window = analytics.RollingMonth{}
	}
	return analytics.NewEngine(analytics.Config{
		Window: window,
		Now:    time.Now,
		Cache:  reports,
		Logger: logger,
	})
}
