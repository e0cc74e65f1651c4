package cmd

import (
	"fmt"
	"os"

	"care4pets/internal/config"
	"care4pets/internal/database"
	"care4pets/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "care4pets",
	Short: "Care4Pets shop and pet care backend",
	Long: `Care4Pets serves the pet shop API: catalog, cart, checkout and payments,
grooming appointments, pet records and in-app notifications.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime holds what every subcommand needs.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	db, err := database.Open(cfg.DBDriver, cfg.DSN, !cfg.IsProduction())
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			r.log.Warn("Error closing database", zap.Error(err))
		}
	}
	_ = r.log.Sync()
}
