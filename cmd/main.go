package main

import (
	"fmt"
	"os"

	"github.com/Kyz7/landing/internal/config"
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "landing",
	Short: "Landing page builder for travel agencies",
	Long:  `landing serves the landing page editor API, the public pages and their enquiry forms.`,
	// Running the binary without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, starts the logger and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	if missing := cfg.RequiredDBVars(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("required environment variables not set: %v", missing)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.Info("Database connected", zap.String("driver", cfg.DBDriver))
	return cfg, db, nil
}

// migrate runs AutoMigrate and then the SQL files. A failing SQL file is
// logged and does not stop the caller.
func migrate(cfg *config.Config, db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	applied, err := database.RunMigrations(db, cfg.MigrationsDir)
	if err != nil {
		logger.Log.Warn("SQL migrations failed, listing indexes may be missing",
			zap.String("dir", cfg.MigrationsDir), zap.Error(err))
		return nil
	}
	logger.Log.Info("SQL migrations completed", zap.Strings("applied", applied))
	return nil
}
