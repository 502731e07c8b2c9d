package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kyz7/landing/internal/auth"
	"github.com/Kyz7/landing/internal/cache"
	"github.com/Kyz7/landing/internal/config"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/server"
	"github.com/Kyz7/landing/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API and public page server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}

		if err := utils.ValidateJWTSecret(); err != nil {
			return err
		}

		skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
		if !skipMigrate {
			if err := migrate(cfg, db); err != nil {
				return err
			}
			if err := role.SeedDefaultRoles(db); err != nil {
				logger.Log.Warn("Failed to seed roles", zap.Error(err))
			}
		}

		setupStorage(cfg)

		if err := cache.Init(cfg.RedisAddr, cfg.RedisEnabled, cfg.CacheTTL); err != nil {
			logger.Log.Warn("Redis unavailable, page cache disabled", zap.Error(err))
		}
		defer cache.Pages.Close()

		auth.ConfigureGoogle(cfg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go purgeExpiredTokens(ctx, time.Hour)

		app := server.New(db, server.Options{
			UploadDir:     cfg.UploadDir,
			PublicBaseURL: cfg.PublicBaseURL,
			RateLimit:     true,
		})

		go func() {
			<-ctx.Done()
			logger.Log.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				logger.Log.Error("Shutdown failed", zap.Error(err))
			}
		}()

		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerAddr),
			zap.String("storage", utils.GetStorageMode()),
			zap.Bool("cache", cache.Pages.Enabled()),
		)
		return app.Listen(cfg.ServerAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("skip-migrate", false, "Do not migrate or seed on start-up")
}

// setupStorage prefers S3 when configured and falls back to local disk.
func setupStorage(cfg *config.Config) {
	if err := utils.InitLocalStorage(cfg.UploadDir); err != nil {
		logger.Log.Error("Failed to initialize local storage", zap.Error(err))
	}

	if !cfg.UseS3 {
		utils.SetStorageMode(true)
		logger.Log.Info("Using local storage", zap.String("dir", cfg.UploadDir))
		return
	}
	if cfg.S3Bucket == "" || cfg.S3Region == "" {
		logger.Log.Warn("USE_S3=true but S3_BUCKET or S3_REGION not configured, falling back to local storage")
		utils.SetStorageMode(true)
		return
	}
	if err := utils.InitS3(cfg.S3Bucket, cfg.S3Region, cfg.CloudFrontURL); err != nil {
		logger.Log.Warn("S3 initialization failed, falling back to local storage", zap.Error(err))
		utils.SetStorageMode(true)
		return
	}
	logger.Log.Info("Using S3 storage", zap.String("bucket", cfg.S3Bucket), zap.String("region", cfg.S3Region))
}

func purgeExpiredTokens(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := utils.PurgeExpiredTokens(now)
			if err != nil {
				logger.Log.Warn("Refresh token cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("Cleaned up expired refresh tokens", zap.Int64("count", n))
			}
		}
	}
}
