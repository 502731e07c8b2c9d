package main

import (
	"github.com/Kyz7/landing/internal/auth"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/role"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		return migrate(cfg, db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the default roles and, when ADMIN_EMAIL is set, an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := role.SeedDefaultRoles(db); err != nil {
			return err
		}
		logger.Log.Info("Default roles seeded")

		if cfg.AdminEmail == "" {
			return nil
		}
		if cfg.AdminPassword == "" {
			return errors.New("ADMIN_PASSWORD is required with ADMIN_EMAIL")
		}

		companyID, _ := cmd.Flags().GetUint("company")
		user, err := auth.RegisterUser(companyID, "Administrator", cfg.AdminEmail, cfg.AdminPassword, role.Admin)
		if errors.Is(err, auth.ErrEmailTaken) {
			logger.Log.Info("Admin account already exists", zap.String("email", cfg.AdminEmail))
			return nil
		}
		if err != nil {
			return err
		}
		logger.Log.Info("Admin account created", zap.Uint("id", user.ID), zap.Uint("company_id", companyID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd)
	seedCmd.Flags().Uint("company", 1, "Company the admin account belongs to")
}
