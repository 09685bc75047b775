package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/config"
	"github.com/wallofhumanity/backend/internal/database"
	"github.com/wallofhumanity/backend/internal/logging"
	"github.com/wallofhumanity/backend/internal/service"
)

type bootEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// boot loads config, builds the logger and opens the database connection.
func boot() (*bootEnv, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return nil, err
	}
	return &bootEnv{cfg: cfg, logger: logger, db: db}, nil
}

func (e *bootEnv) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.logger.Sync()
}

// wallofhumanity migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := boot()
		if err != nil {
			return err
		}
		defer env.close()

		if err := database.Migrate(env.db); err != nil {
			return err
		}
		env.logger.Info("migrations applied")
		return nil
	},
}

var adminName, adminEmail, adminPassword string

// wallofhumanity create-admin
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := boot()
		if err != nil {
			return err
		}
		defer env.close()

		if err := database.Migrate(env.db); err != nil {
			return err
		}
		auth := service.NewAuthService(service.Deps{DB: env.db, Logger: env.logger}, env.cfg.JWTSecret)
		user, err := auth.CreateAdmin(cmd.Context(), adminName, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "account email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password for a new account")
	_ = createAdminCmd.MarkFlagRequired("email")
}
