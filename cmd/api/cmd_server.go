package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wallofhumanity/backend/internal/database"
	"github.com/wallofhumanity/backend/internal/server"
)

// wallofhumanity serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, err := boot()
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	if err := database.Migrate(env.db); err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), env.cfg, env.db, env.logger)
	if err != nil {
		env.logger.Error("failed to build server", zap.Error(err))
		return err
	}
	return srv.Run(cmd.Context())
}
