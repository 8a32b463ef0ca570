package main

import (
	"context"
	"fmt"

	"lion-connect-backend/config"
	"lion-connect-backend/pkg/database"
	"lion-connect-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "lion-connect",
	Short:         "Lion Connect backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Bare invocation starts the API server
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("skip-migrations", false, "do not apply pending migrations on startup")
}

// bootstrap loads config, initialises the logger and opens the database pool.
func bootstrap(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Setup Logger
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	// 3. Setup Database
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", zap.Error(err))
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	return cfg, pool, nil
}
