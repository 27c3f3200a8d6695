package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-assistant/internal/shared/config"
	"resume-assistant/internal/shared/storage/db"
	"resume-assistant/internal/shared/telemetry"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ctx := cmd.Context()

		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer sqlDB.Close()

		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		telemetry.Info("migrate.done", nil)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
