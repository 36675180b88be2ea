package main

import (
	"fmt"

	"cinelist/internal/database"
	"cinelist/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}

		pool, err := database.Open(cmd.Context(), cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		return database.Migrate(cmd.Context(), pool, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
