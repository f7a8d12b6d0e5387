package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/promptcraft-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		log, err := app.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := app.Migrate(cmd.Context(), log, cfg); err != nil {
			log.Error("migration failed", "error", err)
			return err
		}
		log.Info("migrations applied", "driver", cfg.DB.Driver)
		return nil
	},
}
