package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/promptcraft-backend/internal/app"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP API",
	Long: `Start the Promptcraft HTTP API.

Migrations run first. The server shuts down gracefully on SIGINT/SIGTERM.

Examples:
  promptcraft serve                 # listen on $PORT (default 8080)
  promptcraft serve --port 3000     # override the port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := app.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		cfg.Version = GitRelease
		cfg.Otel.Version = GitRelease
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := app.NewLogger(cfg)
		if err != nil {
			return err
		}
		a, err := app.New(ctx, log, cfg)
		if err != nil {
			log.Error("startup failed", "error", err)
			log.Sync()
			return err
		}
		defer a.Close()

		return a.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (overrides PORT)")
}
