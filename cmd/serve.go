package cmd

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/matheuskafuri/newstalk/internal/config"
	"github.com/matheuskafuri/newstalk/internal/relay"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed relay server",
	Long: `Start the HTTP relay that fetches and normalizes feeds on behalf of
clients that cannot fetch cross-origin, and serves the marquee keyword
list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		srv := relay.NewServer(cfg.KeywordsPath())
		router := srv.Router(cfg.Relay.AllowedOrigins)

		slog.Info("relay listening", "addr", cfg.RelayListen())
		if err := router.Run(cfg.RelayListen()); err != nil {
			return fmt.Errorf("starting relay: %w", err)
		}
		return nil
	},
}
