package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hannesill/oasis/internal/ingest"
	"github.com/hannesill/oasis/pkg/geocode"
)

var geocodeConcurrency int

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocode unresolved facilities via Google",
	Long:  "Builds candidate address queries for every unresolved facility and runs them through the Google Geocoding API, persisting the best hit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("geocode"); err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		provider := geocode.NewGoogleProvider(cfg.Geocode.GoogleAPIKey,
			geocode.WithRateLimit(cfg.Geocode.RateLimitRPS),
		)

		concurrency := geocodeConcurrency
		if concurrency == 0 {
			concurrency = cfg.Geocode.Concurrency
		}

		stats, err := ingest.NewRunner(store, provider, ingest.WithConcurrency(concurrency)).Run(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("geocode complete",
			zap.Int("total", stats.Total),
			zap.Int("precise", stats.Precise),
			zap.Int("approximate", stats.Approximate),
			zap.Int("errors", stats.Errors),
		)
		return nil
	},
}

func init() {
	geocodeCmd.Flags().IntVar(&geocodeConcurrency, "concurrency", 0, "parallel geocode requests (default from config)")
	rootCmd.AddCommand(geocodeCmd)
}
