package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hannesill/oasis/internal/analysis"
)

var (
	radiusLocation  string
	radiusKM        float64
	radiusCondition string
	radiusLimit     int
)

var radiusCmd = &cobra.Command{
	Use:   "radius",
	Short: "Find facilities within a radius of a location",
	Long:  "Resolves the location through the gazetteer (or accepts \"lat,lng\") and lists matching facilities within the radius, closest first.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("query"); err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		engine, err := newEngine(store)
		if err != nil {
			return err
		}

		result, err := engine.Proximity(ctx, analysis.ProximityParams{
			Location:  radiusLocation,
			RadiusKM:  radiusKM,
			Condition: radiusCondition,
			Limit:     radiusLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	radiusCmd.Flags().StringVar(&radiusLocation, "location", "Accra", "city, landmark, or \"lat,lng\"")
	radiusCmd.Flags().Float64Var(&radiusKM, "radius", 50, "search radius in km")
	radiusCmd.Flags().StringVar(&radiusCondition, "condition", "", "filter by condition, specialty, or procedure")
	radiusCmd.Flags().IntVar(&radiusLimit, "limit", 20, "max facilities to return")
	rootCmd.AddCommand(radiusCmd)
}
