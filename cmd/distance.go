package main

import (
	"github.com/spf13/cobra"

	"github.com/hannesill/oasis/internal/analysis"
)

var (
	distanceFrom string
	distanceTo   string
)

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Great-circle distance between two locations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("query"); err != nil {
			return err
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		engine, err := newEngine(store)
		if err != nil {
			return err
		}

		result, err := engine.Distance(analysis.DistanceParams{From: distanceFrom, To: distanceTo})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	distanceCmd.Flags().StringVar(&distanceFrom, "from", "", "origin city, landmark, or \"lat,lng\" (required)")
	distanceCmd.Flags().StringVar(&distanceTo, "to", "", "destination city, landmark, or \"lat,lng\" (required)")
	_ = distanceCmd.MarkFlagRequired("from")
	_ = distanceCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(distanceCmd)
}
