package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hannesill/oasis/internal/analysis"
)

var (
	countCondition string
	countRegion    string
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count facilities with a per-region breakdown",
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

		result, err := engine.Count(ctx, analysis.CountParams{
			Condition: countCondition,
			Region:    countRegion,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	countCmd.Flags().StringVar(&countCondition, "condition", "", "filter by condition, specialty, or procedure")
	countCmd.Flags().StringVar(&countRegion, "region", "", "restrict to one region")
	rootCmd.AddCommand(countCmd)
}
