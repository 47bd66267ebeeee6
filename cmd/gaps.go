package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hannesill/oasis/internal/analysis"
)

var (
	gapsSpecialty string
	gapsMinKM     float64
	gapsRegion    string
	gapsLimit     int
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Find coverage gaps for a service",
	Long:  "Sweeps a grid over Ghana (or one region) and reports areas whose nearest facility offering the service is too far away, worst first.",
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

		result, err := engine.CoverageGaps(ctx, analysis.GapParams{
			ProcedureOrSpecialty: gapsSpecialty,
			MinGapKM:             gapsMinKM,
			Region:               gapsRegion,
			Limit:                gapsLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	gapsCmd.Flags().StringVar(&gapsSpecialty, "specialty", "", "procedure or specialty to check (required)")
	gapsCmd.Flags().Float64Var(&gapsMinKM, "min-gap", 50, "minimum distance in km for an area to count as a gap")
	gapsCmd.Flags().StringVar(&gapsRegion, "region", "", "restrict to one region")
	gapsCmd.Flags().IntVar(&gapsLimit, "limit", 10, "max gaps to return")
	_ = gapsCmd.MarkFlagRequired("specialty")
	rootCmd.AddCommand(gapsCmd)
}
