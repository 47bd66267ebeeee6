package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hannesill/oasis/internal/analysis"
)

var (
	exportRegion string
	exportType   string
	exportSpread bool
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export facilities as GeoJSON for map display",
	Long:  "Renders positioned facilities as a GeoJSON FeatureCollection. Facilities without coordinates fall back to their city or region center; --spread fans out stacked markers.",
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

		result, err := engine.Export(ctx, analysis.ExportParams{
			Region:       exportRegion,
			FacilityType: exportType,
			Spread:       exportSpread,
		})
		if err != nil {
			return err
		}

		if exportOut == "" {
			return printJSON(result.GeoJSON)
		}

		out, err := json.Marshal(result.GeoJSON)
		if err != nil {
			return eris.Wrap(err, "marshal geojson")
		}
		if err := os.WriteFile(exportOut, out, 0o644); err != nil {
			return eris.Wrap(err, "write geojson")
		}

		zap.L().Info("export complete",
			zap.String("path", exportOut),
			zap.Int("geocoded", result.TotalGeocoded),
			zap.Int("not_geocoded", result.TotalNotGeocoded),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRegion, "region", "", "restrict to one region")
	exportCmd.Flags().StringVar(&exportType, "type", "", "restrict to one facility type")
	exportCmd.Flags().BoolVar(&exportSpread, "spread", false, "fan out markers sharing identical coordinates")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
