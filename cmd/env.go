package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/hannesill/oasis/internal/analysis"
	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/gazetteer"
)

// openStore opens the configured facility store and runs migrations.
func openStore(ctx context.Context) (facility.Store, error) {
	var (
		store facility.Store
		err   error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		store, err = facility.NewSQLite(cfg.Store.Path)
	case "postgres":
		store, err = facility.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// newEngine builds the analysis engine over the store and the embedded
// gazetteer.
func newEngine(store facility.Store) (*analysis.Engine, error) {
	gaz, err := gazetteer.Load()
	if err != nil {
		return nil, err
	}
	return analysis.New(store, gaz, analysis.WithGridStep(cfg.Analysis.GridStepDeg)), nil
}

// printJSON renders a query result to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal result")
	}
	fmt.Println(string(out))
	return nil
}
