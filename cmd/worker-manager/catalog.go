// cmd/worker-manager/catalog.go
package main

import (
	"fmt"

	"visa-workers/internal/common/config"
	"visa-workers/internal/common/database"
	"visa-workers/internal/common/metrics"
	"visa-workers/internal/visa"
)

// buildSource picks the catalog source named in config. pg is only used,
// and must only be non-nil, for the postgres source.
func buildSource(cfg *config.Config, pg *database.PostgresClient) (visa.RuleSource, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceStatic:
		return visa.NewStaticSource(nil), nil
	case config.CatalogSourceFile:
		return visa.NewFileSource(cfg.Catalog.Path), nil
	case config.CatalogSourcePostgres:
		if pg == nil {
			return nil, fmt.Errorf("postgres catalog source needs a database connection")
		}
		return visa.NewPostgresSource(pg.GetDB()), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
}

func recordReload(snap *visa.Snapshot) {
	metrics.CatalogRules.Set(float64(len(snap.Rules())))
}
