package bootstrap

import (
	"context"
	"log/slog"

	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/store"
)

// Seeder loads reference data into the store.
type Seeder interface {
	Seed(ctx context.Context, st *store.Store) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc func(ctx context.Context, st *store.Store) error

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context, st *store.Store) error {
	return f(ctx, st)
}

// Modules groups optional bootstrapping hooks.
type Modules struct {
	Seeders []Seeder
}

// DefaultCatalog seeds the built-in offerings when the catalog is empty.
func DefaultCatalog() Seeder {
	return SeederFunc(func(ctx context.Context, st *store.Store) error {
		inserted, err := st.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		status := "skip"
		if inserted > 0 {
			status = "ok"
		}
		logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "seed.catalog",
			slog.String("status", status),
			slog.Int("count", inserted),
		)
		return nil
	})
}
