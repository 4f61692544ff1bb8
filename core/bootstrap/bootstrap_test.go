package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/ghostproxy/core/config"
	coredatabase "github.com/m3rciful/ghostproxy/core/database"
	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/store"
)

func testConfig(t *testing.T) *coreconfig.Config {
	t.Helper()
	cfg := &coreconfig.Config{}
	cfg.Database = coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: filepath.Join(t.TempDir(), "boot.db")}
	return cfg
}

func noLogger(logger.Config) error { return nil }

func TestRunSeedsCatalog(t *testing.T) {
	ctx := context.Background()
	res, err := Run(ctx, Options{
		Config:     testConfig(t),
		Modules:    Modules{Seeders: []Seeder{DefaultCatalog(), nil}},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	n, err := res.Store.CountOfferings(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(store.DefaultOfferings), n)

	require.NoError(t, DefaultCatalog().Seed(ctx, res.Store))
	n, err = res.Store.CountOfferings(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(store.DefaultOfferings), n, "seeding a populated catalog is a no-op")
}

func TestRunNilConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRunStopsOnFailures(t *testing.T) {
	boom := errors.New("boom")

	_, err := Run(context.Background(), Options{
		Config:     testConfig(t),
		LoggerInit: func(logger.Config) error { return boom },
	})
	assert.ErrorIs(t, err, boom)

	connected := false
	_, err = Run(context.Background(), Options{
		Config:     testConfig(t),
		LoggerInit: noLogger,
		Migrate:    func(coredatabase.Config) error { return boom },
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return nil, nil
		},
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, connected, "no connection is opened when migrations fail")

	_, err = Run(context.Background(), Options{
		Config:     testConfig(t),
		LoggerInit: noLogger,
		Connect:    func(coredatabase.Config) (*sqlx.DB, error) { return nil, boom },
	})
	assert.ErrorIs(t, err, boom)

	_, err = Run(context.Background(), Options{
		Config:     testConfig(t),
		LoggerInit: noLogger,
		Modules: Modules{Seeders: []Seeder{SeederFunc(func(context.Context, *store.Store) error {
			return boom
		})}},
	})
	assert.ErrorIs(t, err, boom)
}
