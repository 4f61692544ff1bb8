//go:build integration

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Requires TEST_DATABASE_HOST pointing at a disposable PostgreSQL instance.
func TestPostgresMigrateAndConnect(t *testing.T) {
	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	cfg := Config{
		Driver:   DriverPostgres,
		Host:     host,
		Port:     os.Getenv("TEST_DATABASE_PORT"),
		User:     os.Getenv("TEST_DATABASE_USER"),
		Password: os.Getenv("TEST_DATABASE_PASSWORD"),
		Name:     os.Getenv("TEST_DATABASE_NAME"),
	}
	require.NoError(t, cfg.Normalize())
	require.NoError(t, WaitForPostgres(cfg.DSN(), 10*time.Second))
	require.NoError(t, RunMigrations(cfg))

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var id int64
	require.NoError(t, db.QueryRowxContext(ctx,
		`INSERT INTO proxies (name, "desc", price, msg) VALUES ($1, $2, $3, $4) RETURNING id`,
		"n", "d", "p", "m").Scan(&id))
	_, err = db.ExecContext(ctx, `DELETE FROM proxies WHERE id = $1`, id)
	require.NoError(t, err)
}
