// Package bootstrap brings up the infrastructure every bot process needs before it serves updates.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/ghostproxy/core/config"
	coredatabase "github.com/m3rciful/ghostproxy/core/database"
	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/store"
)

// Options control the bootstrap pipeline. Nil hooks use the package defaults.
type Options struct {
	Config  *coreconfig.Config
	Modules Modules

	LoggerInit func(logger.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB    *sqlx.DB
	Store *store.Store
}

// Close releases the database pool.
func (r *Result) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// Run initializes the logger, applies migrations, connects to the database and runs the seeders.
// Any failure is fatal to the process: the caller must not serve updates without a working store.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.Init
	}
	if err := loggerInit(opts.Config.Logging); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	dbCfg := opts.Config.Database
	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(dbCfg); err != nil {
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	st := store.New(db)
	if err := st.Ping(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("bootstrap: database unreachable: %w", err)
	}

	for i, seeder := range opts.Modules.Seeders {
		if seeder == nil {
			continue
		}
		if err := seeder.Seed(ctx, st); err != nil {
			_ = st.Close()
			logger.SEED.Error("seed failed",
				slog.String("event", "seed"),
				slog.Int("seeder", i),
				slog.String("err", err.Error()),
			)
			return nil, fmt.Errorf("bootstrap: seeder %d failed: %w", i, err)
		}
	}

	return &Result{DB: db, Store: st}, nil
}
