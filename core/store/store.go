// Package store persists storefront users and catalog offerings.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/ghostproxy/core/logger"
)

// Store is the catalog/user store shared by every conversation handler.
// Each mutation is a single statement; writes are serialized by writeMu.
type Store struct {
	db      *sqlx.DB
	writeMu sync.Mutex
}

// New wraps an open, migrated database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertUser inserts the user on first contact and reports whether a row was created.
// Existing rows, including the stored display name, are left untouched.
func (s *Store) UpsertUser(ctx context.Context, id int64, displayName string) (bool, error) {
	name := sql.NullString{String: displayName, Valid: displayName != ""}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO users (user_id, username) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING`),
		id, name,
	)
	if err != nil {
		return false, wrap("upsert user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("upsert user", err)
	}
	if n > 0 {
		logger.LogEvent(ctx, logger.Store, slog.LevelInfo, "user.registered",
			slog.Int64("user_id", id),
		)
	}
	return n > 0, nil
}

// GetUser returns the full user row, or nil when unknown.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(
		`SELECT user_id, username, reg_date, purchases FROM users WHERE user_id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get user", err)
	}
	return &u, nil
}

// GetUserInfo returns registration date and purchase count, or nil when unknown.
func (s *Store) GetUserInfo(ctx context.Context, id int64) (*UserInfo, error) {
	var info UserInfo
	err := s.db.GetContext(ctx, &info, s.db.Rebind(
		`SELECT reg_date, purchases FROM users WHERE user_id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get user info", err)
	}
	return &info, nil
}

// SetPurchases overwrites the purchase count of an existing user.
// It reports false and writes nothing when the user does not exist.
func (s *Store) SetPurchases(ctx context.Context, id int64, count int) (bool, error) {
	if count < 0 {
		return false, ErrNegativePurchases
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE users SET purchases = ? WHERE user_id = ?`), count, id)
	if err != nil {
		return false, wrap("set purchases", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("set purchases", err)
	}
	return n > 0, nil
}

// AddOffering appends an offering and returns its assigned id.
func (s *Store) AddOffering(ctx context.Context, in OfferingInput) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`INSERT INTO proxies (name, "desc", price, msg) VALUES (?, ?, ?, ?) RETURNING id`),
		in.Name, in.Description, in.Price, in.ContactMessage,
	).Scan(&id)
	if err != nil {
		return 0, wrap("add offering", err)
	}
	logger.LogEvent(ctx, logger.Store, slog.LevelInfo, "offering.added",
		slog.Int64("offering_id", id),
	)
	return id, nil
}

// DeleteOffering removes an offering by id and reports whether it existed.
func (s *Store) DeleteOffering(ctx context.Context, id int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM proxies WHERE id = ?`), id)
	if err != nil {
		return false, wrap("delete offering", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("delete offering", err)
	}
	if n > 0 {
		logger.LogEvent(ctx, logger.Store, slog.LevelInfo, "offering.deleted",
			slog.Int64("offering_id", id),
		)
	}
	return n > 0, nil
}

// ListOfferings returns every offering in insertion order.
func (s *Store) ListOfferings(ctx context.Context) ([]Offering, error) {
	var out []Offering
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, "desc", price, msg FROM proxies ORDER BY id`); err != nil {
		return nil, wrap("list offerings", err)
	}
	return out, nil
}

// GetOffering returns one offering, or nil when absent.
func (s *Store) GetOffering(ctx context.Context, id int64) (*Offering, error) {
	var o Offering
	err := s.db.GetContext(ctx, &o, s.db.Rebind(
		`SELECT id, name, "desc", price, msg FROM proxies WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get offering", err)
	}
	return &o, nil
}

// CountOfferings returns the catalog size.
func (s *Store) CountOfferings(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM proxies`); err != nil {
		return 0, wrap("count offerings", err)
	}
	return n, nil
}

// SeedDefaults fills an empty catalog with DefaultOfferings and returns how many rows it inserted.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, wrap("seed offerings", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM proxies`); err != nil {
		return 0, wrap("seed offerings", err)
	}
	if n > 0 {
		return 0, nil
	}
	insert := tx.Rebind(`INSERT INTO proxies (name, "desc", price, msg) VALUES (?, ?, ?, ?)`)
	for _, o := range DefaultOfferings {
		if _, err := tx.ExecContext(ctx, insert, o.Name, o.Description, o.Price, o.ContactMessage); err != nil {
			return 0, wrap("seed offerings", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, wrap("seed offerings", err)
	}
	return len(DefaultOfferings), nil
}
