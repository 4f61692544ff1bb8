package store

import (
	"errors"
	"strings"
)

var (
	// ErrStore matches every failure of the underlying storage.
	ErrStore = errors.New("store failure")
	// ErrNegativePurchases rejects purchase counts below zero.
	ErrNegativePurchases = errors.New("purchases must not be negative")
)

// Error wraps a storage failure with the operation that hit it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both ErrStore and the driver cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

// Code classifies the failure for handler summary logs.
func (e *Error) Code() string {
	if IsConflict(e.Err) {
		return "STORE_BUSY"
	}
	return "STORE_ERROR"
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// IsConflict reports SQLite lock contention (SQLITE_BUSY or "database is locked").
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
