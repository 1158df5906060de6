package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRegistered means an insert hit a uniqueness constraint.
	ErrRegistered = errors.New("already registered")
)

// NotFound wraps ErrNotFound with the key that missed.
func NotFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Registered wraps ErrRegistered with the conflicting key.
func Registered(key string) error {
	return fmt.Errorf("%w: %s", ErrRegistered, key)
}

// IsNotFound reports whether err classifies as a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRegistered reports whether err classifies as a uniqueness violation.
func IsRegistered(err error) bool {
	return errors.Is(err, ErrRegistered)
}

// IsUniqueViolation detects a store-level uniqueness rejection. GORM's
// sqlite driver translates these to ErrDuplicatedKey, but raw statements can
// still surface the driver error, so both are checked.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
