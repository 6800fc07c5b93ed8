package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is; everything else is treated as an internal failure.
var (
	ErrDuplicate          = errors.New("identifier already exists")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrUnknownBatch       = errors.New("unknown batch")
	ErrEmptyBatch         = errors.New("batch has no items")
	ErrUnknownLocation    = errors.New("unknown location")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreNotFound      = errors.New("store not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// duplicateOr maps a unique-constraint violation raised by the database into
// ErrDuplicate so a concurrent insert that slipped past the existence check
// is reported the same way as one caught by it.
func duplicateOr(err error, what, id string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s %s", ErrDuplicate, what, id)
	}
	return err
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
