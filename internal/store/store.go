package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrClosed   = errors.New("store closed")
)

// Store provides CRUD access to catalog records.
type Store interface {
	// Save inserts the record, assigning an ID when it has none, or replaces
	// the stored document with the same ID.
	Save(ctx context.Context, rec *Record) (*Record, error)

	// FindByID returns ErrNotFound when no record has the given ID.
	FindByID(ctx context.Context, id string) (*Record, error)

	// FindAll returns every record.
	FindAll(ctx context.Context) ([]Record, error)

	// FindByYear returns the records released in the given year.
	FindByYear(ctx context.Context, year int) ([]Record, error)

	// FindByName returns the first record with an exact name match.
	FindByName(ctx context.Context, name string) (*Record, error)

	// DeleteByID returns ErrNotFound when no record has the given ID.
	DeleteByID(ctx context.Context, id string) error

	// Close releases any resources
	Close() error
}

func newID() string {
	return uuid.NewString()
}
