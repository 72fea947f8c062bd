package database

import (
	"context"
)

// RecordReader provides read-only access to records
type RecordReader interface {
	// Lookup returns the record whose normalized name matches name, or ErrRecordNotFound
	Lookup(ctx context.Context, name string) (*Record, error)
	// Count returns the total number of records stored
	Count(ctx context.Context) (int, error)
}

// RecordWriter provides write access to records
type RecordWriter interface {
	RecordReader

	// Create stores a new record and returns its ID. Names are unique after
	// normalization; a second record for the same name yields ErrDuplicateRecord.
	Create(ctx context.Context, r *Record) (int64, error)

	// Delete removes the record for name, or returns ErrRecordNotFound
	Delete(ctx context.Context, name string) error
}

// RecordStore is a RecordWriter backed by a connection that must be closed
type RecordStore interface {
	RecordWriter
	Close() error
}
