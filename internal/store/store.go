// Package store handles persistence of study records.
package store

import (
	"context"
	"fmt"

	"hallway/internal/model"
)

// Backend names accepted in configuration.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

// Store appends and reads back study records. Reads return records in
// insertion order; limit <= 0 means unbounded.
type Store interface {
	AppendConsent(ctx context.Context, rec model.ConsentRecord) error
	AppendDemographic(ctx context.Context, rec model.DemographicRecord) error
	AppendTask(ctx context.Context, rec model.TaskRecord) error
	AppendExit(ctx context.Context, rec model.ExitRecord) error

	Consents(ctx context.Context, limit int) ([]model.ConsentRecord, error)
	Demographics(ctx context.Context, limit int) ([]model.DemographicRecord, error)
	Tasks(ctx context.Context, limit int) ([]model.TaskRecord, error)
	Exits(ctx context.Context, limit int) ([]model.ExitRecord, error)

	Close() error
}

// Options selects and locates a storage backend.
type Options struct {
	Backend string
	DBPath  string // SQLite database file
	Dir     string // CSV data directory
}

// Open opens the configured backend, creating tables or files with
// their fixed column sets as needed.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return OpenSQLite(opts.DBPath)
	case BackendCSV:
		return OpenCSV(opts.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %q or %q)", opts.Backend, BackendSQLite, BackendCSV)
	}
}
