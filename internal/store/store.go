// Package store is the persistence boundary of the front desk. Every record
// collection is read and written as a whole snapshot: LoadAll returns the full
// collection, SaveAll atomically replaces it. There are no partial writes and
// no cross-kind transactions, so the domain services perform their
// check-then-act under their own per-resource locks and hand the store a fully
// decided state.
package store

import (
	"context"
	"encoding/json"
)

// Kind names a record collection.
type Kind string

const (
	KindAdmissions   Kind = "admissions"
	KindAppointments Kind = "appointments"
	KindPatients     Kind = "patients"
	KindLabTests     Kind = "labtests"
)

// Store is the snapshot persistence collaborator.
type Store interface {
	// LoadAll returns every record of the kind, in the order they were saved.
	// An unknown or never-written kind yields an empty slice, not an error.
	LoadAll(ctx context.Context, kind Kind) ([]json.RawMessage, error)

	// SaveAll replaces the whole collection in one atomic write.
	SaveAll(ctx context.Context, kind Kind, records []json.RawMessage) error
}
