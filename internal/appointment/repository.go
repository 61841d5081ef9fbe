package appointment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medifront/frontdesk-backend/internal/store"
)

type Repository interface {
	LoadAll(ctx context.Context) ([]*Appointment, error)
	ReplaceAll(ctx context.Context, records []*Appointment) error
}

type snapshotRepository struct {
	store store.Store
}

// NewSnapshotRepository persists appointments through the snapshot store
// under the "appointments" kind.
func NewSnapshotRepository(s store.Store) Repository {
	return &snapshotRepository{store: s}
}

func (r *snapshotRepository) LoadAll(ctx context.Context) ([]*Appointment, error) {
	raw, err := r.store.LoadAll(ctx, store.KindAppointments)
	if err != nil {
		return nil, fmt.Errorf("load appointments failed: %w", err)
	}

	records := make([]*Appointment, 0, len(raw))
	for _, doc := range raw {
		var a Appointment
		if err := json.Unmarshal(doc, &a); err != nil {
			return nil, fmt.Errorf("decode appointment record failed: %w", err)
		}
		records = append(records, &a)
	}
	return records, nil
}

func (r *snapshotRepository) ReplaceAll(ctx context.Context, records []*Appointment) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, a := range records {
		doc, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode appointment record failed: %w", err)
		}
		raw = append(raw, doc)
	}

	if err := r.store.SaveAll(ctx, store.KindAppointments, raw); err != nil {
		return fmt.Errorf("save appointments failed: %w", err)
	}
	return nil
}
