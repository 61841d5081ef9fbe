package patient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medifront/frontdesk-backend/internal/store"
)

type Repository interface {
	LoadAll(ctx context.Context) ([]*Patient, error)
	ReplaceAll(ctx context.Context, records []*Patient) error
}

type snapshotRepository struct {
	store store.Store
}

// NewSnapshotRepository persists patients through the snapshot store under
// the "patients" kind.
func NewSnapshotRepository(s store.Store) Repository {
	return &snapshotRepository{store: s}
}

func (r *snapshotRepository) LoadAll(ctx context.Context) ([]*Patient, error) {
	raw, err := r.store.LoadAll(ctx, store.KindPatients)
	if err != nil {
		return nil, fmt.Errorf("load patients failed: %w", err)
	}

	records := make([]*Patient, 0, len(raw))
	for _, doc := range raw {
		var p Patient
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode patient record failed: %w", err)
		}
		records = append(records, &p)
	}
	return records, nil
}

func (r *snapshotRepository) ReplaceAll(ctx context.Context, records []*Patient) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, p := range records {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode patient record failed: %w", err)
		}
		raw = append(raw, doc)
	}

	if err := r.store.SaveAll(ctx, store.KindPatients, raw); err != nil {
		return fmt.Errorf("save patients failed: %w", err)
	}
	return nil
}
