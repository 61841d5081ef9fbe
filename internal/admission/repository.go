package admission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medifront/frontdesk-backend/internal/store"
)

type Repository interface {
	LoadAll(ctx context.Context) ([]*Admission, error)
	ReplaceAll(ctx context.Context, records []*Admission) error
}

type snapshotRepository struct {
	store store.Store
}

// NewSnapshotRepository persists admissions through the snapshot store under
// the "admissions" kind.
func NewSnapshotRepository(s store.Store) Repository {
	return &snapshotRepository{store: s}
}

func (r *snapshotRepository) LoadAll(ctx context.Context) ([]*Admission, error) {
	raw, err := r.store.LoadAll(ctx, store.KindAdmissions)
	if err != nil {
		return nil, fmt.Errorf("load admissions failed: %w", err)
	}

	records := make([]*Admission, 0, len(raw))
	for _, doc := range raw {
		var a Admission
		if err := json.Unmarshal(doc, &a); err != nil {
			return nil, fmt.Errorf("decode admission record failed: %w", err)
		}
		records = append(records, &a)
	}
	return records, nil
}

func (r *snapshotRepository) ReplaceAll(ctx context.Context, records []*Admission) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, a := range records {
		doc, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode admission record failed: %w", err)
		}
		raw = append(raw, doc)
	}

	if err := r.store.SaveAll(ctx, store.KindAdmissions, raw); err != nil {
		return fmt.Errorf("save admissions failed: %w", err)
	}
	return nil
}
