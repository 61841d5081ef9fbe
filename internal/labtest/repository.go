package labtest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medifront/frontdesk-backend/internal/store"
)

type Repository interface {
	LoadAll(ctx context.Context) ([]*LabTest, error)
	ReplaceAll(ctx context.Context, records []*LabTest) error
}

type snapshotRepository struct {
	store store.Store
}

// NewSnapshotRepository persists lab tests through the snapshot store under
// the "labtests" kind.
func NewSnapshotRepository(s store.Store) Repository {
	return &snapshotRepository{store: s}
}

func (r *snapshotRepository) LoadAll(ctx context.Context) ([]*LabTest, error) {
	raw, err := r.store.LoadAll(ctx, store.KindLabTests)
	if err != nil {
		return nil, fmt.Errorf("load lab tests failed: %w", err)
	}

	records := make([]*LabTest, 0, len(raw))
	for _, doc := range raw {
		var t LabTest
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("decode lab test record failed: %w", err)
		}
		records = append(records, &t)
	}
	return records, nil
}

func (r *snapshotRepository) ReplaceAll(ctx context.Context, records []*LabTest) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, t := range records {
		doc, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode lab test record failed: %w", err)
		}
		raw = append(raw, doc)
	}

	if err := r.store.SaveAll(ctx, store.KindLabTests, raw); err != nil {
		return fmt.Errorf("save lab tests failed: %w", err)
	}
	return nil
}
