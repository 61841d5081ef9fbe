package labtest

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

// PatientDirectory is the slice of the patient module the tracker needs.
type PatientDirectory interface {
	Exists(ctx context.Context, patientID string) (bool, error)
}

type OrderRequest struct {
	PatientID string
	TestName  string
	Notes     string
}

type Service interface {
	Load(ctx context.Context) error
	Order(ctx context.Context, req OrderRequest) (*LabTest, error)
	GetByID(ctx context.Context, id string) (*LabTest, error)
	List(ctx context.Context, filter Filter) ([]*LabTest, error)
	SetStatus(ctx context.Context, id string, status Status) (*LabTest, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	patients PatientDirectory
	clock    clock.Clock

	mu      sync.RWMutex
	records []*LabTest
	byID    map[string]*LabTest
}

func NewService(repo Repository, patients PatientDirectory, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		patients: patients,
		clock:    clk,
		byID:     make(map[string]*LabTest),
	}
}

func (s *service) Load(ctx context.Context) error {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.byID = make(map[string]*LabTest, len(records))
	for _, t := range records {
		s.byID[t.ID] = t
	}
	return nil
}

func (s *service) Order(ctx context.Context, req OrderRequest) (*LabTest, error) {
	if strings.TrimSpace(req.TestName) == "" {
		return nil, apperror.Validation("test name cannot be empty")
	}
	if s.patients != nil {
		known, err := s.patients.Exists(ctx, req.PatientID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, ErrPatientNotFound
		}
	}

	now := s.clock.Now()
	t := &LabTest{
		ID:        uuid.NewString(),
		PatientID: req.PatientID,
		TestName:  req.TestName,
		OrderedOn: dates.FromTime(now),
		Status:    StatusOrdered,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.records = append(s.records, t)
	s.byID[t.ID] = t
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.removeRecord(t.ID)
		return nil, err
	}
	return clone(t), nil
}

func (s *service) GetByID(_ context.Context, id string) (*LabTest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(t), nil
}

func (s *service) List(_ context.Context, filter Filter) ([]*LabTest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*LabTest, 0, len(s.records))
	for _, t := range s.records {
		if filter.PatientID != "" && t.PatientID != filter.PatientID {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		out = append(out, clone(t))
	}
	return out, nil
}

// SetStatus advances the workflow. Moving backward or out of Completed is an
// invalid transition; skipping SampleCollected is allowed.
func (s *service) SetStatus(ctx context.Context, id string, status Status) (*LabTest, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if statusRank[status] <= statusRank[t.Status] {
		s.mu.Unlock()
		return nil, ErrStatusBackward
	}

	rollback := clone(t)
	t.Status = status
	t.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.restoreRecord(id, rollback)
		return nil, err
	}
	return clone(t), nil
}

// Delete hard-removes a record; only completed tests may go.
func (s *service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if t.Status != StatusCompleted {
		s.mu.Unlock()
		return ErrNotCompleted
	}

	removed := clone(t)
	idx := s.indexOfLocked(id)
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	delete(s.byID, id)
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.insertRecord(removed, idx)
		return err
	}
	return nil
}

func (s *service) persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make([]*LabTest, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()

	if err := s.repo.ReplaceAll(ctx, snapshot); err != nil {
		return apperror.Wrap(err, "failed to persist lab tests")
	}
	return nil
}

func (s *service) removeRecord(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOfLocked(id); idx >= 0 {
		s.records = append(s.records[:idx], s.records[idx+1:]...)
	}
	delete(s.byID, id)
}

func (s *service) restoreRecord(id string, prior *LabTest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.byID[id]; ok {
		*t = *prior
	}
}

func (s *service) insertRecord(t *LabTest, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx > len(s.records) {
		idx = len(s.records)
	}
	s.records = append(s.records[:idx], append([]*LabTest{t}, s.records[idx:]...)...)
	s.byID[t.ID] = t
}

func (s *service) indexOfLocked(id string) int {
	for i, t := range s.records {
		if t.ID == id {
			return i
		}
	}
	return -1
}
