package patient

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

// AdmissionGuard answers whether a patient currently has an undischarged
// stay. Set after wiring to break the patient <-> admission dependency loop.
type AdmissionGuard interface {
	HasActiveAdmission(ctx context.Context, patientID string) (bool, error)
}

type CreateRequest struct {
	FirstName  string
	LastName   string
	Gender     string
	BirthDate  dates.Date
	Phone      string
	Address    string
	BloodGroup string
}

type UpdateRequest struct {
	FirstName  *string
	LastName   *string
	Gender     *string
	BirthDate  *dates.Date
	Phone      *string
	Address    *string
	BloodGroup *string
}

type Service interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, req CreateRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, filter Filter) ([]*Patient, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Patient, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	SetAdmissionGuard(guard AdmissionGuard)
}

type service struct {
	repo  Repository
	clock clock.Clock
	guard AdmissionGuard

	mu      sync.RWMutex
	records []*Patient
	byID    map[string]*Patient
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		clock: clk,
		byID:  make(map[string]*Patient),
	}
}

// SetAdmissionGuard wires the bed ledger in after construction.
func (s *service) SetAdmissionGuard(guard AdmissionGuard) {
	s.guard = guard
}

func (s *service) Load(ctx context.Context) error {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.byID = make(map[string]*Patient, len(records))
	for _, p := range records {
		s.byID[p.ID] = p
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Patient, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperror.Validation("patient name cannot be empty")
	}

	now := s.clock.Now()
	p := &Patient{
		ID:         uuid.NewString(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		BirthDate:  req.BirthDate,
		Phone:      req.Phone,
		Address:    req.Address,
		BloodGroup: req.BloodGroup,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.records = append(s.records, p)
	s.byID[p.ID] = p
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.removeRecord(p.ID)
		return nil, err
	}
	return clone(p), nil
}

func (s *service) GetByID(_ context.Context, id string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (s *service) List(_ context.Context, filter Filter) ([]*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.Name))

	out := make([]*Patient, 0, len(s.records))
	for _, p := range s.records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.FirstName), needle) &&
			!strings.Contains(strings.ToLower(p.LastName), needle) {
			continue
		}
		out = append(out, clone(p))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Patient, error) {
	s.mu.Lock()
	p, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	rollback := clone(p)
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.BirthDate != nil {
		p.BirthDate = *req.BirthDate
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.BloodGroup != nil {
		p.BloodGroup = *req.BloodGroup
	}
	p.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.restoreRecord(id, rollback)
		return nil, err
	}
	return clone(p), nil
}

// Delete removes a registration. Refused while the patient still has an
// undischarged admission, so the ledger never points at a ghost.
func (s *service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	p, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	removed := clone(p)
	idx := s.indexOfLocked(id)
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	delete(s.byID, id)
	s.mu.Unlock()

	// The record is pulled from the index before the guard runs: a concurrent
	// admit either fails its directory lookup or has already recorded the
	// stay the guard sees here.
	if s.guard != nil {
		admitted, err := s.guard.HasActiveAdmission(ctx, id)
		if err != nil {
			s.insertRecord(removed, idx)
			return err
		}
		if admitted {
			s.insertRecord(removed, idx)
			return ErrAdmitted
		}
	}

	if err := s.persist(ctx); err != nil {
		s.insertRecord(removed, idx)
		return err
	}
	return nil
}

func (s *service) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byID[id]
	return ok, nil
}

func (s *service) persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make([]*Patient, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()

	if err := s.repo.ReplaceAll(ctx, snapshot); err != nil {
		return apperror.Wrap(err, "failed to persist patients")
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

func (s *service) restoreRecord(id string, prior *Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byID[id]; ok {
		*p = *prior
	}
}

func (s *service) insertRecord(p *Patient, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx > len(s.records) {
		idx = len(s.records)
	}
	s.records = append(s.records[:idx], append([]*Patient{p}, s.records[idx:]...)...)
	s.byID[p.ID] = p
}

func (s *service) indexOfLocked(id string) int {
	for i, p := range s.records {
		if p.ID == id {
			return i
		}
	}
	return -1
}
