package admission

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/medifront/frontdesk-backend/internal/allocator"
	"github.com/medifront/frontdesk-backend/internal/bedpool"
	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/pkg/keymutex"
)

// PatientDirectory is the slice of the patient module the ledger needs.
type PatientDirectory interface {
	Exists(ctx context.Context, patientID string) (bool, error)
}

type AdmitRequest struct {
	PatientID string
	BedNo     string
	FromDate  dates.Date
	ToDate    *dates.Date
	Ailment   string
	Notes     string
}

// EditRequest patches an admission. Nil fields are left unchanged;
// ClearToDate reopens the stay end.
type EditRequest struct {
	BedNo       *string
	FromDate    *dates.Date
	ToDate      *dates.Date
	ClearToDate bool
	Ailment     *string
	Notes       *string
}

type Service interface {
	Load(ctx context.Context) error
	Admit(ctx context.Context, req AdmitRequest) (*Admission, error)
	Discharge(ctx context.Context, id string, date dates.Date, meta DischargeMeta) (*Admission, error)
	Edit(ctx context.Context, id string, req EditRequest) (*Admission, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Admission, error)
	List(ctx context.Context, filter Filter) ([]*Admission, error)
	AvailableBeds(ctx context.Context, at dates.Date) ([]bedpool.Bed, error)
	ActiveAdmissions(ctx context.Context, at dates.Date) ([]*Admission, error)
	ActiveByPatient(ctx context.Context, patientID string) (*Admission, error)
	HasActiveAdmission(ctx context.Context, patientID string) (bool, error)
}

// service is the bed ledger. It keeps the authoritative record set in memory,
// mirrors every stay into the interval allocator, and writes the whole set
// through the snapshot repository. A mutation holds its bed's key lock across
// check, apply and persist; if the snapshot write fails the in-memory change
// and the allocator change are both rolled back, so an operation either fully
// applies or leaves nothing behind.
type service struct {
	repo     Repository
	pool     *bedpool.Pool
	alloc    *allocator.Allocator
	patients PatientDirectory
	clock    clock.Clock
	beds     *keymutex.KeyMutex

	mu      sync.RWMutex
	records []*Admission
	byID    map[string]*Admission
}

func NewService(repo Repository, pool *bedpool.Pool, alloc *allocator.Allocator, patients PatientDirectory, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		pool:     pool,
		alloc:    alloc,
		patients: patients,
		clock:    clk,
		beds:     keymutex.New(),
		byID:     make(map[string]*Admission),
	}
}

// Load reads the persisted ledger and seeds the allocator with one assignment
// per stay. Assignment ids equal admission ids; the two records describe the
// same fact.
func (s *service) Load(ctx context.Context) error {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.byID = make(map[string]*Admission, len(records))
	for _, a := range records {
		s.byID[a.ID] = a
		s.alloc.Restore(assignmentOf(a))
	}
	return nil
}

func (s *service) Admit(ctx context.Context, req AdmitRequest) (*Admission, error) {
	if !s.pool.Exists(req.BedNo) {
		return nil, ErrBedNotFound
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

	today := dates.FromTime(s.clock.Now())
	if req.FromDate.Before(today) {
		return nil, ErrBackdated
	}
	if req.ToDate != nil && !req.ToDate.After(req.FromDate) {
		return nil, ErrInvalidStay
	}

	unlock := s.beds.Lock(req.BedNo)
	defer unlock()

	as, err := s.alloc.TryAssign(req.BedNo, req.PatientID, req.FromDate.Time(), endOf(req.ToDate))
	if err != nil {
		return nil, mapConflict(err)
	}

	now := s.clock.Now()
	adm := &Admission{
		ID:        as.ID,
		PatientID: req.PatientID,
		BedNo:     req.BedNo,
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
		Status:    StatusAdmitted,
		Ailment:   req.Ailment,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.records = append(s.records, adm)
	s.byID[adm.ID] = adm
	s.mu.Unlock()

	// The directory is checked again now that the stay is on record: a
	// concurrent deletion of the patient either sees this admission and
	// refuses, or its removal is seen here and the admit backs out.
	if s.patients != nil {
		known, err := s.patients.Exists(ctx, req.PatientID)
		if err == nil && !known {
			err = ErrPatientNotFound
		}
		if err != nil {
			s.removeRecord(adm.ID)
			s.alloc.Retract(as.ID)
			return nil, err
		}
	}

	if err := s.persist(ctx); err != nil {
		s.removeRecord(adm.ID)
		s.alloc.Retract(as.ID)
		return nil, err
	}
	return clone(adm), nil
}

func (s *service) Discharge(ctx context.Context, id string, date dates.Date, meta DischargeMeta) (*Admission, error) {
	bed, err := s.bedOf(id)
	if err != nil {
		return nil, err
	}

	unlock := s.beds.Lock(bed)
	defer unlock()

	s.mu.Lock()
	adm, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if adm.BedNo != bed {
		s.mu.Unlock()
		return nil, ErrConcurrentChange
	}
	if adm.Status != StatusAdmitted {
		s.mu.Unlock()
		return nil, ErrAlreadyDischarged
	}
	if date.Before(adm.FromDate) {
		s.mu.Unlock()
		return nil, ErrDischargeBeforeStart
	}

	as, priorEnd, err := s.alloc.Release(adm.ID, date.Time())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	rollback := clone(adm)
	adm.Status = StatusDischarged
	adm.ToDate = &date
	adm.Discharge = &meta
	adm.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.restoreRecord(id, rollback)
		s.alloc.SetEnd(as.ID, priorEnd)
		return nil, err
	}
	return clone(adm), nil
}

func (s *service) Edit(ctx context.Context, id string, req EditRequest) (*Admission, error) {
	bed, err := s.bedOf(id)
	if err != nil {
		return nil, err
	}
	newBed := bed
	if req.BedNo != nil {
		newBed = *req.BedNo
	}
	if !s.pool.Exists(newBed) {
		return nil, ErrBedNotFound
	}

	unlock := s.beds.LockAll(bed, newBed)
	defer unlock()

	s.mu.Lock()
	adm, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if adm.BedNo != bed {
		s.mu.Unlock()
		return nil, ErrConcurrentChange
	}

	placementChanged := req.BedNo != nil || req.FromDate != nil || req.ToDate != nil || req.ClearToDate
	if placementChanged && adm.Status != StatusAdmitted {
		s.mu.Unlock()
		return nil, ErrPlacementLocked
	}

	newFrom := adm.FromDate
	if req.FromDate != nil {
		newFrom = *req.FromDate
	}
	newTo := adm.ToDate
	if req.ClearToDate {
		newTo = nil
	} else if req.ToDate != nil {
		newTo = req.ToDate
	}

	if placementChanged {
		today := dates.FromTime(s.clock.Now())
		if req.FromDate != nil && !req.FromDate.Equal(adm.FromDate) && req.FromDate.Before(today) {
			s.mu.Unlock()
			return nil, ErrBackdated
		}
		if newTo != nil && !newTo.After(newFrom) {
			s.mu.Unlock()
			return nil, ErrInvalidStay
		}
	}

	rollback := clone(adm)
	var priorAssignment allocator.Assignment
	if placementChanged {
		// Re-run the overlap check with this stay's own assignment excluded,
		// otherwise the edit would conflict with itself.
		_, prior, err := s.alloc.Reassign(adm.ID, newBed, newFrom.Time(), endOf(newTo))
		if err != nil {
			s.mu.Unlock()
			return nil, mapConflict(err)
		}
		priorAssignment = prior
		adm.BedNo = newBed
		adm.FromDate = newFrom
		adm.ToDate = newTo
	}
	if req.Ailment != nil {
		adm.Ailment = *req.Ailment
	}
	if req.Notes != nil {
		adm.Notes = *req.Notes
	}
	adm.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.restoreRecord(id, rollback)
		if placementChanged {
			s.alloc.Restore(priorAssignment)
		}
		return nil, err
	}
	return clone(adm), nil
}

// Delete hard-removes an admission, bypassing the lifecycle. Only discharged
// records and stays that never started may go.
func (s *service) Delete(ctx context.Context, id string) error {
	bed, err := s.bedOf(id)
	if err != nil {
		return err
	}

	unlock := s.beds.Lock(bed)
	defer unlock()

	s.mu.Lock()
	adm, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if adm.BedNo != bed {
		s.mu.Unlock()
		return ErrConcurrentChange
	}

	today := dates.FromTime(s.clock.Now())
	if adm.Status != StatusDischarged && !adm.FromDate.After(today) {
		s.mu.Unlock()
		return ErrStayInProgress
	}

	removed := clone(adm)
	idx := s.indexOfLocked(id)
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	delete(s.byID, id)
	s.mu.Unlock()

	s.alloc.Retract(id)

	if err := s.persist(ctx); err != nil {
		s.insertRecord(removed, idx)
		s.alloc.Restore(assignmentOf(removed))
		return err
	}
	return nil
}

func (s *service) GetByID(_ context.Context, id string) (*Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adm, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(adm), nil
}

func (s *service) List(_ context.Context, filter Filter) ([]*Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Admission, 0, len(s.records))
	for _, a := range s.records {
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if filter.BedNo != "" && a.BedNo != filter.BedNo {
			continue
		}
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		out = append(out, clone(a))
	}
	return out, nil
}

// AvailableBeds returns the catalogue minus every bed with an assignment
// active at the given date.
func (s *service) AvailableBeds(_ context.Context, at dates.Date) ([]bedpool.Bed, error) {
	free := make([]bedpool.Bed, 0)
	for _, bed := range s.pool.List() {
		if _, occupied := s.alloc.ActiveAssignment(bed.ID, at.Time()); !occupied {
			free = append(free, bed)
		}
	}
	return free, nil
}

// ActiveAdmissions returns the stays occupying a bed at the given date, in
// catalogue order.
func (s *service) ActiveAdmissions(_ context.Context, at dates.Date) ([]*Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Admission, 0)
	for _, bed := range s.pool.List() {
		as, occupied := s.alloc.ActiveAssignment(bed.ID, at.Time())
		if !occupied {
			continue
		}
		if adm, ok := s.byID[as.ID]; ok {
			out = append(out, clone(adm))
		}
	}
	return out, nil
}

// ActiveByPatient returns the patient's stay that is occupying a bed right
// now, or nil when the patient is not in a bed.
func (s *service) ActiveByPatient(_ context.Context, patientID string) (*Admission, error) {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.records {
		if a.PatientID != patientID || a.Status != StatusAdmitted {
			continue
		}
		if as, ok := s.alloc.ActiveAssignment(a.BedNo, now); ok && as.ID == a.ID {
			return clone(a), nil
		}
	}
	return nil, nil
}

// HasActiveAdmission reports whether the patient has any undischarged stay,
// including future-dated ones. Guards patient deletion.
func (s *service) HasActiveAdmission(_ context.Context, patientID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.records {
		if a.PatientID == patientID && a.Status == StatusAdmitted {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make([]*Admission, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()

	if err := s.repo.ReplaceAll(ctx, snapshot); err != nil {
		return apperror.Wrap(err, "failed to persist admissions")
	}
	return nil
}

func (s *service) bedOf(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adm, ok := s.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return adm.BedNo, nil
}

func (s *service) removeRecord(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOfLocked(id); idx >= 0 {
		s.records = append(s.records[:idx], s.records[idx+1:]...)
	}
	delete(s.byID, id)
}

func (s *service) restoreRecord(id string, prior *Admission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adm, ok := s.byID[id]; ok {
		*adm = *prior
	}
}

func (s *service) insertRecord(a *Admission, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx > len(s.records) {
		idx = len(s.records)
	}
	s.records = append(s.records[:idx], append([]*Admission{a}, s.records[idx:]...)...)
	s.byID[a.ID] = a
}

func (s *service) indexOfLocked(id string) int {
	for i, a := range s.records {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func assignmentOf(a *Admission) allocator.Assignment {
	return allocator.Assignment{
		ID:         a.ID,
		ResourceID: a.BedNo,
		OccupantID: a.PatientID,
		Start:      a.FromDate.Time(),
		End:        endOf(a.ToDate),
	}
}

func endOf(d *dates.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

// mapConflict rewraps an allocator conflict as the ledger's domain error,
// keeping the occupying patient in the payload.
func mapConflict(err error) error {
	if errors.Is(err, allocator.ErrConflict) {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return ErrBedOccupied.WithMeta(appErr.Meta)
		}
		return ErrBedOccupied
	}
	return err
}
