package appointment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/pkg/keymutex"
)

// PatientDirectory is the slice of the patient module the slot book needs.
type PatientDirectory interface {
	Exists(ctx context.Context, patientID string) (bool, error)
}

type BookRequest struct {
	PatientID string
	Date      dates.Date
	Time      string // 24h "HH:MM"
	Reason    string
}

type Service interface {
	Load(ctx context.Context) error
	Book(ctx context.Context, req BookRequest) (*Appointment, error)
	Reschedule(ctx context.Context, id string, newDate dates.Date, newTime string) (*Appointment, error)
	Cancel(ctx context.Context, id string) (*Appointment, error)
	SetStatus(ctx context.Context, id string, status Status) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, error)
	BookedTimes(ctx context.Context, date dates.Date) ([]string, error)
}

// service is the slot book. Slots are zero-duration, so conflict detection is
// an exact (date, time) match over non-cancelled appointments; the per-slot
// key lock makes the check-then-act on one slot single-writer while distinct
// slots book in parallel. Persistence follows the same
// apply/persist/rollback discipline as the bed ledger.
type service struct {
	repo     Repository
	patients PatientDirectory
	clock    clock.Clock
	slots    *keymutex.KeyMutex

	mu      sync.RWMutex
	records []*Appointment
	byID    map[string]*Appointment
}

func NewService(repo Repository, patients PatientDirectory, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		patients: patients,
		clock:    clk,
		slots:    keymutex.New(),
		byID:     make(map[string]*Appointment),
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
	s.byID = make(map[string]*Appointment, len(records))
	for _, a := range records {
		s.byID[a.ID] = a
	}
	return nil
}

func (s *service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if err := s.validateSlot(req.Date, req.Time); err != nil {
		return nil, err
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

	unlock := s.slots.Lock(SlotKey(req.Date, req.Time))
	defer unlock()

	s.mu.Lock()
	if s.slotTakenLocked(req.Date, req.Time, "") {
		s.mu.Unlock()
		return nil, ErrSlotTaken
	}

	now := s.clock.Now()
	appt := &Appointment{
		ID:        uuid.NewString(),
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records = append(s.records, appt)
	s.byID[appt.ID] = appt
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.removeRecord(appt.ID)
		return nil, err
	}
	return clone(appt), nil
}

func (s *service) Reschedule(ctx context.Context, id string, newDate dates.Date, newTime string) (*Appointment, error) {
	if err := s.validateSlot(newDate, newTime); err != nil {
		return nil, err
	}

	oldKey, err := s.slotKeyOf(id)
	if err != nil {
		return nil, err
	}

	unlock := s.slots.LockAll(oldKey, SlotKey(newDate, newTime))
	defer unlock()

	s.mu.Lock()
	appt, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if appt.Status.Terminal() {
		s.mu.Unlock()
		return nil, ErrTerminalStatus
	}
	// The appointment's own slot is excluded, otherwise rescheduling to the
	// same time would collide with itself.
	if s.slotTakenLocked(newDate, newTime, id) {
		s.mu.Unlock()
		return nil, ErrSlotTaken
	}

	rollback := clone(appt)
	appt.Date = newDate
	appt.Time = newTime
	appt.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.restoreRecord(id, rollback)
		return nil, err
	}
	return clone(appt), nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	return s.SetStatus(ctx, id, StatusCancelled)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	key, err := s.slotKeyOf(id)
	if err != nil {
		return nil, err
	}

	unlock := s.slots.Lock(key)
	defer unlock()

	s.mu.Lock()
	appt, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if appt.Status.Terminal() {
		s.mu.Unlock()
		return nil, ErrTerminalStatus
	}

	rollback := clone(appt)
	appt.Status = status
	appt.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.restoreRecord(id, rollback)
		return nil, err
	}
	return clone(appt), nil
}

// Delete hard-removes an appointment; only terminal records may go.
func (s *service) Delete(ctx context.Context, id string) error {
	key, err := s.slotKeyOf(id)
	if err != nil {
		return err
	}

	unlock := s.slots.Lock(key)
	defer unlock()

	s.mu.Lock()
	appt, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if !appt.Status.Terminal() {
		s.mu.Unlock()
		return ErrNotTerminal
	}

	removed := clone(appt)
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

func (s *service) GetByID(_ context.Context, id string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(appt), nil
}

func (s *service) List(_ context.Context, filter Filter) ([]*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Appointment, 0, len(s.records))
	for _, a := range s.records {
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		if filter.Date != nil && !a.Date.Equal(*filter.Date) {
			continue
		}
		out = append(out, clone(a))
	}
	return out, nil
}

// BookedTimes returns the occupied "HH:MM" slots on a date, cancelled
// appointments excluded.
func (s *service) BookedTimes(_ context.Context, date dates.Date) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	times := make([]string, 0)
	for _, a := range s.records {
		if a.Status != StatusCancelled && a.Date.Equal(date) {
			times = append(times, a.Time)
		}
	}
	return times, nil
}

// validateSlot rejects malformed times, past dates, and times already gone
// today. A slot exactly at the current minute is still bookable.
func (s *service) validateSlot(date dates.Date, hhmm string) error {
	mins, err := dates.ParseClock(hhmm)
	if err != nil {
		return apperror.Validation(err.Error())
	}

	now := s.clock.Now()
	today := dates.FromTime(now)
	if date.Before(today) {
		return ErrPastDate
	}
	if date.Equal(today) {
		u := now.UTC()
		if mins < u.Hour()*60+u.Minute() {
			return ErrPastTime
		}
	}
	return nil
}

func (s *service) slotTakenLocked(date dates.Date, hhmm string, excludeID string) bool {
	for _, a := range s.records {
		if a.ID == excludeID || a.Status == StatusCancelled {
			continue
		}
		if a.Date.Equal(date) && a.Time == hhmm {
			return true
		}
	}
	return false
}

func (s *service) slotKeyOf(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return appt.SlotKey(), nil
}

func (s *service) persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make([]*Appointment, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()

	if err := s.repo.ReplaceAll(ctx, snapshot); err != nil {
		return apperror.Wrap(err, "failed to persist appointments")
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

func (s *service) restoreRecord(id string, prior *Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appt, ok := s.byID[id]; ok {
		*appt = *prior
	}
}

func (s *service) insertRecord(a *Appointment, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx > len(s.records) {
		idx = len(s.records)
	}
	s.records = append(s.records[:idx], append([]*Appointment{a}, s.records[idx:]...)...)
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
