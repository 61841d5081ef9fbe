// Package schedule is the read side of the front desk: what is free and what
// is occupied, for beds and for appointment slots. It composes the bed ledger
// and the slot book and never mutates either.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/medifront/frontdesk-backend/internal/admission"
	"github.com/medifront/frontdesk-backend/internal/appointment"
	"github.com/medifront/frontdesk-backend/internal/bedpool"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

// BedOccupancy is one row of the occupancy board.
type BedOccupancy struct {
	Bed         bedpool.Bed
	Occupied    bool
	PatientID   string
	AdmissionID string
}

type Service interface {
	BedOccupancyAt(ctx context.Context, at dates.Date) ([]BedOccupancy, error)
	FreeBeds(ctx context.Context, at dates.Date) ([]bedpool.Bed, error)
	FreeSlotsOn(ctx context.Context, date dates.Date) ([]string, error)
	PatientCurrentBed(ctx context.Context, patientID string) (*admission.Admission, error)
}

type service struct {
	ledger   admission.Service
	book     appointment.Service
	pool     *bedpool.Pool
	granules []string
}

// NewService builds the query facade. granules is the configured set of
// bookable "HH:MM" slot times; with an empty set FreeSlotsOn always returns
// an empty list.
func NewService(ledger admission.Service, book appointment.Service, pool *bedpool.Pool, granules []string) Service {
	return &service{
		ledger:   ledger,
		book:     book,
		pool:     pool,
		granules: granules,
	}
}

func (s *service) BedOccupancyAt(ctx context.Context, at dates.Date) ([]BedOccupancy, error) {
	active, err := s.ledger.ActiveAdmissions(ctx, at)
	if err != nil {
		return nil, err
	}

	byBed := make(map[string]*admission.Admission, len(active))
	for _, a := range active {
		byBed[a.BedNo] = a
	}

	board := make([]BedOccupancy, 0, len(s.pool.List()))
	for _, bed := range s.pool.List() {
		row := BedOccupancy{Bed: bed}
		if a, ok := byBed[bed.ID]; ok {
			row.Occupied = true
			row.PatientID = a.PatientID
			row.AdmissionID = a.ID
		}
		board = append(board, row)
	}
	return board, nil
}

func (s *service) FreeBeds(ctx context.Context, at dates.Date) ([]bedpool.Bed, error) {
	return s.ledger.AvailableBeds(ctx, at)
}

// FreeSlotsOn enumerates the configured granules minus the booked ones,
// sorted by time of day.
func (s *service) FreeSlotsOn(ctx context.Context, date dates.Date) ([]string, error) {
	booked, err := s.book.BookedTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	free := make([]string, 0, len(s.granules))
	for _, g := range s.granules {
		if _, ok := taken[g]; !ok {
			free = append(free, g)
		}
	}
	sort.Strings(free)
	return free, nil
}

func (s *service) PatientCurrentBed(ctx context.Context, patientID string) (*admission.Admission, error) {
	return s.ledger.ActiveByPatient(ctx, patientID)
}

// Granules expands a [start, end) day window into bookable "HH:MM" times at
// the given step, e.g. 09:00-17:00 every 30m.
func Granules(start, end string, step time.Duration) ([]string, error) {
	startMins, err := dates.ParseClock(start)
	if err != nil {
		return nil, err
	}
	endMins, err := dates.ParseClock(end)
	if err != nil {
		return nil, err
	}
	if endMins <= startMins {
		return nil, fmt.Errorf("slot window end %s must be after start %s", end, start)
	}
	stepMins := int(step.Minutes())
	if stepMins <= 0 {
		return nil, fmt.Errorf("slot interval must be positive, got %s", step)
	}

	granules := make([]string, 0, (endMins-startMins)/stepMins)
	for m := startMins; m < endMins; m += stepMins {
		granules = append(granules, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return granules, nil
}
