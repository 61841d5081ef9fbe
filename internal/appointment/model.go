package appointment

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

var (
	ErrNotFound        = apperror.NotFound("appointment not found")
	ErrPatientNotFound = apperror.NotFound("patient not found")
	ErrSlotTaken       = apperror.Conflict("slot already booked")
	ErrPastDate        = apperror.Validation("appointment date cannot be in the past")
	ErrPastTime        = apperror.Validation("appointment time has already passed today")
	ErrInvalidStatus   = apperror.Validation("invalid appointment status")
	ErrTerminalStatus  = apperror.InvalidState("appointment is cancelled or completed")
	ErrNotTerminal     = apperror.InvalidState("only cancelled or completed appointments can be deleted")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment is a zero-duration clinic slot: the (Date, Time) pair is the
// whole resource. No two non-cancelled appointments may share the exact pair.
type Appointment struct {
	ID        string     `json:"appointmentId"`
	PatientID string     `json:"patientId"`
	Date      dates.Date `json:"date"`
	Time      string     `json:"time"` // 24h "HH:MM"
	Reason    string     `json:"reason,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SlotKey identifies the appointment's slot for conflict checking and
// per-slot locking.
func (a *Appointment) SlotKey() string {
	return SlotKey(a.Date, a.Time)
}

func SlotKey(date dates.Date, hhmm string) string {
	return date.String() + "|" + hhmm
}

// Filter defines parameters for listing appointments.
type Filter struct {
	PatientID string
	Status    string
	Date      *dates.Date
}

func clone(a *Appointment) *Appointment {
	cp := *a
	return &cp
}
