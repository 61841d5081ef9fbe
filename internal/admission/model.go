package admission

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

var (
	ErrNotFound             = apperror.NotFound("admission not found")
	ErrBedNotFound          = apperror.NotFound("bed does not exist")
	ErrPatientNotFound      = apperror.NotFound("patient not found")
	ErrBedOccupied          = apperror.Conflict("bed already occupied for that period")
	ErrBackdated            = apperror.Validation("admission cannot start before today")
	ErrInvalidStay          = apperror.Validation("stay end must be after stay start")
	ErrDischargeBeforeStart = apperror.Validation("discharge date cannot precede admission date")
	ErrAlreadyDischarged    = apperror.InvalidState("admission already discharged")
	ErrPlacementLocked      = apperror.InvalidState("bed and stay dates can only change while admitted")
	ErrStayInProgress       = apperror.InvalidState("only discharged or not-yet-started admissions can be deleted")
	ErrConcurrentChange     = apperror.Conflict("admission changed concurrently, retry")
)

type Status string

const (
	StatusAdmitted   Status = "Admitted"
	StatusDischarged Status = "Discharged"
)

// DischargeMeta captures the outcome recorded by the front desk when a stay
// ends.
type DischargeMeta struct {
	Condition string `json:"condition,omitempty"`
	Remarks   string `json:"remarks,omitempty"`
}

// Admission is one patient stay in one bed over [FromDate, ToDate). A nil
// ToDate means the stay is open-ended until discharge. Status only moves
// Admitted -> Discharged; discharged records are kept as history.
type Admission struct {
	ID        string         `json:"admissionId"`
	PatientID string         `json:"patientId"`
	BedNo     string         `json:"bedNo"`
	FromDate  dates.Date     `json:"fromDate"`
	ToDate    *dates.Date    `json:"toDate,omitempty"`
	Status    Status         `json:"status"`
	Ailment   string         `json:"ailment,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Discharge *DischargeMeta `json:"dischargeMeta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Filter defines parameters for listing admissions.
type Filter struct {
	PatientID string
	BedNo     string
	Status    string
}

func clone(a *Admission) *Admission {
	cp := *a
	if a.ToDate != nil {
		d := *a.ToDate
		cp.ToDate = &d
	}
	if a.Discharge != nil {
		m := *a.Discharge
		cp.Discharge = &m
	}
	return &cp
}
