package labtest

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

var (
	ErrNotFound        = apperror.NotFound("lab test not found")
	ErrPatientNotFound = apperror.NotFound("patient not found")
	ErrInvalidStatus   = apperror.Validation("invalid lab test status")
	ErrStatusBackward  = apperror.InvalidState("lab test status can only move forward")
	ErrNotCompleted    = apperror.InvalidState("only completed lab tests can be deleted")
)

type Status string

const (
	StatusOrdered         Status = "Ordered"
	StatusSampleCollected Status = "SampleCollected"
	StatusCompleted       Status = "Completed"
)

var statusRank = map[Status]int{
	StatusOrdered:         0,
	StatusSampleCollected: 1,
	StatusCompleted:       2,
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// LabTest tracks one ordered test through its workflow. The status chain is
// monotonic: Ordered -> SampleCollected -> Completed, Completed terminal.
// Result values are recorded elsewhere; this is tracking only.
type LabTest struct {
	ID        string     `json:"labTestId"`
	PatientID string     `json:"patientId"`
	TestName  string     `json:"testName"`
	OrderedOn dates.Date `json:"orderedOn"`
	Status    Status     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Filter defines parameters for listing lab tests.
type Filter struct {
	PatientID string
	Status    string
}

func clone(t *LabTest) *LabTest {
	cp := *t
	return &cp
}
