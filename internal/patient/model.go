package patient

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

var (
	ErrNotFound = apperror.NotFound("patient not found")
	ErrAdmitted = apperror.InvalidState("patient has an active admission")
)

// Patient is a front-desk registration record.
type Patient struct {
	ID         string     `json:"patientId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Gender     string     `json:"gender,omitempty"`
	BirthDate  dates.Date `json:"birthDate"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	BloodGroup string     `json:"bloodGroup,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Filter defines parameters for listing patients.
type Filter struct {
	Name string // matches first or last name, case-insensitive substring
}

func clone(p *Patient) *Patient {
	cp := *p
	return &cp
}
