package http

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/patient"
)

// CreateBody is the registration payload.
type CreateBody struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Gender     string `json:"gender" binding:"omitempty,oneof=male female other"`
	BirthDate  string `json:"birth_date" binding:"required"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	BloodGroup string `json:"blood_group"`
}

// UpdateBody patches a registration; omitted fields stay unchanged.
type UpdateBody struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Gender     *string `json:"gender" binding:"omitempty,oneof=male female other"`
	BirthDate  *string `json:"birth_date"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	BloodGroup *string `json:"blood_group"`
}

// PatientResponse is the API shape of one registration.
type PatientResponse struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Gender     string    `json:"gender,omitempty"`
	BirthDate  string    `json:"birth_date"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	BloodGroup string    `json:"blood_group,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Gender:     p.Gender,
		BirthDate:  p.BirthDate.String(),
		Phone:      p.Phone,
		Address:    p.Address,
		BloodGroup: p.BloodGroup,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
