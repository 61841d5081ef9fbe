package http

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/appointment"
)

// BookBody is the request payload for booking a clinic slot.
type BookBody struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Reason    string `json:"reason"`
}

// UpdateBody reschedules and/or transitions an appointment. Either both slot
// fields or a status must be supplied; a partial slot keeps the other half.
type UpdateBody struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Status *string `json:"status" binding:"omitempty,oneof=Pending Confirmed Completed Cancelled"`
}

// AppointmentResponse is the API shape of one appointment.
type AppointmentResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		Date:      a.Date.String(),
		Time:      a.Time,
		Reason:    a.Reason,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
