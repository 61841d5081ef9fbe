package http

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/labtest"
)

// OrderBody is the payload for ordering a test.
type OrderBody struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	TestName  string `json:"test_name" binding:"required"`
	Notes     string `json:"notes"`
}

// StatusBody advances the workflow.
type StatusBody struct {
	Status string `json:"status" binding:"required,oneof=Ordered SampleCollected Completed"`
}

// LabTestResponse is the API shape of one tracked test.
type LabTestResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	TestName  string    `json:"test_name"`
	OrderedOn string    `json:"ordered_on"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewLabTestResponse(t *labtest.LabTest) LabTestResponse {
	return LabTestResponse{
		ID:        t.ID,
		PatientID: t.PatientID,
		TestName:  t.TestName,
		OrderedOn: t.OrderedOn.String(),
		Status:    string(t.Status),
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
