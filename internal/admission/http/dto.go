package http

import (
	"time"

	"github.com/medifront/frontdesk-backend/internal/admission"
)

// AdmitBody is the request payload for admitting a patient to a bed.
type AdmitBody struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	BedNo     string `json:"bed_no" binding:"required"`
	FromDate  string `json:"from_date" binding:"required"`
	ToDate    string `json:"to_date"` // optional; empty means open-ended stay
	Ailment   string `json:"ailment"`
	Notes     string `json:"notes"`
}

// DischargeBody ends a stay.
type DischargeBody struct {
	DischargeDate string `json:"discharge_date" binding:"required"`
	Condition     string `json:"condition"`
	Remarks       string `json:"remarks"`
}

// UpdateBody patches an admission. Omitted fields stay unchanged;
// clear_to_date reopens the stay end.
type UpdateBody struct {
	BedNo       *string `json:"bed_no"`
	FromDate    *string `json:"from_date"`
	ToDate      *string `json:"to_date"`
	ClearToDate bool    `json:"clear_to_date"`
	Ailment     *string `json:"ailment"`
	Notes       *string `json:"notes"`
}

// AdmissionResponse is the API shape of one stay.
type AdmissionResponse struct {
	ID            string     `json:"id"`
	PatientID     string     `json:"patient_id"`
	BedNo         string     `json:"bed_no"`
	FromDate      string     `json:"from_date"`
	ToDate        *string    `json:"to_date,omitempty"`
	Status        string     `json:"status"`
	Ailment       string     `json:"ailment,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	DischargeCond string     `json:"discharge_condition,omitempty"`
	DischargeNote string     `json:"discharge_remarks,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewAdmissionResponse(a *admission.Admission) AdmissionResponse {
	resp := AdmissionResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		BedNo:     a.BedNo,
		FromDate:  a.FromDate.String(),
		Status:    string(a.Status),
		Ailment:   a.Ailment,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.ToDate != nil {
		to := a.ToDate.String()
		resp.ToDate = &to
	}
	if a.Discharge != nil {
		resp.DischargeCond = a.Discharge.Condition
		resp.DischargeNote = a.Discharge.Remarks
	}
	return resp
}
