package http

import (
	"github.com/medifront/frontdesk-backend/internal/schedule"
)

// BedOccupancyResponse is one row of the occupancy board.
type BedOccupancyResponse struct {
	BedNo       string `json:"bed_no"`
	Occupied    bool   `json:"occupied"`
	PatientID   string `json:"patient_id,omitempty"`
	AdmissionID string `json:"admission_id,omitempty"`
}

func NewBedOccupancyResponse(row schedule.BedOccupancy) BedOccupancyResponse {
	return BedOccupancyResponse{
		BedNo:       row.Bed.ID,
		Occupied:    row.Occupied,
		PatientID:   row.PatientID,
		AdmissionID: row.AdmissionID,
	}
}

// FreeSlotsResponse lists the bookable times left on a date.
type FreeSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// CurrentBedResponse answers "which bed is this patient in right now".
type CurrentBedResponse struct {
	PatientID   string `json:"patient_id"`
	Admitted    bool   `json:"admitted"`
	BedNo       string `json:"bed_no,omitempty"`
	AdmissionID string `json:"admission_id,omitempty"`
}
