package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/store"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := NewContainer(context.Background(), Config{
		Store:        store.NewMemoryStore(),
		Clock:        clock.NewFixed(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)),
		Logger:       zap.NewNop(),
		BedIDs:       []string{"B1", "B2"},
		SlotGranules: []string{"09:00", "09:30", "10:00"},
	})
	require.NoError(t, err)
	return c
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(encoded)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerPatient(t *testing.T, router http.Handler, first, last string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/v1/patients", gin.H{
		"first_name": first,
		"last_name":  last,
		"birth_date": "1980-03-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func TestHealthz(t *testing.T) {
	c := newTestContainer(t)
	w := do(t, c.Router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmissionFlowOverHTTP(t *testing.T) {
	c := newTestContainer(t)
	r := c.Router

	p1 := registerPatient(t, r, "Ada", "Okafor")
	p2 := registerPatient(t, r, "Jonas", "Lind")

	// Admit P1 into B1.
	w := do(t, r, http.MethodPost, "/v1/admissions", gin.H{
		"patient_id": p1,
		"bed_no":     "B1",
		"from_date":  "2024-01-01",
		"to_date":    "2024-01-05",
		"ailment":    "pneumonia",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	admitted := decode(t, w)
	admissionID := admitted["id"].(string)
	assert.Equal(t, "Admitted", admitted["status"])

	// Overlapping request for the same bed conflicts and names the holder.
	w = do(t, r, http.MethodPost, "/v1/admissions", gin.H{
		"patient_id": p2,
		"bed_no":     "B1",
		"from_date":  "2024-01-03",
		"to_date":    "2024-01-06",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := decode(t, w)
	assert.Equal(t, "conflict", conflict["kind"])
	meta := conflict["meta"].(map[string]any)
	assert.Equal(t, p1, meta["occupant_id"])

	// The schedule views agree: only B2 is free mid-stay.
	w = do(t, r, http.MethodGet, "/v1/schedule/beds/available?date=2024-01-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	free := decode(t, w)["beds"].([]any)
	require.Len(t, free, 1)
	assert.Equal(t, "B2", free[0])

	w = do(t, r, http.MethodGet, "/v1/schedule/patients/"+p1+"/bed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decode(t, w)
	assert.Equal(t, true, current["admitted"])
	assert.Equal(t, "B1", current["bed_no"])

	// Discharge frees the bed.
	w = do(t, r, http.MethodPost, "/v1/admissions/"+admissionID+"/discharge", gin.H{
		"discharge_date": "2024-01-02",
		"condition":      "stable",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Discharged", decode(t, w)["status"])

	w = do(t, r, http.MethodGet, "/v1/schedule/beds/available?date=2024-01-04", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["beds"].([]any), 2)

	// Deleting a patient with history but no active stay is allowed.
	w = do(t, r, http.MethodDelete, "/v1/patients/"+p1, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPatientDeleteBlockedWhileAdmitted(t *testing.T) {
	c := newTestContainer(t)
	r := c.Router

	p1 := registerPatient(t, r, "Ada", "Okafor")

	w := do(t, r, http.MethodPost, "/v1/admissions", gin.H{
		"patient_id": p1,
		"bed_no":     "B1",
		"from_date":  "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodDelete, "/v1/patients/"+p1, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", decode(t, w)["kind"])
}

func TestAppointmentFlowOverHTTP(t *testing.T) {
	c := newTestContainer(t)
	r := c.Router

	p1 := registerPatient(t, r, "Ada", "Okafor")
	p2 := registerPatient(t, r, "Jonas", "Lind")

	w := do(t, r, http.MethodPost, "/v1/appointments", gin.H{
		"patient_id": p1,
		"date":       "2024-01-02",
		"time":       "09:30",
		"reason":     "follow-up",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	apptID := decode(t, w)["id"].(string)

	// Same slot twice is a conflict.
	w = do(t, r, http.MethodPost, "/v1/appointments", gin.H{
		"patient_id": p2,
		"date":       "2024-01-02",
		"time":       "09:30",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The slot disappears from the free list.
	w = do(t, r, http.MethodGet, "/v1/schedule/slots/free?date=2024-01-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode(t, w)["slots"].([]any)
	assert.Equal(t, []any{"09:00", "10:00"}, slots)

	// Cancel and the slot comes back.
	w = do(t, r, http.MethodPost, "/v1/appointments/"+apptID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Cancelled", decode(t, w)["status"])

	w = do(t, r, http.MethodGet, "/v1/schedule/slots/free?date=2024-01-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["slots"].([]any), 3)

	// Past dates are rejected at the API boundary as validation errors.
	w = do(t, r, http.MethodPost, "/v1/appointments", gin.H{
		"patient_id": p1,
		"date":       "2023-12-31",
		"time":       "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLabTestFlowOverHTTP(t *testing.T) {
	c := newTestContainer(t)
	r := c.Router

	p1 := registerPatient(t, r, "Ada", "Okafor")

	w := do(t, r, http.MethodPost, "/v1/lab-tests", gin.H{
		"patient_id": p1,
		"test_name":  "CBC",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	assert.Equal(t, "Ordered", created["status"])

	w = do(t, r, http.MethodPatch, "/v1/lab-tests/"+id+"/status", gin.H{"status": "SampleCollected"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Backward transitions surface as invalid state.
	w = do(t, r, http.MethodPatch, "/v1/lab-tests/"+id+"/status", gin.H{"status": "Ordered"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", decode(t, w)["kind"])

	// Only completed tests can be deleted.
	w = do(t, r, http.MethodDelete, "/v1/lab-tests/"+id, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPatch, "/v1/lab-tests/"+id+"/status", gin.H{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodDelete, "/v1/lab-tests/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMalformedRequests(t *testing.T) {
	c := newTestContainer(t)
	r := c.Router

	// Non-uuid patient id fails binding.
	w := do(t, r, http.MethodPost, "/v1/admissions", gin.H{
		"patient_id": "not-a-uuid",
		"bed_no":     "B1",
		"from_date":  "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unparseable date.
	p1 := registerPatient(t, r, "Ada", "Okafor")
	w = do(t, r, http.MethodPost, "/v1/admissions", gin.H{
		"patient_id": p1,
		"bed_no":     "B1",
		"from_date":  "01/05/2024",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown record ids are 404s.
	w = do(t, r, http.MethodGet, "/v1/admissions/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed uuid in the path is rejected before the service runs.
	w = do(t, r, http.MethodGet, "/v1/patients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStateSurvivesRestart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := store.NewMemoryStore()
	cfg := Config{
		Store:        st,
		Clock:        clock.NewFixed(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)),
		Logger:       zap.NewNop(),
		BedIDs:       []string{"B1", "B2"},
		SlotGranules: []string{"09:00", "09:30"},
	}

	c1, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)

	p1 := registerPatient(t, c1.Router, "Ada", "Okafor")
	w := do(t, c1.Router, http.MethodPost, "/v1/admissions", gin.H{
		"patient_id": p1,
		"bed_no":     "B1",
		"from_date":  "2024-01-01",
		"to_date":    "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A fresh container over the same store sees the stay and keeps
	// enforcing its conflicts.
	c2, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)

	w = do(t, c2.Router, http.MethodGet, "/v1/schedule/beds/available?date=2024-01-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	free := decode(t, w)["beds"].([]any)
	require.Len(t, free, 1)
	assert.Equal(t, "B2", free[0])
}
