package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medifront/frontdesk-backend/internal/appointment"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/pkg/request"
	"github.com/medifront/frontdesk-backend/internal/pkg/response"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Book(c *gin.Context) {
	var body BookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := dates.Parse(body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.service.Book(c.Request.Context(), appointment.BookRequest{
		PatientID: body.PatientID,
		Date:      date,
		Time:      body.Time,
		Reason:    body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAppointmentResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination", "details": err.Error()})
		return
	}

	filter := appointment.Filter{
		PatientID: c.Query("patient_id"),
		Status:    c.Query("status"),
	}
	if v := c.Query("date"); v != "" {
		date, err := dates.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Date = &date
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	start, end := params.Window(len(records))
	items := make([]AppointmentResponse, 0, end-start)
	for _, a := range records[start:end] {
		items = append(items, NewAppointmentResponse(a))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, len(records)))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}

// Update reschedules when a slot field is present and applies a status change
// afterwards, mirroring the one-PATCH surface the booking forms use.
func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	var body UpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := current
	if body.Date != nil || body.Time != nil {
		newDate := current.Date
		if body.Date != nil {
			newDate, err = dates.Parse(*body.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		newTime := current.Time
		if body.Time != nil {
			newTime = *body.Time
		}

		result, err = h.service.Reschedule(c.Request.Context(), id, newDate, newTime)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	if body.Status != nil {
		result, err = h.service.SetStatus(c.Request.Context(), id, appointment.Status(*body.Status))
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(result))
}

func (h *Handler) Cancel(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	a, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}

func (h *Handler) Delete(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
