package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/pkg/request"
	"github.com/medifront/frontdesk-backend/internal/pkg/response"
	"github.com/medifront/frontdesk-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
	clock   clock.Clock
}

func NewHandler(service schedule.Service, clk clock.Clock) *Handler {
	return &Handler{service: service, clock: clk}
}

// dateOrToday reads the optional ?date= query, defaulting to today.
func (h *Handler) dateOrToday(c *gin.Context) (dates.Date, bool) {
	v := c.Query("date")
	if v == "" {
		return dates.FromTime(h.clock.Now()), true
	}
	date, err := dates.Parse(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dates.Date{}, false
	}
	return date, true
}

func (h *Handler) BedOccupancy(c *gin.Context) {
	at, ok := h.dateOrToday(c)
	if !ok {
		return
	}

	board, err := h.service.BedOccupancyAt(c.Request.Context(), at)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BedOccupancyResponse, len(board))
	for i, row := range board {
		items[i] = NewBedOccupancyResponse(row)
	}
	c.JSON(http.StatusOK, gin.H{"date": at.String(), "beds": items})
}

func (h *Handler) FreeBeds(c *gin.Context) {
	at, ok := h.dateOrToday(c)
	if !ok {
		return
	}

	beds, err := h.service.FreeBeds(c.Request.Context(), at)
	if err != nil {
		response.Error(c, err)
		return
	}

	ids := make([]string, len(beds))
	for i, b := range beds {
		ids[i] = b.ID
	}
	c.JSON(http.StatusOK, gin.H{"date": at.String(), "beds": ids})
}

func (h *Handler) FreeSlots(c *gin.Context) {
	at, ok := h.dateOrToday(c)
	if !ok {
		return
	}

	slots, err := h.service.FreeSlotsOn(c.Request.Context(), at)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, FreeSlotsResponse{Date: at.String(), Slots: slots})
}

func (h *Handler) PatientCurrentBed(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	adm, err := h.service.PatientCurrentBed(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := CurrentBedResponse{PatientID: id}
	if adm != nil {
		resp.Admitted = true
		resp.BedNo = adm.BedNo
		resp.AdmissionID = adm.ID
	}
	c.JSON(http.StatusOK, resp)
}
