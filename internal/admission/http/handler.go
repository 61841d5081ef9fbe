package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medifront/frontdesk-backend/internal/admission"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/pkg/request"
	"github.com/medifront/frontdesk-backend/internal/pkg/response"
)

type Handler struct {
	service admission.Service
}

func NewHandler(service admission.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Admit(c *gin.Context) {
	var body AdmitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	from, err := dates.Parse(body.FromDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := admission.AdmitRequest{
		PatientID: body.PatientID,
		BedNo:     body.BedNo,
		FromDate:  from,
		Ailment:   body.Ailment,
		Notes:     body.Notes,
	}
	if body.ToDate != "" {
		to, err := dates.Parse(body.ToDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.ToDate = &to
	}

	a, err := h.service.Admit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAdmissionResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination", "details": err.Error()})
		return
	}

	filter := admission.Filter{
		PatientID: c.Query("patient_id"),
		BedNo:     c.Query("bed_no"),
		Status:    c.Query("status"),
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	start, end := params.Window(len(records))
	items := make([]AdmissionResponse, 0, end-start)
	for _, a := range records[start:end] {
		items = append(items, NewAdmissionResponse(a))
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
	c.JSON(http.StatusOK, NewAdmissionResponse(a))
}

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

	req := admission.EditRequest{
		BedNo:       body.BedNo,
		ClearToDate: body.ClearToDate,
		Ailment:     body.Ailment,
		Notes:       body.Notes,
	}
	if body.FromDate != nil {
		from, err := dates.Parse(*body.FromDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.FromDate = &from
	}
	if body.ToDate != nil {
		to, err := dates.Parse(*body.ToDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.ToDate = &to
	}

	a, err := h.service.Edit(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAdmissionResponse(a))
}

func (h *Handler) Discharge(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	var body DischargeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := dates.Parse(body.DischargeDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := admission.DischargeMeta{
		Condition: body.Condition,
		Remarks:   body.Remarks,
	}
	a, err := h.service.Discharge(c.Request.Context(), id, date, meta)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAdmissionResponse(a))
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
