package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medifront/frontdesk-backend/internal/labtest"
	"github.com/medifront/frontdesk-backend/internal/pkg/request"
	"github.com/medifront/frontdesk-backend/internal/pkg/response"
)

type Handler struct {
	service labtest.Service
}

func NewHandler(service labtest.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Order(c *gin.Context) {
	var body OrderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.Order(c.Request.Context(), labtest.OrderRequest{
		PatientID: body.PatientID,
		TestName:  body.TestName,
		Notes:     body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewLabTestResponse(t))
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination", "details": err.Error()})
		return
	}

	records, err := h.service.List(c.Request.Context(), labtest.Filter{
		PatientID: c.Query("patient_id"),
		Status:    c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	start, end := params.Window(len(records))
	items := make([]LabTestResponse, 0, end-start)
	for _, t := range records[start:end] {
		items = append(items, NewLabTestResponse(t))
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

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewLabTestResponse(t))
}

func (h *Handler) SetStatus(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	id := params.ID

	var body StatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.SetStatus(c.Request.Context(), id, labtest.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewLabTestResponse(t))
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
