package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medifront/frontdesk-backend/internal/patient"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/pkg/request"
	"github.com/medifront/frontdesk-backend/internal/pkg/response"
)

type Handler struct {
	service patient.Service
}

func NewHandler(service patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	birth, err := dates.Parse(body.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), patient.CreateRequest{
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		Gender:     body.Gender,
		BirthDate:  birth,
		Phone:      body.Phone,
		Address:    body.Address,
		BloodGroup: body.BloodGroup,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPatientResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination", "details": err.Error()})
		return
	}

	records, err := h.service.List(c.Request.Context(), patient.Filter{
		Name: c.Query("name"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	start, end := params.Window(len(records))
	items := make([]PatientResponse, 0, end-start)
	for _, p := range records[start:end] {
		items = append(items, NewPatientResponse(p))
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

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPatientResponse(p))
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

	req := patient.UpdateRequest{
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		Gender:     body.Gender,
		Phone:      body.Phone,
		Address:    body.Address,
		BloodGroup: body.BloodGroup,
	}
	if body.BirthDate != nil {
		birth, err := dates.Parse(*body.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.BirthDate = &birth
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPatientResponse(p))
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
