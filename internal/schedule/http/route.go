package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/schedule")
	{
		group.GET("/beds", h.BedOccupancy)
		group.GET("/beds/available", h.FreeBeds)
		group.GET("/slots/free", h.FreeSlots)
		group.GET("/patients/:id/bed", h.PatientCurrentBed)
	}
}
