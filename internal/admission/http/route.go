package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/admissions")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Admit)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/discharge", h.Discharge)
		group.DELETE("/:id", h.Delete)
	}
}
