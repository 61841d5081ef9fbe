package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/lab-tests")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Order)
		group.PATCH("/:id/status", h.SetStatus)
		group.DELETE("/:id", h.Delete)
	}
}
