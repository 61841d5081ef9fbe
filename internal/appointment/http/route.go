package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/appointments")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Book)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/cancel", h.Cancel)
		group.DELETE("/:id", h.Delete)
	}
}
