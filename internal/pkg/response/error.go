package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string            `json:"error"`
	Kind  string            `json:"kind,omitempty"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code and
// payload. Anything else is reported as a 500 without leaking the cause.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{
			Error: appErr.Message,
			Kind:  string(appErr.Kind),
			Meta:  appErr.Meta,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
