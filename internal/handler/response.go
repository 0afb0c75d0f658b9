package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-boiler/backend/internal/apperror"
	"github.com/go-boiler/backend/internal/model"
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, model.Response{
		Message:    message,
		StatusCode: status,
		Success:    true,
		Data:       data,
	})
}

// respondError writes the error envelope. The underlying cause is only
// echoed outside release mode; production clients get the message alone.
func respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)

	body := model.ErrorResponse{
		Message:    appErr.Message,
		StatusCode: appErr.Status,
		Success:    false,
		Errors:     []string{},
	}
	if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
		body.Detail = appErr.Err.Error()
	}

	c.JSON(appErr.Status, body)
}

func abortError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}

// CookieConfig governs the two token cookies. Production uses Secure with
// SameSite=None for cross-origin frontends; development relaxes to Lax over
// plain HTTP.
type CookieConfig struct {
	Path          string
	Domain        string
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  int
	RefreshMaxAge int
}
