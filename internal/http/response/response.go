package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope nests the error under "error". Message repeats
// Error.Message at the top level for clients that read a flat message.
type ErrorEnvelope struct {
	Error   APIError `json:"error"`
	Message string   `json:"message"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
		Message: msg,
	})
}

// RespondServiceError writes err using its apierr mapping, or a 500 with
// fallbackCode when err carries none.
func RespondServiceError(c *gin.Context, err error, fallbackCode string) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, ae)
		return
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		RespondError(c, http.StatusRequestEntityTooLarge, "request_too_large", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
