package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/pkg/response"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err as an error envelope. Anything that is not an AppError is
// logged and reported as a 500 without its message.
func (h *UserHandler) fail(c *gin.Context, err error) {
	ae, ok := apperror.As(err)
	if !ok {
		h.Logger.WithError(err).
			WithField("request_id", c.GetString("request_id")).
			WithField("path", c.FullPath()).
			Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	var details any
	if ae.Field != "" {
		details = map[string]string{ae.Field: ae.Message}
	}
	response.Error[any](c, statusOf(ae), ae.Message, details)
}
