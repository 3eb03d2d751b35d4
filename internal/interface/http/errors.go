package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/pkg/response"
)

// statusFor maps service errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrInvalidDocKey):
		return http.StatusBadRequest, application.ErrInvalidDocKey.Error()
	case errors.Is(err, application.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrDuplicateEmail):
		return http.StatusBadRequest, application.ErrDuplicateEmail.Error()
	case errors.Is(err, application.ErrAuthFailure):
		return http.StatusUnauthorized, application.ErrAuthFailure.Error()
	case errors.Is(err, application.ErrUnauthenticated):
		return http.StatusUnauthorized, application.ErrUnauthenticated.Error()
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound, application.ErrNotFound.Error()
	case errors.Is(err, application.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, application.ErrStorageUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, status, msg)
}
