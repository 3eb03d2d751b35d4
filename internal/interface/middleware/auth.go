package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
	"github.com/oksasatya/pharmadocs/pkg/response"
)

const CtxUserIDKey = "userID"

// SessionResolver maps a session token to the owning user id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Auth validates the session cookie and sets userID in the Gin context on success.
// Requests without a cookie are rejected before any store is touched.
func Auth(sessions SessionResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.Token(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthenticated")
			return
		}
		uid, err := sessions.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, application.ErrUnauthenticated):
			response.Abort(c, http.StatusUnauthorized, "unauthenticated")
			return
		case errors.Is(err, application.ErrStorageUnavailable):
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("session lookup failed")
			response.Abort(c, http.StatusServiceUnavailable, "storage unavailable")
			return
		default:
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("session lookup failed")
			response.Abort(c, http.StatusInternalServerError, "internal server error")
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
