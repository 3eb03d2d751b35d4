package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CheckFunc checks one dependency.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	Checks  map[string]CheckFunc
	Timeout time.Duration
	Logger  *logrus.Logger
}

func NewHealthHandler(checks map[string]CheckFunc, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Checks: checks, Timeout: 2 * time.Second, Logger: logger}
}

// Health reports "up" or "down" per dependency; any down yields 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	body := gin.H{}
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			ok = false
			body[name] = "down"
			h.Logger.WithError(err).WithField("check", name).Warn("health check failed")
			continue
		}
		body[name] = "up"
	}
	body["ok"] = ok
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}
