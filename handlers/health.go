package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Health answers liveness probes with a database round trip.
func (h *Handler) Health(c echo.Context) error {
	if err := h.schema.Ping(c.Request().Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, msgUnavailable)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SiteConfig returns the public links the frontend needs.
func (h *Handler) SiteConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.opts.Site)
}
