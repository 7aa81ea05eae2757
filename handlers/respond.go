package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/store"
)

const (
	msgTryAgain    = "Something went wrong. Please try again."
	msgUnavailable = "The service is temporarily unavailable. Please try again shortly."
)

// result is the envelope every form and admin action replies with.
type result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, status int, r result) error {
	r.Success = true
	return c.JSON(status, r)
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, result{Message: msg})
}

// storeError maps a store or schema error to a response. Driver details are
// logged, never sent.
func (h *Handler) storeError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, db.ErrResetForbidden), errors.Is(err, db.ErrResetNotAllowed):
		h.log.Warn(op, zap.Error(err))
		return fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, db.ErrSchemaUnavailable):
		h.log.Error(op, zap.Error(err), zap.String("request_id", requestID(c)))
		return fail(c, http.StatusServiceUnavailable, msgUnavailable)
	default:
		h.log.Error(op, zap.Error(err), zap.String("request_id", requestID(c)))
		return fail(c, http.StatusInternalServerError, msgTryAgain)
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
