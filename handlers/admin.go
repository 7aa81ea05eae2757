package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type dbCheckResponse struct {
	Success       bool   `json:"success"`
	Database      string `json:"database"`
	SchemaVersion int    `json:"schemaVersion"`
}

// DBCheck reports which database the server is connected to.
func (h *Handler) DBCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status, err := h.schema.VerifyConnection(ctx)
	if err != nil {
		return h.storeError(c, "verify connection", err)
	}
	version, err := h.schema.SchemaVersion(ctx)
	if err != nil {
		return h.storeError(c, "read schema version", err)
	}
	return c.JSON(http.StatusOK, dbCheckResponse{Success: true, Database: status.Database, SchemaVersion: version})
}

// InitDatabase creates any missing tables and columns. Nothing is dropped.
func (h *Handler) InitDatabase(c echo.Context) error {
	if err := h.schema.Initialize(c.Request().Context()); err != nil {
		return h.storeError(c, "initialize database", err)
	}
	h.log.Info("database initialized", zap.Any("by", c.Get("username")))
	return ok(c, http.StatusOK, result{Message: "Database initialized"})
}

// MigrateLegacy moves every child table off the per-row name and email columns.
func (h *Handler) MigrateLegacy(c echo.Context) error {
	reports, err := h.schema.MigrateAllLegacyRows(c.Request().Context())
	if err != nil {
		// Reports still describe what succeeded.
		h.log.Error("migrate legacy rows", zap.Error(err), zap.String("request_id", requestID(c)))
		return c.JSON(http.StatusInternalServerError, result{Message: msgTryAgain, Data: reports})
	}
	return ok(c, http.StatusOK, result{Message: "Legacy rows migrated", Data: reports})
}

// ResetDatabase drops and recreates the data tables when the environment allows it.
func (h *Handler) ResetDatabase(c echo.Context) error {
	err := h.schema.ResetAll(c.Request().Context(), h.opts.AllowDBReset, h.opts.IsProduction)
	if err != nil {
		return h.storeError(c, "reset database", err)
	}
	h.log.Warn("database reset via api", zap.Any("by", c.Get("username")))
	return ok(c, http.StatusOK, result{Message: "Database reset"})
}
