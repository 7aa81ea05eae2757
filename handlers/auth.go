package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/NissBloom/runspire/middleware"
	"github.com/NissBloom/runspire/store"
)

// tokenLifetime is how long an admin session lasts.
const tokenLifetime = 30 * 24 * time.Hour

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signin validates admin credentials and returns a JWT token valid for 30 days.
func (h *Handler) Signin(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return fail(c, http.StatusBadRequest, "username and password are required")
	}

	admin, err := h.store.AdminByUsername(c.Request().Context(), creds.Username)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "incorrect username or password")
	}
	if err != nil {
		return h.storeError(c, "signin", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(creds.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "incorrect username or password")
	}

	token, err := mw.IssueToken(admin.Username, h.opts.JWTKey, time.Now().Add(tokenLifetime))
	if err != nil {
		h.log.Error("sign token", zap.Error(err))
		return fail(c, http.StatusInternalServerError, msgTryAgain)
	}
	h.log.Info("admin signed in", zap.String("username", admin.Username))
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
