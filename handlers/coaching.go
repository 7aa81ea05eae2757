package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/NissBloom/runspire/store"
)

var coachingPackages = map[string]bool{"base": true, "performance": true}

type coachingRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PackageType    string `json:"packageType"`
	Goal           string `json:"goal"`
	Experience     string `json:"experience"`
	AdditionalInfo string `json:"additionalInfo"`
}

func (r *coachingRequest) validate() string {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.PackageType = strings.ToLower(strings.TrimSpace(r.PackageType))
	switch {
	case r.FirstName == "" || r.LastName == "":
		return "first and last name are required"
	case r.Email == "":
		return "email is required"
	case !strings.Contains(r.Email, "@"):
		return "email is invalid"
	case r.PackageType == "":
		return "package is required"
	case !coachingPackages[r.PackageType]:
		return "package must be base or performance"
	case strings.TrimSpace(r.Goal) == "":
		return "goal is required"
	}
	return ""
}

// SubmitCoachingRequest stores a coaching request.
func (h *Handler) SubmitCoachingRequest(c echo.Context) error {
	var req coachingRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	id, err := h.store.CreateCoachingRequest(c.Request().Context(), store.NewCoachingRequest{
		Trainee:        store.Trainee{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email},
		PackageType:    req.PackageType,
		Goal:           req.Goal,
		Experience:     req.Experience,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		return h.storeError(c, "submit coaching request", err)
	}
	return ok(c, http.StatusCreated, result{ID: id, Message: "Thanks! I'll be in touch within 24 hours."})
}

// CoachingRequests lists every coaching request for the admin dashboard.
func (h *Handler) CoachingRequests(c echo.Context) error {
	rows, err := h.store.CoachingRequests(c.Request().Context())
	if err != nil {
		return h.storeError(c, "list coaching requests", err)
	}
	return c.JSON(http.StatusOK, rows)
}
