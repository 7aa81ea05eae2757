package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/NissBloom/runspire/models"
	"github.com/NissBloom/runspire/store"
)

const maxCTALength = 64

type trainingPlanRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Goal           string `json:"goal"`
	Experience     string `json:"experience"`
	DaysPerWeek    int    `json:"daysPerWeek"`
	CurrentMileage int    `json:"currentMileage"`
	RaceDistance   string `json:"raceDistance"`
	PersonalBest   string `json:"personalBest"`
	Bundle         string `json:"bundle"`
	CTA            string `json:"cta"`
}

func (r *trainingPlanRequest) validate() string {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Experience = strings.TrimSpace(r.Experience)
	r.CTA = strings.TrimSpace(r.CTA)
	switch {
	case r.FirstName == "" || r.LastName == "":
		return "first and last name are required"
	case r.Email == "":
		return "email is required"
	case !strings.Contains(r.Email, "@"):
		return "email is invalid"
	case strings.TrimSpace(r.Goal) == "":
		return "goal is required"
	case !models.IsGoal(r.Goal):
		return "goal must be one of 5k, 10k, half, full"
	case r.Experience == "":
		return "experience is required"
	case r.DaysPerWeek < 1 || r.DaysPerWeek > 7:
		return "days per week must be between 1 and 7"
	case r.CurrentMileage < 0:
		return "current mileage cannot be negative"
	case len(r.CTA) > maxCTALength:
		return "cta is too long"
	}
	return ""
}

// SubmitTrainingPlan stores a completed plan-builder wizard.
func (h *Handler) SubmitTrainingPlan(c echo.Context) error {
	var req trainingPlanRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	id, err := h.store.CreateTrainingPlan(c.Request().Context(), store.NewTrainingPlan{
		Trainee:        store.Trainee{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email},
		Goal:           req.Goal,
		Experience:     req.Experience,
		DaysPerWeek:    req.DaysPerWeek,
		CurrentMileage: req.CurrentMileage,
		RaceDistance:   req.RaceDistance,
		PersonalBest:   req.PersonalBest,
		Bundle:         req.Bundle,
		CTA:            req.CTA,
	})
	if err != nil {
		return h.storeError(c, "submit training plan", err)
	}
	return ok(c, http.StatusCreated, result{ID: id, Message: "Your training plan is ready!"})
}

// TrainingPlan returns one plan for the preview page.
func (h *Handler) TrainingPlan(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid plan id")
	}
	plan, err := h.store.TrainingPlan(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, "get training plan", err)
	}
	return c.JSON(http.StatusOK, plan)
}

// TrainingPlans lists every plan for the admin dashboard.
func (h *Handler) TrainingPlans(c echo.Context) error {
	rows, err := h.store.TrainingPlans(c.Request().Context())
	if err != nil {
		return h.storeError(c, "list training plans", err)
	}
	return c.JSON(http.StatusOK, rows)
}

type ctaRequest struct {
	CTA string `json:"cta"`
}

// UpdatePlanCTA records the call to action picked on the preview page.
func (h *Handler) UpdatePlanCTA(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid plan id")
	}
	var req ctaRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.CTA = strings.TrimSpace(req.CTA)
	if req.CTA == "" || len(req.CTA) > maxCTALength {
		return fail(c, http.StatusBadRequest, "cta must be 1 to 64 characters")
	}

	if err := h.store.UpdatePlanCTA(c.Request().Context(), id, req.CTA); err != nil {
		return h.storeError(c, "update plan cta", err)
	}
	return ok(c, http.StatusOK, result{ID: id})
}
