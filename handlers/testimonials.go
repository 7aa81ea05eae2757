package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/NissBloom/runspire/store"
)

type testimonialRequest struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Achievement         string `json:"achievement"`
	Comment             string `json:"comment"`
	Rating              int    `json:"rating"`
	ImageURL            string `json:"imageUrl"`
	ImprovementFeedback string `json:"improvementFeedback"`
}

func (r *testimonialRequest) validate() string {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Achievement = strings.TrimSpace(r.Achievement)
	r.Comment = strings.TrimSpace(r.Comment)
	switch {
	case r.FirstName == "" || r.LastName == "":
		return "first and last name are required"
	case r.Achievement == "":
		return "achievement is required"
	case r.Comment == "":
		return "comment is required"
	case r.Rating < 1 || r.Rating > 5:
		return "rating must be between 1 and 5"
	}
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		r.Email = anonymousEmail(r.FirstName, r.LastName)
	} else if !strings.Contains(r.Email, "@") {
		return "email is invalid"
	}
	return ""
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// anonymousEmail gives a testimonial without an address its own trainee per name.
func anonymousEmail(first, last string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(first+"."+last), "."), ".")
	if slug == "" {
		slug = "anonymous"
	}
	return "testimonial+" + slug + "@runspire.invalid"
}

// SubmitTestimonial stores a pending testimonial.
func (h *Handler) SubmitTestimonial(c echo.Context) error {
	var req testimonialRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	id, err := h.store.CreateTestimonial(c.Request().Context(), store.NewTestimonial{
		Trainee:             store.Trainee{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email},
		Achievement:         req.Achievement,
		Comment:             req.Comment,
		Rating:              req.Rating,
		ImageURL:            req.ImageURL,
		ImprovementFeedback: req.ImprovementFeedback,
	})
	if err != nil {
		return h.storeError(c, "submit testimonial", err)
	}
	return ok(c, http.StatusCreated, result{
		ID:      id,
		Message: "Thank you for sharing your story! It will appear once it has been reviewed.",
	})
}

// Testimonials lists published testimonials, plus the caller's own pending ones when ?email= is set.
func (h *Handler) Testimonials(c echo.Context) error {
	rows, err := h.store.ApprovedTestimonials(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return h.storeError(c, "list testimonials", err)
	}
	public := make([]publicTestimonial, len(rows))
	for i, row := range rows {
		public[i] = toPublicTestimonial(row)
	}
	return c.JSON(http.StatusOK, public)
}

// publicTestimonial is what anonymous visitors see. Email, trainee id and
// improvement feedback stay on the admin routes.
type publicTestimonial struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastInitial string    `json:"lastInitial"`
	Achievement string    `json:"achievement"`
	Comment     string    `json:"comment"`
	Rating      int       `json:"rating"`
	ImageURL    *string   `json:"imageUrl"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPublicTestimonial(row store.TestimonialRow) publicTestimonial {
	return publicTestimonial{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastInitial: lastInitial(row.LastName),
		Achievement: row.Achievement,
		Comment:     row.Comment,
		Rating:      row.Rating,
		ImageURL:    row.ImageURL,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
	}
}

// lastInitial turns "Doe" into "D.".
func lastInitial(last string) string {
	for _, r := range strings.TrimSpace(last) {
		return string(unicode.ToUpper(r)) + "."
	}
	return ""
}

// AllTestimonials lists every testimonial for moderation.
func (h *Handler) AllTestimonials(c echo.Context) error {
	rows, err := h.store.AllTestimonials(c.Request().Context())
	if err != nil {
		return h.storeError(c, "list all testimonials", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) ApproveTestimonial(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid testimonial id")
	}
	if err := h.store.ApproveTestimonial(c.Request().Context(), id); err != nil {
		return h.storeError(c, "approve testimonial", err)
	}
	return ok(c, http.StatusOK, result{ID: id, Message: "Testimonial approved"})
}

func (h *Handler) RejectTestimonial(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid testimonial id")
	}
	if err := h.store.RejectTestimonial(c.Request().Context(), id); err != nil {
		return h.storeError(c, "reject testimonial", err)
	}
	return ok(c, http.StatusOK, result{ID: id, Message: "Testimonial rejected"})
}

type testimonialUpdateRequest struct {
	FirstName           *string `json:"firstName"`
	LastName            *string `json:"lastName"`
	Achievement         *string `json:"achievement"`
	Comment             *string `json:"comment"`
	Rating              *int    `json:"rating"`
	ImageURL            *string `json:"imageUrl"`
	ImprovementFeedback *string `json:"improvementFeedback"`
}

func (r testimonialUpdateRequest) validate() string {
	for name, v := range map[string]*string{
		"first name":  r.FirstName,
		"last name":   r.LastName,
		"achievement": r.Achievement,
		"comment":     r.Comment,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return name + " cannot be empty"
		}
	}
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		return "rating must be between 1 and 5"
	}
	return ""
}

// UpdateTestimonial edits content fields. Status is only changed by approve and reject.
func (h *Handler) UpdateTestimonial(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid testimonial id")
	}
	var req testimonialUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	err := h.store.UpdateTestimonial(c.Request().Context(), id, store.TestimonialUpdate{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Achievement:         req.Achievement,
		Comment:             req.Comment,
		Rating:              req.Rating,
		ImageURL:            req.ImageURL,
		ImprovementFeedback: req.ImprovementFeedback,
	})
	if err != nil {
		return h.storeError(c, "update testimonial", err)
	}
	return ok(c, http.StatusOK, result{ID: id, Message: "Testimonial updated"})
}
