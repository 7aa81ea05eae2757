package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Testimonial moderation states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DefaultTestimonialImage is used when a submission carries no picture.
const DefaultTestimonialImage = "/placeholder.svg?height=80&width=80"

// Testimonial is a success story awaiting or past moderation.
type Testimonial struct {
	bun.BaseModel `bun:"table:testimonials,alias:t"`

	ID                  int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID              int64     `bun:"user_id,notnull" json:"userID"`
	Achievement         string    `bun:"achievement,notnull,type:varchar(255)" json:"achievement"`
	Comment             string    `bun:"comment,notnull,type:text" json:"comment"`
	Rating              int       `bun:"rating,notnull" json:"rating"`
	ImageURL            *string   `bun:"image_url,type:text" json:"imageUrl,omitempty"`
	Status              string    `bun:"status,nullzero,type:varchar(50),default:'pending'" json:"status"`
	ImprovementFeedback *string   `bun:"improvement_feedback,type:text" json:"improvementFeedback,omitempty"`
	CreatedAt           time.Time `bun:"created_at,nullzero,type:timestamptz,default:current_timestamp" json:"createdAt"`
}
