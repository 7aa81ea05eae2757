package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TrainingPlan is one completed run of the plan-builder wizard.
type TrainingPlan struct {
	bun.BaseModel `bun:"table:training_plans,alias:tp"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64     `bun:"user_id,notnull" json:"userID"`
	Goal           string    `bun:"goal,notnull,type:text" json:"goal"`
	Experience     string    `bun:"experience,notnull,type:text" json:"experience"`
	DaysPerWeek    int       `bun:"days_per_week,notnull" json:"daysPerWeek"`
	CurrentMileage int       `bun:"current_mileage,notnull" json:"currentMileage"`
	RaceDistance   *string   `bun:"race_distance,type:text" json:"raceDistance,omitempty"`
	PersonalBest   *string   `bun:"personal_best,type:text" json:"personalBest,omitempty"`
	Bundle         *string   `bun:"bundle,type:text" json:"bundle,omitempty"`
	CTA            *string   `bun:"cta,type:text" json:"cta,omitempty"`
	CreatedAt      time.Time `bun:"created_at,nullzero,type:timestamptz,default:current_timestamp" json:"createdAt"`
}
