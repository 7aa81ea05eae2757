package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Trainee is the canonical person record every submission attaches to.
type Trainee struct {
	bun.BaseModel `bun:"table:trainees,alias:tr"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstName string    `bun:"first_name,notnull,type:varchar(255)" json:"firstName"`
	LastName  string    `bun:"last_name,notnull,type:varchar(255)" json:"lastName"`
	Email     string    `bun:"email,notnull,unique,type:varchar(255)" json:"email"`
	CreatedAt time.Time `bun:"created_at,nullzero,type:timestamptz,default:current_timestamp" json:"createdAt"`
}
