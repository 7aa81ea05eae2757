package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CoachingRequest is a request for personalised coaching.
// Goal is stored in kilometres and Experience as a level 1-3.
type CoachingRequest struct {
	bun.BaseModel `bun:"table:coaching_requests,alias:cr"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64     `bun:"user_id,notnull" json:"userID"`
	PackageType    string    `bun:"package_type,notnull,type:varchar(255)" json:"packageType"`
	Goal           int       `bun:"goal,notnull" json:"goal"`
	Experience     int       `bun:"experience,notnull" json:"experience"`
	AdditionalInfo *string   `bun:"additional_info,type:text" json:"additionalInfo,omitempty"`
	Status         string    `bun:"status,nullzero,type:varchar(255),default:'pending'" json:"status"`
	CreatedAt      time.Time `bun:"created_at,nullzero,type:timestamptz,default:current_timestamp" json:"createdAt"`
}
