package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SchemaMeta is the single-row schema version marker.
type SchemaMeta struct {
	bun.BaseModel `bun:"table:schema_meta,alias:sm"`

	ID        int       `bun:"id,pk,type:smallint"`
	Version   int       `bun:"version,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,type:timestamptz,default:current_timestamp"`
}
