package models

import "github.com/uptrace/bun"

// Admin is a dashboard user with bcrypt-hashed password.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
}
