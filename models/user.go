package models

import (
	"database/sql"
	"time"
)

// User is a chat identity. Anonymous users are minted server-side on first
// connection; authenticated users are resolved from a session token.
type User struct {
	ID          uint64 `gorm:"primaryKey"`
	PublicID    string `gorm:"uniqueIndex"`
	Alias       string
	Gender      string
	TenantID    sql.NullInt64
	Tenant      *Tenant
	Anonymous   bool
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
