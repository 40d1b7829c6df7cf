package models

import (
	"database/sql"
	"time"
)

// MutedUser is a user that is muted in a tenant's chat, matched by alias
// and/or IP address. A null UntilDate means the mute is permanent.
type MutedUser struct {
	ID          uint64 `gorm:"primaryKey"`
	TenantID    uint64
	Tenant      *Tenant
	Alias       sql.NullString
	IpAddress   sql.NullString
	UntilDate   sql.NullTime
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
