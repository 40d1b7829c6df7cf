package models

import (
	"database/sql"
	"time"
)

// BannedWord represents a word or phrase that is banned in chat. A row with
// a null TenantID applies platform-wide.
type BannedWord struct {
	ID                   uint64 `gorm:"primaryKey"`
	TenantID             sql.NullInt64
	Tenant               *Tenant
	Word                 string
	TemporaryMuteSeconds sql.NullInt64
	PermanentBan         bool
	CreatedDate          time.Time
	DeletedDate          sql.NullTime
}
