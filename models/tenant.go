package models

import (
	"database/sql"
	"time"
)

// Tenant is a physical venue with its own chat space. The hardware-lock
// fields (Bssid, StaticIp) are fingerprints used by the resolve endpoints,
// never by the message router itself.
type Tenant struct {
	ID          uint64 `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex"`
	Name        string
	Bssid       sql.NullString
	StaticIp    sql.NullString
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
