package models

import (
	"database/sql"
	"time"
)

// NasDevice is a captive-portal network access server registered to a tenant.
// Connecting clients present the NAS id as one of the venue fingerprints.
type NasDevice struct {
	ID          uint64 `gorm:"primaryKey"`
	TenantID    uint64
	Tenant      *Tenant
	NasID       string `gorm:"index"`
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
