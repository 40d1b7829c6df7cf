package models

import (
	"database/sql"
	"time"
)

// Room types. Announcement rooms are read-mostly channels for staff posts.
const (
	RoomTypeAnnouncement = "ANNOUNCEMENT"
	RoomTypeGeneral      = "GENERAL"
)

// Room is a named channel within a tenant. A socket joining a tenant joins
// all of that tenant's rooms so room-scoped broadcasts reach it.
type Room struct {
	ID          uint64 `gorm:"primaryKey"`
	TenantID    uint64
	Tenant      *Tenant
	Name        string
	Type        string
	Description string
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
