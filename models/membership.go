package models

import (
	"database/sql"
	"time"
)

// Role is the closed set of membership roles within a tenant.
type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleStaff     Role = "STAFF"
)

// Membership ties a user to a tenant with a role and explicit capability
// flags. Moderation permission is decided from this row alone.
type Membership struct {
	ID          uint64 `gorm:"primaryKey"`
	UserID      uint64 `gorm:"index"`
	User        *User
	TenantID    uint64 `gorm:"index"`
	Tenant      *Tenant
	Role        Role
	CanModerate bool
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
