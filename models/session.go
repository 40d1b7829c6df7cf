package models

import (
	"database/sql"
	"time"
)

// Session is a login session for a chat user. The token is a signed JWT that
// is also stored here so sessions can be revoked server-side.
type Session struct {
	ID             uint64 `gorm:"primaryKey"`
	Token          string `gorm:"uniqueIndex"`
	UserID         uint64
	User           *User
	CreatedDate    time.Time
	ExpirationDate time.Time
	DeletedDate    sql.NullTime
}

// Expired reports whether the session is past its expiration date.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpirationDate)
}
