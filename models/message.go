package models

import (
	"database/sql"
	"time"
)

// Message is a single chat utterance. PublicID is the client-generated
// idempotency key; Timestamp is stamped server-side at send time. Sender
// alias and gender are denormalized at send time for display, so they can
// drift from the user row if the user renames mid-session.
//
// Exactly one of RecipientID / RoomID is set for private and room-scoped
// messages; neither set means a tenant-wide lobby broadcast.
type Message struct {
	ID             uint64 `gorm:"primaryKey"`
	PublicID       string `gorm:"uniqueIndex"`
	TenantID       uint64 `gorm:"index"`
	Tenant         *Tenant
	RoomID         sql.NullInt64
	Room           *Room
	RecipientID    sql.NullString
	SenderPublicID string
	SenderAlias    string
	SenderGender   string
	Text           string
	Timestamp      time.Time `gorm:"index"`
	CreatedDate    time.Time
	DeletedDate    sql.NullTime
}
