package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is an admin dashboard login. This is staff access to the HTTP API,
// unrelated to the chat users on the sockets themselves.
type Account struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedDate  time.Time
	DeletedDate  sql.NullTime
}

// SetPassword hashes the password and stores it on the account
func (a *Account) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
