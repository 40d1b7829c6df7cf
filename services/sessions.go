package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// ErrSessionInvalid is returned for tokens that are unknown, revoked,
// expired, or fail signature verification.
var ErrSessionInvalid = errors.New("session token is invalid or expired")

// SessionsService manages login sessions for chat users. Tokens are signed
// JWTs that are also stored as rows, so a session can be revoked without
// waiting for the token to expire.
type SessionsService struct {
	DB            *gorm.DB
	SigningPepper string
}

// CreateSession mints a signed token for the user and stores the session row
func (s *SessionsService) CreateSession(user *models.User, ttl time.Duration) (*models.Session, error) {

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.PublicID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.
		NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.SigningPepper))
	if err != nil {
		return nil, err
	}

	session := models.Session{
		Token:          token,
		UserID:         user.ID,
		CreatedDate:    now,
		ExpirationDate: now.Add(ttl),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, err
	}
	session.User = user
	return &session, nil

}

// GetByToken resolves a session from its token. Both the signature and the
// stored row must check out; a missing, revoked or expired session returns
// ErrSessionInvalid.
func (s *SessionsService) GetByToken(token string) (*models.Session, error) {

	// Verify the signature before touching the database
	_, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.SigningPepper), nil
		},
	)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	var session models.Session
	err = s.DB.
		Preload("User").
		Where("deleted_date IS NULL").
		Where("token = ?", token).
		First(&session).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionInvalid
	}
	return &session, nil

}

// Revoke marks a session as deleted so its token stops working
func (s *SessionsService) Revoke(token string) error {
	return s.DB.
		Model(&models.Session{}).
		Where("deleted_date IS NULL").
		Where("token = ?", token).
		Update("deleted_date", time.Now()).
		Error
}
