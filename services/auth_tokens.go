package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthTokensService issues and verifies bearer tokens for admin accounts on
// the HTTP API. Account tokens are stateless JWTs; revocation happens by
// deleting the account.
type AuthTokensService struct {
	DB            *gorm.DB
	SigningPepper string
}

// CreateToken creates a signed token for the account
func (s *AuthTokensService) CreateToken(
	account *models.Account,
	issued time.Time,
	expires time.Time,
) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(account.ID, 10),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	return jwt.
		NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.SigningPepper))
}

// GetAccountByToken resolves the account for a bearer token, or nil if the
// token is invalid, expired, or the account no longer exists
func (s *AuthTokensService) GetAccountByToken(token string) (*models.Account, error) {

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.SigningPepper), nil
		},
	)
	if err != nil {
		return nil, nil
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil
	}

	var account models.Account
	err = s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", accountID).
		First(&account).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil

}
