package services

import (
	"errors"
	"strings"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsersService manages the chat user identities behind socket connections
type UsersService struct {
	DB *gorm.DB
}

// GetByPublicID gets the user with the provided client-facing id
func (s *UsersService) GetByPublicID(publicID string) (*models.User, error) {
	if publicID == "" {
		return nil, nil
	}
	var user models.User
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("public_id = ?", publicID).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateAnonymous mints a new anonymous user. When no alias is supplied the
// user gets a generated guest alias.
func (s *UsersService) CreateAnonymous(alias, gender string) (*models.User, error) {
	id := uuid.NewString()
	alias = strings.TrimSpace(alias)
	if alias == "" {
		alias = "Guest-" + id[:8]
	}
	user := models.User{
		PublicID:    id,
		Alias:       alias,
		Gender:      gender,
		Anonymous:   true,
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
