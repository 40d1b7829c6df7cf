package services

import (
	"errors"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"gorm.io/gorm"
)

// AccountsService manages account access to the dashboard. This is admin access, and is unrelated to
// the chat users on the sockets themselves
type AccountsService struct {
	DB *gorm.DB
}

// CreateAccount creates an admin account with the given login credentials
func (s *AccountsService) CreateAccount(email, password string) (*models.Account, error) {
	account := models.Account{
		Email:       email,
		CreatedDate: time.Now(),
	}
	if err := account.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.DB.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByLogin finds an account with the provided login credentials
func (s *AccountsService) FindByLogin(email, password string) (*models.Account, error) {

	// Find the account with the email
	var account models.Account
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("email LIKE ?", email).
		First(&account).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Verify the password
	if !account.VerifyPassword(password) {
		return nil, nil
	}

	// Return the account
	return &account, nil

}
