package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"gorm.io/gorm"
)

// ChatUserInfo identifies a chat user for moderation actions, by alias
// and/or IP address
type ChatUserInfo struct {
	Alias     string `json:"alias"`
	IpAddress string `json:"ip_address"`
}

// ModerationService decides who may moderate a tenant's chat and manages
// mutes and banned words
type ModerationService struct {
	DB      *gorm.DB
	Tenants *TenantsService
}

// MembershipCanModerate is the permission check for moderated deletion. It
// is a pure function over the membership row: admins and moderators can
// always moderate, anyone else needs the explicit capability flag.
func MembershipCanModerate(m *models.Membership) bool {
	if m == nil {
		return false
	}
	if m.Role == models.RoleAdmin || m.Role == models.RoleModerator {
		return true
	}
	return m.CanModerate
}

// CanModerate reports whether the user may moderate the tenant's chat
func (s *ModerationService) CanModerate(userID uint64, tenantSlug string) (bool, error) {
	tenant, err := s.Tenants.GetTenantBySlug(tenantSlug)
	if err != nil {
		return false, err
	}
	if tenant == nil {
		return false, nil
	}
	membership, err := s.Tenants.GetMembership(userID, tenant.ID)
	if err != nil {
		return false, err
	}
	return MembershipCanModerate(membership), nil
}

// MuteUser mutes a user in a tenant's chat, optionally until a given date
func (s *ModerationService) MuteUser(
	tenantID uint64,
	user *ChatUserInfo,
	untilDate *time.Time,
) (*models.MutedUser, error) {

	// If the user info is missing both fields
	if len(user.Alias) == 0 && len(user.IpAddress) == 0 {
		return nil, nil
	}

	// Create the until date
	var until sql.NullTime
	if untilDate != nil {
		until = sql.NullTime{
			Valid: true,
			Time:  *untilDate,
		}
	}

	// Add an entry to mute the user
	mutedUser := models.MutedUser{
		TenantID:    tenantID,
		UntilDate:   until,
		CreatedDate: time.Now(),
	}
	if len(user.Alias) > 0 {
		mutedUser.Alias = sql.NullString{
			Valid:  true,
			String: user.Alias,
		}
	}
	if len(user.IpAddress) > 0 {
		mutedUser.IpAddress = sql.NullString{
			Valid:  true,
			String: user.IpAddress,
		}
	}
	if err := s.DB.Create(&mutedUser).Error; err != nil {
		return nil, err
	}
	return &mutedUser, nil

}

// UnmuteUser lifts any active mutes matching the user in the tenant's chat
func (s *ModerationService) UnmuteUser(
	tenantID uint64,
	user *ChatUserInfo,
) error {

	// If the user info is missing both fields
	if len(user.Alias) == 0 && len(user.IpAddress) == 0 {
		return nil
	}

	// Construct the query
	query := s.DB.
		Model(&models.MutedUser{}).
		Where("deleted_date IS NULL").
		Where("tenant_id = ?", tenantID)

	// Create the ors
	ors := s.DB

	// Add the alias and/or IP address
	if len(user.Alias) > 0 {
		ors = ors.Or("alias LIKE ?", user.Alias)
	}
	if len(user.IpAddress) > 0 {
		ors = ors.Or("ip_address LIKE ?", user.IpAddress)
	}

	// Update all of the matching mutes and mark as deleted
	return query.
		Where(ors).
		Update("deleted_date", time.Now()).
		Error

}

// IsUserMuted checks whether the user is currently muted in the tenant's chat
func (s *ModerationService) IsUserMuted(
	tenantID uint64,
	user *ChatUserInfo,
) (bool, error) {

	// If the user info is missing both fields
	if len(user.Alias) == 0 && len(user.IpAddress) == 0 {
		return false, nil
	}

	// Construct the query
	query := s.DB.
		Where("deleted_date IS NULL").
		Where("until_date IS NULL OR until_date > ?", time.Now()).
		Where("tenant_id = ?", tenantID)

	// Create the ors
	ors := s.DB

	// Add the alias and/or IP address
	if len(user.Alias) > 0 {
		ors = ors.Or("alias LIKE ?", user.Alias)
	}
	if len(user.IpAddress) > 0 {
		ors = ors.Or("ip_address LIKE ?", user.IpAddress)
	}

	var mutedUser models.MutedUser
	if err := query.Where(ors).First(&mutedUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil

}

// GetBannedWords gets all of the banned words for a tenant. The slice
// returned also includes all of the platform-wide banned words
func (s *ModerationService) GetBannedWords(tenantID uint64) ([]*models.BannedWord, error) {
	var bannedWords []*models.BannedWord
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("tenant_id IS NULL OR tenant_id = ?", tenantID).
		Find(&bannedWords).
		Error
	if err != nil {
		return nil, err
	}
	return bannedWords, nil
}

func (s *ModerationService) messageContainsBannedWord(message string, bw *models.BannedWord) bool {
	return strings.Contains(
		strings.ToLower(message),
		strings.ToLower(bw.Word),
	)
}

// CanSendMessage determines if a given message can be sent from a user to
// the tenant's chat
func (s *ModerationService) CanSendMessage(
	tenantID uint64,
	user *ChatUserInfo,
	message string,
) (bool, *models.BannedWord, error) {

	// Check if the user is muted
	muted, err := s.IsUserMuted(tenantID, user)
	if err != nil {
		return false, nil, err
	}
	if muted {
		return false, nil, nil
	}

	// Check for all the banned words
	bannedWords, err := s.GetBannedWords(tenantID)
	if err != nil {
		return false, nil, err
	}

	// Loop through the banned words
	for _, bw := range bannedWords {
		if s.messageContainsBannedWord(message, bw) {
			return false, bw, nil
		}
	}

	// The message looks good
	return true, nil, nil

}
