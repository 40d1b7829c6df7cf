package services

import (
	"errors"

	"github.com/godocompany/venuechat-api/models"
	"gorm.io/gorm"
)

// TenantsService is the tenant directory: it resolves tenants by slug or by
// one of the venue network fingerprints (NAS id, BSSID, public IP) and
// exposes room lists and membership rows.
type TenantsService struct {
	DB *gorm.DB
}

// GetTenantBySlug gets the tenant with the provided slug
func (s *TenantsService) GetTenantBySlug(slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("slug = ?", slug).
		First(&tenant).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// GetTenantByNasID resolves a tenant from a captive-portal NAS identifier
func (s *TenantsService) GetTenantByNasID(nasID string) (*models.Tenant, error) {
	var device models.NasDevice
	err := s.DB.
		Preload("Tenant").
		Where("deleted_date IS NULL").
		Where("nas_id = ?", nasID).
		First(&device).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return device.Tenant, nil
}

// GetTenantByBssid resolves a tenant from a WiFi access point BSSID
func (s *TenantsService) GetTenantByBssid(bssid string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("bssid LIKE ?", bssid).
		First(&tenant).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// GetTenantByIP resolves a tenant from its registered static public IP
func (s *TenantsService) GetTenantByIP(ip string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("static_ip = ?", ip).
		First(&tenant).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// GetRooms gets all of the rooms belonging to a tenant
func (s *TenantsService) GetRooms(tenantID uint64) ([]*models.Room, error) {
	var rooms []*models.Room
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("tenant_id = ?", tenantID).
		Find(&rooms).
		Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetMembership gets the membership row tying a user to a tenant, or nil if
// the user is not a member
func (s *TenantsService) GetMembership(userID, tenantID uint64) (*models.Membership, error) {
	var membership models.Membership
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("user_id = ?", userID).
		Where("tenant_id = ?", tenantID).
		First(&membership).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

// GetMemberships gets all of a user's memberships across tenants
func (s *TenantsService) GetMemberships(userID uint64) ([]*models.Membership, error) {
	var memberships []*models.Membership
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("user_id = ?", userID).
		Find(&memberships).
		Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
