package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/godocompany/venuechat-api/models"
)

func TestGetTenantBySlug(t *testing.T) {
	db := setupDB(t)
	seedTenant(t, db, "cafe-1")
	service := &TenantsService{DB: db}

	tenant, err := service.GetTenantBySlug("cafe-1")
	if err != nil {
		t.Fatalf("GetTenantBySlug failed: %v", err)
	}
	if tenant == nil || tenant.Slug != "cafe-1" {
		t.Fatalf("expected cafe-1, got %+v", tenant)
	}

	tenant, err = service.GetTenantBySlug("nowhere")
	if err != nil || tenant != nil {
		t.Fatalf("unknown slug must return nil without error, got (%+v, %v)", tenant, err)
	}
}

func TestGetTenantByFingerprints(t *testing.T) {
	db := setupDB(t)
	tenant, _ := seedTenant(t, db, "cafe-1")

	// Register a NAS device and the hardware-lock fields
	device := &models.NasDevice{
		TenantID:    tenant.ID,
		NasID:       "nas-001",
		CreatedDate: time.Now(),
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("failed to create NAS device: %v", err)
	}
	err := db.Model(tenant).Updates(map[string]interface{}{
		"bssid":     sql.NullString{Valid: true, String: "aa:bb:cc:dd:ee:ff"},
		"static_ip": sql.NullString{Valid: true, String: "203.0.113.9"},
	}).Error
	if err != nil {
		t.Fatalf("failed to set fingerprints: %v", err)
	}

	service := &TenantsService{DB: db}

	byNas, err := service.GetTenantByNasID("nas-001")
	if err != nil || byNas == nil || byNas.Slug != "cafe-1" {
		t.Fatalf("NAS resolve failed: (%+v, %v)", byNas, err)
	}
	byBssid, err := service.GetTenantByBssid("aa:bb:cc:dd:ee:ff")
	if err != nil || byBssid == nil || byBssid.Slug != "cafe-1" {
		t.Fatalf("BSSID resolve failed: (%+v, %v)", byBssid, err)
	}
	byIP, err := service.GetTenantByIP("203.0.113.9")
	if err != nil || byIP == nil || byIP.Slug != "cafe-1" {
		t.Fatalf("IP resolve failed: (%+v, %v)", byIP, err)
	}

	missing, err := service.GetTenantByNasID("nas-other")
	if err != nil || missing != nil {
		t.Fatalf("unknown NAS must return nil without error, got (%+v, %v)", missing, err)
	}
}

func TestGetRooms(t *testing.T) {
	db := setupDB(t)
	tenant, rooms := seedTenant(t, db, "cafe-1")
	other, _ := seedTenant(t, db, "cafe-2")
	service := &TenantsService{DB: db}

	got, err := service.GetRooms(tenant.ID)
	if err != nil {
		t.Fatalf("GetRooms failed: %v", err)
	}
	if len(got) != len(rooms) {
		t.Fatalf("expected %d rooms, got %d", len(rooms), len(got))
	}
	for _, room := range got {
		if room.TenantID != tenant.ID {
			t.Fatalf("room %d belongs to tenant %d, not %d", room.ID, room.TenantID, tenant.ID)
		}
	}

	otherRooms, err := service.GetRooms(other.ID)
	if err != nil {
		t.Fatalf("GetRooms failed: %v", err)
	}
	if len(otherRooms) != 2 {
		t.Fatalf("expected 2 rooms for the other tenant, got %d", len(otherRooms))
	}
}

func TestGetMemberships(t *testing.T) {
	db := setupDB(t)
	tenant1, _ := seedTenant(t, db, "cafe-1")
	tenant2, _ := seedTenant(t, db, "cafe-2")
	user := seedUser(t, db, "u1", "Mo")
	service := &TenantsService{DB: db}

	for _, tenantID := range []uint64{tenant1.ID, tenant2.ID} {
		membership := &models.Membership{
			UserID:      user.ID,
			TenantID:    tenantID,
			Role:        models.RoleStaff,
			CreatedDate: time.Now(),
		}
		if err := db.Create(membership).Error; err != nil {
			t.Fatalf("failed to create membership: %v", err)
		}
	}

	memberships, err := service.GetMemberships(user.ID)
	if err != nil {
		t.Fatalf("GetMemberships failed: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(memberships))
	}

	membership, err := service.GetMembership(user.ID, tenant1.ID)
	if err != nil || membership == nil {
		t.Fatalf("GetMembership failed: (%+v, %v)", membership, err)
	}
	membership, err = service.GetMembership(999, tenant1.ID)
	if err != nil || membership != nil {
		t.Fatalf("unknown user must return nil without error, got (%+v, %v)", membership, err)
	}
}
