package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB creates an isolated in-memory database for one test
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Account{},
		&models.BannedWord{},
		&models.Membership{},
		&models.Message{},
		&models.MutedUser{},
		&models.NasDevice{},
		&models.Room{},
		&models.Session{},
		&models.Tenant{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

// seedTenant creates a tenant with a general and an announcement room
func seedTenant(t *testing.T, db *gorm.DB, slug string) (*models.Tenant, []*models.Room) {
	t.Helper()

	tenant := &models.Tenant{
		Slug:        slug,
		Name:        slug,
		CreatedDate: time.Now(),
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}

	rooms := []*models.Room{
		{
			TenantID:    tenant.ID,
			Name:        "General",
			Type:        models.RoomTypeGeneral,
			CreatedDate: time.Now(),
		},
		{
			TenantID:    tenant.ID,
			Name:        "Announcements",
			Type:        models.RoomTypeAnnouncement,
			CreatedDate: time.Now(),
		},
	}
	for _, room := range rooms {
		if err := db.Create(room).Error; err != nil {
			t.Fatalf("Failed to create room: %v", err)
		}
	}
	return tenant, rooms
}

// seedUser creates a chat user
func seedUser(t *testing.T, db *gorm.DB, publicID, alias string) *models.User {
	t.Helper()

	user := &models.User{
		PublicID:    publicID,
		Alias:       alias,
		Anonymous:   true,
		CreatedDate: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}
