package services

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"github.com/rs/zerolog"
)

func setupAuth(t *testing.T) (*AuthService, *SessionsService, *UsersService, *TenantsService) {
	t.Helper()
	db := setupDB(t)
	users := &UsersService{DB: db}
	sessions := &SessionsService{DB: db, SigningPepper: "test-pepper"}
	tenants := &TenantsService{DB: db}
	auth := &AuthService{
		Users:    users,
		Sessions: sessions,
		Tenants:  tenants,
		Log:      zerolog.Nop(),
	}
	return auth, sessions, users, tenants
}

func TestAuthenticateMintsAnonymousUser(t *testing.T) {
	auth, _, _, _ := setupAuth(t)

	identity, err := auth.Authenticate(url.Values{})
	if err != nil {
		t.Fatalf("anonymous connect failed: %v", err)
	}
	if !identity.Created {
		t.Fatal("a fresh connection must mint a new identity")
	}
	if identity.User.PublicID == "" {
		t.Fatal("minted user must have a public id")
	}
	if !strings.HasPrefix(identity.User.Alias, "Guest-") {
		t.Fatalf("expected a generated guest alias, got %q", identity.User.Alias)
	}
	if !identity.User.Anonymous {
		t.Fatal("minted user must be anonymous")
	}
}

func TestAuthenticateKeepsSuppliedAlias(t *testing.T) {
	auth, _, _, _ := setupAuth(t)

	identity, err := auth.Authenticate(url.Values{"userAlias": {"Mo"}})
	if err != nil {
		t.Fatalf("anonymous connect failed: %v", err)
	}
	if identity.User.Alias != "Mo" {
		t.Fatalf("expected supplied alias to stick, got %q", identity.User.Alias)
	}
}

func TestAuthenticateConfirmsKnownUser(t *testing.T) {
	auth, _, users, _ := setupAuth(t)

	existing, err := users.CreateAnonymous("Mo", "")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// The client supplies a stale alias; the stored one wins
	identity, err := auth.Authenticate(url.Values{
		"userId":    {existing.PublicID},
		"userAlias": {"SomeoneElse"},
	})
	if err != nil {
		t.Fatalf("reconnect failed: %v", err)
	}
	if identity.Created {
		t.Fatal("a known id must be confirmed, not re-minted")
	}
	if identity.User.ID != existing.ID || identity.User.Alias != "Mo" {
		t.Fatalf("expected the stored user back, got %+v", identity.User)
	}
}

func TestAuthenticateUnknownIDMintsNewUser(t *testing.T) {
	auth, _, _, _ := setupAuth(t)

	identity, err := auth.Authenticate(url.Values{"userId": {"gone"}})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if !identity.Created {
		t.Fatal("an unknown id must mint a fresh identity")
	}
	if identity.User.PublicID == "gone" {
		t.Fatal("the unknown id must not be reused")
	}
}

func TestAuthenticateSessionToken(t *testing.T) {
	auth, sessions, users, tenants := setupAuth(t)

	user, err := users.CreateAnonymous("Mo", "")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	tenant, rooms := seedTenant(t, tenants.DB, "cafe-1")
	membership := &models.Membership{
		UserID:      user.ID,
		TenantID:    tenant.ID,
		Role:        models.RoleStaff,
		CreatedDate: time.Now(),
	}
	if err := tenants.DB.Create(membership).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	session, err := sessions.CreateSession(user, time.Hour)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	identity, err := auth.Authenticate(url.Values{"token": {session.Token}})
	if err != nil {
		t.Fatalf("token connect failed: %v", err)
	}
	if identity.Session == nil || identity.User.ID != user.ID {
		t.Fatalf("expected the session user, got %+v", identity)
	}
	if len(identity.MemberRooms) != len(rooms) {
		t.Fatalf("expected %d member rooms to auto-join, got %d", len(rooms), len(identity.MemberRooms))
	}
}

func TestAuthenticateExpiredSessionRejected(t *testing.T) {
	auth, sessions, users, _ := setupAuth(t)

	user, err := users.CreateAnonymous("Mo", "")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	session, err := sessions.CreateSession(user, -time.Minute)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	_, err = auth.Authenticate(url.Values{"token": {session.Token}})
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("an expired token must close the connection, got %v", err)
	}
}

func TestAuthenticateGarbageTokenRejected(t *testing.T) {
	auth, _, _, _ := setupAuth(t)

	_, err := auth.Authenticate(url.Values{"token": {"not-a-jwt"}})
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("a malformed token must close the connection, got %v", err)
	}
}

func TestRevokedSessionRejected(t *testing.T) {
	auth, sessions, users, _ := setupAuth(t)

	user, err := users.CreateAnonymous("Mo", "")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	session, err := sessions.CreateSession(user, time.Hour)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := sessions.Revoke(session.Token); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}

	_, err = auth.Authenticate(url.Values{"token": {session.Token}})
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("a revoked token must close the connection, got %v", err)
	}
}

func TestSessionSignatureChecked(t *testing.T) {
	_, sessions, users, _ := setupAuth(t)

	user, err := users.CreateAnonymous("Mo", "")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	session, err := sessions.CreateSession(user, time.Hour)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	// Same row, different pepper: the signature check must fail before the
	// database is ever consulted
	forged := &SessionsService{DB: sessions.DB, SigningPepper: "other-pepper"}
	if _, err := forged.GetByToken(session.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("a token signed with another pepper must be invalid, got %v", err)
	}
}
