package services

import (
	"net/url"

	"github.com/godocompany/venuechat-api/models"
	"github.com/rs/zerolog"
)

// ResolvedIdentity is the outcome of authenticating a connecting socket.
// Created is true when a brand-new anonymous identity was minted, so the
// client knows to persist the id locally. Session is non-nil only on the
// token path, and MemberRooms are the rooms to auto-join for reconnect
// continuity across tenants.
type ResolvedIdentity struct {
	User        *models.User
	Created     bool
	Session     *models.Session
	MemberRooms []*models.Room
}

// AuthService resolves a connecting socket to a user identity from its
// handshake query. Any error returned here must terminate the connection; a
// socket is never left half-authenticated.
type AuthService struct {
	Users    *UsersService
	Sessions *SessionsService
	Tenants  *TenantsService
	Log      zerolog.Logger
}

// Authenticate resolves the handshake query to an identity.
//
// With a token, the session must exist and be unexpired, or the connection
// is rejected outright; the client has to re-auth, there is no retry here.
// Without a token, a previously-known user id is reused when it resolves
// (the stored alias wins over the client-supplied one), and otherwise a new
// anonymous user is minted.
func (s *AuthService) Authenticate(query url.Values) (*ResolvedIdentity, error) {

	token := query.Get("token")
	if token != "" {
		return s.authenticateSession(token)
	}

	// Anonymous path
	user, err := s.Users.GetByPublicID(query.Get("userId"))
	if err != nil {
		return nil, err
	}
	if user != nil {
		return &ResolvedIdentity{User: user}, nil
	}
	user, err = s.Users.CreateAnonymous(
		query.Get("userAlias"),
		query.Get("userGender"),
	)
	if err != nil {
		return nil, err
	}
	return &ResolvedIdentity{
		User:    user,
		Created: true,
	}, nil

}

func (s *AuthService) authenticateSession(token string) (*ResolvedIdentity, error) {

	session, err := s.Sessions.GetByToken(token)
	if err != nil {
		return nil, err
	}

	// Collect the rooms of every tenant the user is a member of, so the
	// native reconnection path resumes receiving room broadcasts
	memberships, err := s.Tenants.GetMemberships(session.UserID)
	if err != nil {
		return nil, err
	}
	var rooms []*models.Room
	for _, membership := range memberships {
		tenantRooms, err := s.Tenants.GetRooms(membership.TenantID)
		if err != nil {
			s.Log.Warn().
				Err(err).
				Uint64("tenant_id", membership.TenantID).
				Msg("failed to fetch rooms for membership")
			continue
		}
		rooms = append(rooms, tenantRooms...)
	}

	return &ResolvedIdentity{
		User:        session.User,
		Session:     session,
		MemberRooms: rooms,
	}, nil

}
