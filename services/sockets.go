package services

import (
	"github.com/godocompany/venuechat-api/models"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog"
)

// SocketContext is attached to every connection once it is authenticated.
type SocketContext struct {
	Identity *ResolvedIdentity
}

// JoinRequest is the wire shape of the join event.
type JoinRequest struct {
	User struct {
		ID     string `json:"id"`
		Alias  string `json:"alias"`
		Gender string `json:"gender"`
	} `json:"user"`
	TenantSlug string `json:"tenantSlug"`
}

// IdentityMsg is the payload of the userCreated / userConfirmed events.
type IdentityMsg struct {
	ID       string `json:"id"`
	Alias    string `json:"alias"`
	TenantID uint64 `json:"tenantId,omitempty"`
}

// SocketsService is the realtime gateway: it wires authentication, presence,
// routing and moderation around the socket server's lifecycle.
type SocketsService struct {
	Server   *socketio.Server
	Auth     *AuthService
	Presence *PresenceService
	Tenants  *TenantsService
	Router   *RouterService
	Limiter  *RateLimiter
	Buffer   *MessageBufferGroup
	Log      zerolog.Logger
}

// Setup registers all of the socket event handlers
func (s *SocketsService) Setup() {

	// Authenticate every connection before anything else. Returning an error
	// here rejects the connection, so an expired token never reaches join.
	s.Server.OnConnect("/", s.OnConnect)

	// When a socket disconnects
	s.Server.OnDisconnect("/", s.OnDisconnect)

	// Register all of the event handlers
	s.Server.OnEvent("/", "join", s.OnJoin)
	s.Server.OnEvent("/", "sendMessage", s.OnSendMessage)
	s.Server.OnEvent("/", "deleteMessage", s.OnDeleteMessage)

}

// Broadcast broadcasts an event to every member of a socket group. This is
// the Broadcaster the router dispatches through.
func (s *SocketsService) BroadcastToRoom(room, event string, args ...interface{}) bool {
	return s.Server.BroadcastToRoom("/", room, event, args...)
}

func (s *SocketsService) OnConnect(conn socketio.Conn) error {

	u := conn.URL()
	query := u.Query()
	identity, err := s.Auth.Authenticate(query)
	if err != nil {
		s.Log.Info().
			Err(err).
			Str("conn_id", conn.ID()).
			Msg("rejecting connection")
		return err
	}
	conn.SetContext(&SocketContext{Identity: identity})

	if identity.Session == nil {
		// Anonymous path: tell the client whether this identity is new, so
		// it knows to store the id for future reconnects
		event := "userConfirmed"
		if identity.Created {
			event = "userCreated"
		}
		msg := IdentityMsg{
			ID:    identity.User.PublicID,
			Alias: identity.User.Alias,
		}
		if identity.User.TenantID.Valid {
			msg.TenantID = uint64(identity.User.TenantID.Int64)
		}
		conn.Emit(event, msg)
		return nil
	}

	// Token path: rejoin every room the user is a member of, then auto-join
	// the tenant from the handshake without waiting for a join event
	for _, room := range identity.MemberRooms {
		conn.Join(ChatRoomName(room.ID))
	}
	if slug := query.Get("tenantSlug"); slug != "" {
		s.joinTenant(conn, identity.User, slug, identity.User.Gender)
	}
	return nil

}

func (s *SocketsService) OnDisconnect(conn socketio.Conn, reason string) {
	s.Limiter.Forget(conn.ID())
	conn.LeaveAll()
	entry := s.Presence.Remove(conn.ID())
	if entry != nil {
		s.broadcastPresence(entry.TenantSlug)
	}
}

// OnJoin establishes presence in a tenant for the web client path
func (s *SocketsService) OnJoin(conn socketio.Conn, data JoinRequest) error {

	ctx, ok := conn.Context().(*SocketContext)
	if !ok || ctx.Identity == nil {
		return nil
	}

	// The resolved identity wins over the payload for id and alias; the
	// gender tag is display styling, so the payload may override it
	gender := ctx.Identity.User.Gender
	if data.User.Gender != "" {
		gender = data.User.Gender
	}

	s.joinTenant(conn, ctx.Identity.User, data.TenantSlug, gender)
	return nil

}

// joinTenant registers presence, joins the lobby and private groups, then
// resolves the tenant's rooms and joins those too.
func (s *SocketsService) joinTenant(
	conn socketio.Conn,
	user *models.User,
	tenantSlug string,
	gender string,
) {

	entry := &PresenceEntry{
		UserID: user.ID,
		User: OnlineUser{
			ID:       user.PublicID,
			Alias:    user.Alias,
			Gender:   gender,
			SocketID: conn.ID(),
		},
		TenantSlug: tenantSlug,
		RoomIDs:    []uint64{},
	}
	s.Presence.Set(conn.ID(), entry)

	conn.Join(TenantLobbyRoom(tenantSlug))
	conn.Join(UserRoom(user.PublicID))
	s.broadcastPresence(tenantSlug)

	// Replay the recent lobby messages to the new arrival
	for _, msg := range s.Buffer.CopyMessages(tenantSlug) {
		conn.Emit("newMessage", msg)
	}

	// Resolve the tenant's rooms. If the directory lookup fails, the join
	// stands at the lobby level with an empty room set.
	tenant, err := s.Tenants.GetTenantBySlug(tenantSlug)
	if err != nil || tenant == nil {
		if err != nil {
			s.Log.Warn().
				Err(err).
				Str("tenant_slug", tenantSlug).
				Msg("tenant lookup failed during join")
		}
		return
	}
	rooms, err := s.Tenants.GetRooms(tenant.ID)
	if err != nil {
		s.Log.Warn().
			Err(err).
			Str("tenant_slug", tenantSlug).
			Msg("room lookup failed during join")
		rooms = nil
	}
	roomIDs := make([]uint64, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	// The connection may have dropped while the lookups were in flight. The
	// registry entry is the source of truth: if it is gone, stop here.
	if !s.Presence.UpdateRooms(conn.ID(), tenant.ID, roomIDs) {
		return
	}
	for _, roomID := range roomIDs {
		conn.Join(ChatRoomName(roomID))
	}

}

// OnSendMessage routes one message from a connection
func (s *SocketsService) OnSendMessage(conn socketio.Conn, msg ChatMessage) error {
	if err := s.Router.HandleSend(conn, conn.ID(), &msg); err != nil {
		s.Log.Error().
			Err(err).
			Str("conn_id", conn.ID()).
			Str("message_id", msg.ID).
			Msg("message send failed")
		return err
	}
	return nil
}

// OnDeleteMessage handles a moderated deletion request
func (s *SocketsService) OnDeleteMessage(conn socketio.Conn, req DeleteRequest) error {
	if err := s.Router.HandleDelete(conn, conn.ID(), &req); err != nil {
		s.Log.Error().
			Err(err).
			Str("conn_id", conn.ID()).
			Str("message_id", req.MessageID).
			Msg("message delete failed")
		return err
	}
	return nil
}

func (s *SocketsService) broadcastPresence(tenantSlug string) {
	users := s.Presence.ListByTenant(tenantSlug)

	// Presence goes through the router's broadcaster so a cross-process
	// bridge, when configured, relays it too
	s.Router.Broadcaster.BroadcastToRoom(TenantLobbyRoom(tenantSlug), "presenceUpdate", users)
}
