package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"github.com/rs/zerolog"
)

// Broadcaster fans an event out to every socket in a group. Implemented by
// the sockets gateway; swapped for a recorder in tests.
type Broadcaster interface {
	BroadcastToRoom(room, event string, args ...interface{}) bool
}

// Emitter sends an event to a single socket. socketio.Conn satisfies this.
type Emitter interface {
	Emit(event string, args ...interface{})
}

// ChatMessage is the wire shape of a message, both directions. The server
// overwrites the sender fields and timestamp from its own state; clients are
// not trusted for either.
type ChatMessage struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	SenderID     string `json:"senderId"`
	SenderAlias  string `json:"senderAlias"`
	SenderGender string `json:"senderGender"`
	Timestamp    int64  `json:"timestamp"`
	RecipientID  string `json:"recipientId,omitempty"`
	RoomID       uint64 `json:"roomId,omitempty"`
}

// DeleteRequest is the wire shape of a moderated deletion.
type DeleteRequest struct {
	MessageID  string `json:"messageId"`
	RoomID     uint64 `json:"roomId,omitempty"`
	TenantSlug string `json:"tenantSlug"`
}

// RateLimitedMsg tells the sender how long to back off, in milliseconds.
type RateLimitedMsg struct {
	RetryAfter int64 `json:"retryAfter"`
}

// ErrorMsg is the generic recoverable-error event payload.
type ErrorMsg struct {
	Message string `json:"message"`
}

// ErrAmbiguousDestination rejects messages that claim to be both private and
// room-scoped.
var ErrAmbiguousDestination = errors.New("message cannot be both private and room-scoped")

type destinationKind int

const (
	destTenantBroadcast destinationKind = iota
	destPrivate
	destRoom
)

// Destination is the routing decision for a message: private to a user, to
// a room, or the tenant-wide lobby fallback. Built once from validated
// input; a message is never more than one of these.
type Destination struct {
	kind        destinationKind
	recipientID string
	roomID      uint64
}

// ResolveDestination validates the destination fields of an incoming
// message. Setting both recipientId and roomId is rejected rather than
// silently prioritized.
func ResolveDestination(recipientID string, roomID uint64) (Destination, error) {
	if recipientID != "" && roomID != 0 {
		return Destination{}, ErrAmbiguousDestination
	}
	if recipientID != "" {
		return Destination{kind: destPrivate, recipientID: recipientID}, nil
	}
	if roomID != 0 {
		return Destination{kind: destRoom, roomID: roomID}, nil
	}
	return Destination{kind: destTenantBroadcast}, nil
}

// Group naming for the socket layer. Every connection joins its tenant's
// lobby group and its own user group at join time.

// TenantLobbyRoom is the socket group receiving tenant-wide events
func TenantLobbyRoom(tenantSlug string) string {
	return "tenant_" + tenantSlug
}

// UserRoom is the per-user socket group used for private delivery
func UserRoom(userPublicID string) string {
	return "user_" + userPublicID
}

// ChatRoomName is the socket group for a single room
func ChatRoomName(roomID uint64) string {
	return fmt.Sprintf("room_%d", roomID)
}

// RouterService routes incoming messages: rate limit, sanitize, moderation,
// persistence, then dispatch to the right socket group. It also handles
// moderated deletion.
type RouterService struct {
	Presence    *PresenceService
	Limiter     *RateLimiter
	Sanitizer   *Sanitizer
	Moderation  *ModerationService
	Messages    *MessagesService
	Tenants     *TenantsService
	Broadcaster Broadcaster
	Buffer      *MessageBufferGroup
	Log         zerolog.Logger
}

// HandleSend processes one outgoing message from a connection.
//
// Private and room messages are broadcast only after the persist completes,
// so a recipient never sees a message a crash could lose. The lobby fallback
// persists in the background for responsiveness; loss there is tolerated.
func (s *RouterService) HandleSend(conn Emitter, connID string, msg *ChatMessage) error {

	// A message sent before joining is a protocol violation, dropped silently
	entry := s.Presence.Get(connID)
	if entry == nil {
		return nil
	}

	// Backpressure before any other work
	if ok, retryAfter := s.Limiter.Allow(connID); !ok {
		conn.Emit("rateLimited", RateLimitedMsg{
			RetryAfter: retryAfter.Milliseconds(),
		})
		return nil
	}

	// An empty message after sanitization is dropped without feedback
	text := s.Sanitizer.Sanitize(msg.Text)
	if text == "" {
		return nil
	}

	// Check mutes and banned words for the tenant
	if entry.TenantID != 0 {
		ok, bannedWord, err := s.Moderation.CanSendMessage(
			entry.TenantID,
			&ChatUserInfo{Alias: entry.User.Alias},
			text,
		)
		if err != nil {
			return err
		}
		if !ok {
			if bannedWord != nil {
				conn.Emit("error", ErrorMsg{Message: "your message contains a banned word"})
			} else {
				conn.Emit("error", ErrorMsg{Message: "you are muted in this chat"})
			}
			return nil
		}
	}

	dest, err := ResolveDestination(msg.RecipientID, msg.RoomID)
	if err != nil {
		conn.Emit("error", ErrorMsg{Message: err.Error()})
		return nil
	}

	// Server-stamped timestamp; sender identity comes from the registry
	// snapshot, never from the payload
	now := time.Now().UTC()
	out := ChatMessage{
		ID:           msg.ID,
		Text:         text,
		SenderID:     entry.User.ID,
		SenderAlias:  entry.User.Alias,
		SenderGender: entry.User.Gender,
		Timestamp:    now.UnixMilli(),
		RecipientID:  msg.RecipientID,
		RoomID:       msg.RoomID,
	}

	switch dest.kind {
	case destPrivate:
		if persistErr := s.persist(entry, &out, now); persistErr != nil {
			err = persistErr
		}
		s.Broadcaster.BroadcastToRoom(UserRoom(dest.recipientID), "privateMessage", out)
		s.Broadcaster.BroadcastToRoom(UserRoom(entry.User.ID), "privateMessage", out)

	case destRoom:
		if persistErr := s.persist(entry, &out, now); persistErr != nil {
			err = persistErr
		}
		s.Broadcaster.BroadcastToRoom(ChatRoomName(dest.roomID), "newMessage", out)

	case destTenantBroadcast:
		if entry.TenantID != 0 {
			tenantID := entry.TenantID
			persisted := out
			go func() {
				s.persistRecord(tenantID, &persisted, now)
			}()
		}
		s.Broadcaster.BroadcastToRoom(TenantLobbyRoom(entry.TenantSlug), "newMessage", out)
		if s.Buffer != nil {
			s.Buffer.PushMessage(entry.TenantSlug, &out)
		}
	}

	return err

}

// persist writes the message when the sender is associated with a tenant.
// Failures are logged and returned, but never block live delivery.
func (s *RouterService) persist(entry *PresenceEntry, out *ChatMessage, now time.Time) error {
	if entry.TenantID == 0 {
		return nil
	}
	return s.persistRecord(entry.TenantID, out, now)
}

func (s *RouterService) persistRecord(tenantID uint64, out *ChatMessage, now time.Time) error {
	record := &models.Message{
		PublicID:       out.ID,
		TenantID:       tenantID,
		SenderPublicID: out.SenderID,
		SenderAlias:    out.SenderAlias,
		SenderGender:   out.SenderGender,
		Text:           out.Text,
		Timestamp:      now,
	}
	if out.RecipientID != "" {
		record.RecipientID = sql.NullString{Valid: true, String: out.RecipientID}
	}
	if out.RoomID != 0 {
		record.RoomID = sql.NullInt64{Valid: true, Int64: int64(out.RoomID)}
	}
	return s.Messages.CreateMessage(record)
}

// HandleDelete processes a moderated deletion. The broadcast only happens
// after the store confirms the delete.
func (s *RouterService) HandleDelete(conn Emitter, connID string, req *DeleteRequest) error {

	entry := s.Presence.Get(connID)
	if entry == nil {
		return nil
	}

	allowed, err := s.Moderation.CanModerate(entry.UserID, req.TenantSlug)
	if err != nil {
		conn.Emit("error", ErrorMsg{Message: "something went wrong"})
		return err
	}
	if !allowed {
		conn.Emit("error", ErrorMsg{Message: "you do not have permission to delete messages"})
		return nil
	}

	tenant, err := s.Tenants.GetTenantBySlug(req.TenantSlug)
	if err != nil {
		return err
	}
	if tenant == nil {
		conn.Emit("error", ErrorMsg{Message: "chat space not found"})
		return nil
	}

	if err := s.Messages.DeleteMessage(req.MessageID, tenant.ID); err != nil {
		s.Log.Error().
			Err(err).
			Str("message_id", req.MessageID).
			Str("tenant_slug", req.TenantSlug).
			Msg("moderated delete failed")
		return err
	}

	payload := map[string]interface{}{
		"messageId": req.MessageID,
	}
	if req.RoomID != 0 {
		payload["roomId"] = req.RoomID
		s.Broadcaster.BroadcastToRoom(ChatRoomName(req.RoomID), "messageDeleted", payload)
	} else {
		s.Broadcaster.BroadcastToRoom(TenantLobbyRoom(req.TenantSlug), "messageDeleted", payload)
	}
	return nil

}
