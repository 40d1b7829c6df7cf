package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/godocompany/venuechat-api/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// HistoryRetention is how far back message history is served. Messages older
// than this still exist in the store but are never returned to clients.
const HistoryRetention = 3 * time.Hour

// DefaultHistoryPageSize bounds a single history page.
const DefaultHistoryPageSize = 50

// historyCacheTTL keeps cached history pages short-lived; writes also
// invalidate eagerly.
const historyCacheTTL = 10 * time.Second

// ErrMessageNotFound is returned when a delete targets a message that does
// not exist in the tenant.
var ErrMessageNotFound = errors.New("message not found")

// MessagesService is the persistence glue for chat messages. The first page
// of history per tenant/room is cached in Redis when a client is configured.
type MessagesService struct {
	DB    *gorm.DB
	Cache *redis.Client
	Log   zerolog.Logger
}

// CreateMessage persists a message. The text must already be sanitized and
// the timestamp server-stamped by the router.
func (s *MessagesService) CreateMessage(msg *models.Message) error {
	msg.CreatedDate = time.Now()
	if err := s.DB.Create(msg).Error; err != nil {
		s.Log.Error().
			Err(err).
			Str("message_id", msg.PublicID).
			Str("sender_id", msg.SenderPublicID).
			Uint64("tenant_id", msg.TenantID).
			Msg("failed to persist message")
		return err
	}
	s.invalidateHistory(msg.TenantID, msg.RoomID.Int64)
	return nil
}

// DeleteMessage marks a message as deleted within a tenant. Returns
// ErrMessageNotFound if nothing matched, so callers never broadcast a
// deletion that did not happen.
func (s *MessagesService) DeleteMessage(publicID string, tenantID uint64) error {
	result := s.DB.
		Model(&models.Message{}).
		Where("deleted_date IS NULL").
		Where("public_id = ?", publicID).
		Where("tenant_id = ?", tenantID).
		Update("deleted_date", time.Now())
	if result.Error != nil {
		s.Log.Error().
			Err(result.Error).
			Str("message_id", publicID).
			Uint64("tenant_id", tenantID).
			Msg("failed to delete message")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	s.invalidateHistory(tenantID, 0)
	return nil
}

// GetHistory returns messages for a tenant, optionally scoped to a room,
// newest first, within the retention window. Pass a zero `before` for the
// first page; older pages are fetched by passing the timestamp of the
// oldest message seen so far.
func (s *MessagesService) GetHistory(
	ctx context.Context,
	tenantID uint64,
	roomID uint64,
	before time.Time,
	limit int,
) ([]*models.Message, error) {

	if limit <= 0 || limit > DefaultHistoryPageSize {
		limit = DefaultHistoryPageSize
	}

	// Only the first page is cached; paginated tails are rare and cheap
	firstPage := before.IsZero()
	if firstPage {
		if cached, ok := s.historyFromCache(ctx, tenantID, roomID); ok {
			return cached, nil
		}
	}

	query := s.DB.
		Where("deleted_date IS NULL").
		Where("tenant_id = ?", tenantID).
		Where("recipient_id IS NULL").
		Where("timestamp > ?", time.Now().Add(-HistoryRetention))
	if roomID != 0 {
		query = query.Where("room_id = ?", roomID)
	} else {
		query = query.Where("room_id IS NULL")
	}
	if !before.IsZero() {
		query = query.Where("timestamp < ?", before)
	}

	var messages []*models.Message
	err := query.
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).
		Error
	if err != nil {
		return nil, err
	}

	if firstPage {
		s.historyToCache(ctx, tenantID, roomID, messages)
	}
	return messages, nil

}

func historyCacheKey(tenantID uint64, roomID int64) string {
	return fmt.Sprintf("history:%d:%d", tenantID, roomID)
}

func (s *MessagesService) historyFromCache(ctx context.Context, tenantID, roomID uint64) ([]*models.Message, bool) {
	if s.Cache == nil {
		return nil, false
	}
	data, err := s.Cache.Get(ctx, historyCacheKey(tenantID, int64(roomID))).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.Log.Warn().Err(err).Msg("history cache read failed")
		}
		return nil, false
	}
	var messages []*models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (s *MessagesService) historyToCache(ctx context.Context, tenantID, roomID uint64, messages []*models.Message) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, historyCacheKey(tenantID, int64(roomID)), data, historyCacheTTL).Err(); err != nil {
		s.Log.Warn().Err(err).Msg("history cache write failed")
	}
}

func (s *MessagesService) invalidateHistory(tenantID uint64, roomID int64) {
	if s.Cache == nil {
		return
	}
	keys := []string{historyCacheKey(tenantID, 0)}
	if roomID != 0 {
		keys = append(keys, historyCacheKey(tenantID, roomID))
	}
	if err := s.Cache.Del(context.Background(), keys...).Err(); err != nil {
		s.Log.Warn().Err(err).Msg("history cache invalidation failed")
	}
}
