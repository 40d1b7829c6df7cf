package hooks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/models"
	"github.com/godocompany/venuechat-api/services"
)

type ChatHistoryReq struct {
	TenantSlug string `json:"tenantSlug"`
	RoomID     uint64 `json:"roomId"`
	Before     int64  `json:"before"`
	Limit      int    `json:"limit"`
}

// ChatHistory serves the recent message history of a tenant lobby or room,
// newest first, within the retention window
func ChatHistory(
	tenantsService *services.TenantsService,
	messagesService *services.MessagesService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatHistoryReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Resolve the tenant for the slug
		tenant, err := tenantsService.GetTenantBySlug(req.TenantSlug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if tenant == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat space not found"})
			return
		}

		// Older pages are requested with the timestamp of the oldest
		// message seen so far
		var before time.Time
		if req.Before > 0 {
			before = time.UnixMilli(req.Before)
		}

		// Fetch the page of messages
		messages, err := messagesService.GetHistory(
			c.Request.Context(),
			tenant.ID,
			req.RoomID,
			before,
			req.Limit,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Return the serialized messages
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"messages": serializeMessages(messages),
			},
		})

	}
}

func serializeMessages(messages []*models.Message) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		entry := map[string]interface{}{
			"id":           msg.PublicID,
			"text":         msg.Text,
			"senderId":     msg.SenderPublicID,
			"senderAlias":  msg.SenderAlias,
			"senderGender": msg.SenderGender,
			"timestamp":    msg.Timestamp.UnixMilli(),
		}
		if msg.RoomID.Valid {
			entry["roomId"] = msg.RoomID.Int64
		}
		out = append(out, entry)
	}
	return out
}
