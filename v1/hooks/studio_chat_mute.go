package hooks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/services"
)

type StudioChatMuteReq struct {
	TenantID     uint64                `json:"tenant_id"`
	User         services.ChatUserInfo `json:"user"`
	DurationSecs int64                 `json:"duration_secs"`
}

func StudioChatMute(
	accountsService *services.AccountsService,
	moderationService *services.ModerationService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioChatMuteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Zero duration means a permanent mute
		var until *time.Time
		if req.DurationSecs > 0 {
			t := time.Now().Add(time.Duration(req.DurationSecs) * time.Second)
			until = &t
		}

		// Mute the user on the chat
		if _, err := moderationService.MuteUser(req.TenantID, &req.User, until); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
