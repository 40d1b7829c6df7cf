package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/services"
)

type StudioChatUnmuteReq struct {
	TenantID uint64                `json:"tenant_id"`
	User     services.ChatUserInfo `json:"user"`
}

func StudioChatUnmute(
	accountsService *services.AccountsService,
	moderationService *services.ModerationService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioChatUnmuteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Lift the mute on the chat
		if err := moderationService.UnmuteUser(req.TenantID, &req.User); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
