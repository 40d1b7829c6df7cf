package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/v1/utils"
)

// RequireLogin aborts any request that has no authenticated account
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CtxGetAccount(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "login required",
			})
			return
		}
		c.Next()
	}
}
