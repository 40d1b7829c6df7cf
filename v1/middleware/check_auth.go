package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/services"
	"github.com/godocompany/venuechat-api/v1/utils"
)

// CheckAuth resolves the bearer token on the request, if any, and attaches
// the account to the context. It never rejects a request on its own; that
// is RequireLogin's job.
func CheckAuth(authTokensService *services.AuthTokensService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the bearer token from the request
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if len(token) == 0 {
			c.Next()
			return
		}

		// Resolve the account for the token
		account, err := authTokensService.GetAccountByToken(token)
		if err != nil || account == nil {
			c.Next()
			return
		}

		// Attach the account to the request context
		utils.CtxSetAccount(c, account)
		c.Next()

	}
}
