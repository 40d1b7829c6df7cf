package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/models"
)

// CtxKeyAccount is the context key holding the authenticated account
const CtxKeyAccount = "account"

// CtxSetAccount stores the authenticated account on the request context
func CtxSetAccount(c *gin.Context, account *models.Account) {
	c.Set(CtxKeyAccount, account)
}

// CtxGetAccount gets the authenticated account from the request context, or
// nil if the request is unauthenticated
func CtxGetAccount(c *gin.Context) *models.Account {
	value, ok := c.Get(CtxKeyAccount)
	if !ok {
		return nil
	}
	account, ok := value.(*models.Account)
	if !ok {
		return nil
	}
	return account
}
