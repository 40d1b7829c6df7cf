package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/models"
	"github.com/godocompany/venuechat-api/services"
	"github.com/godocompany/venuechat-api/utils"
)

type TenantsResolveReq struct {
	Slug  string `json:"slug"`
	NasID string `json:"nasId"`
	Bssid string `json:"bssid"`
	Ip    string `json:"ip"`
}

// TenantsResolve resolves a tenant from a slug or one of the venue network
// fingerprints. When no IP is supplied explicitly, the caller's own address
// is tried as the last fallback, so captive-portal clients resolve with an
// empty body.
func TenantsResolve(
	tenantsService *services.TenantsService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req TenantsResolveReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Try each fingerprint in order of specificity
		tenant, err := resolveTenant(tenantsService, &req, c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if tenant == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no chat space found for this location"})
			return
		}

		// Return the tenant info
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"id":   tenant.ID,
				"slug": tenant.Slug,
				"name": tenant.Name,
			},
		})

	}
}

func resolveTenant(
	tenantsService *services.TenantsService,
	req *TenantsResolveReq,
	c *gin.Context,
) (*models.Tenant, error) {
	if len(req.Slug) > 0 {
		return tenantsService.GetTenantBySlug(req.Slug)
	}
	if len(req.NasID) > 0 {
		return tenantsService.GetTenantByNasID(req.NasID)
	}
	if len(req.Bssid) > 0 {
		return tenantsService.GetTenantByBssid(req.Bssid)
	}
	ip := req.Ip
	if len(ip) == 0 {
		ip = utils.GetIpAddress(c.Request.Header, c.Request.RemoteAddr)
	}
	if len(ip) == 0 {
		return nil, nil
	}
	return tenantsService.GetTenantByIP(ip)
}
