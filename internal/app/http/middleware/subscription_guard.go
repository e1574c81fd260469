package middleware

import (
	"errors"
	"net/http"

	"cleaninghq-app/database"
	"cleaninghq-app/internal/domain/sites"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireActiveSubscription gates /sites/:id routes that mutate a site: the
// caller must own the site and its subscription must be active. Ownership
// failures answer 404 rather than 403 to avoid confirming foreign ids.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID := c.Param("id")
		if siteID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "site id required"})
			return
		}

		var site sites.SiteRequest
		err := database.DB.Where("id = ?", siteID).First(&site).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Site request not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site request"})
			return
		}

		userID := c.GetUint("user_id")
		if site.OwnerID == nil || *site.OwnerID != userID {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Site request not found"})
			return
		}

		if site.SubscriptionStatus != sites.SubscriptionActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Active subscription required"})
			return
		}

		c.Next()
	}
}
