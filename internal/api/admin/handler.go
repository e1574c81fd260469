package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cleaninghq-app/database"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/domain/users"
)

type AdminSite struct {
	ID                 string  `json:"id"`
	CompanyName        string  `json:"company_name"`
	City               string  `json:"city"`
	State              string  `json:"state"`
	Status             string  `json:"status"`
	SubscriptionStatus string  `json:"subscription_status"`
	OwnerEmail         *string `json:"owner_email,omitempty"`
	StripeCustomerID   *string `json:"stripe_customer_id,omitempty"`
	PreviewURL         string  `json:"preview_url"`
	CreatedAt          string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers     int            `json:"total_users"`
	TotalSites     int            `json:"total_sites"`
	ActiveSites    int            `json:"active_sites"`
	RecentSites    int            `json:"recent_sites"`
	SitesPerStatus map[string]int `json:"sites_per_status"`
}

// ListAllSites returns every site request for the ops dashboard, optionally
// filtered by ?status=pending|generating|generated|active.
func ListAllSites(c *gin.Context) {
	q := database.DB.Model(&sites.SiteRequest{}).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var records []sites.SiteRequest
	if err := q.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sites"})
		return
	}

	out := make([]AdminSite, 0, len(records))
	for _, s := range records {
		out = append(out, AdminSite{
			ID:                 s.ID,
			CompanyName:        s.CompanyName,
			City:               s.City,
			State:              s.State,
			Status:             s.Status,
			SubscriptionStatus: s.SubscriptionStatus,
			OwnerEmail:         s.OwnerEmail,
			StripeCustomerID:   s.StripeCustomerID,
			PreviewURL:         s.PreviewURL,
			CreatedAt:          s.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	c.JSON(http.StatusOK, out)
}

func GetAdminStats(c *gin.Context) {
	var stats AdminStats

	var totalUsers, totalSites, activeSites, recentSites int64
	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&sites.SiteRequest{}).Count(&totalSites)
	database.DB.Model(&sites.SiteRequest{}).
		Where("subscription_status = ?", sites.SubscriptionActive).
		Count(&activeSites)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&sites.SiteRequest{}).
		Where("created_at >= ?", thirtyDaysAgo).
		Count(&recentSites)

	stats.TotalUsers = int(totalUsers)
	stats.TotalSites = int(totalSites)
	stats.ActiveSites = int(activeSites)
	stats.RecentSites = int(recentSites)

	type statusCount struct {
		Status string
		Count  int
	}
	var counts []statusCount
	database.DB.
		Table("site_requests").
		Select("status, COUNT(id) as count").
		Group("status").
		Scan(&counts)

	stats.SitesPerStatus = map[string]int{}
	for _, sc := range counts {
		stats.SitesPerStatus[sc.Status] = sc.Count
	}

	c.JSON(http.StatusOK, stats)
}

// GetSiteDetails returns the full record plus its edit history.
func GetSiteDetails(c *gin.Context) {
	siteID := c.Param("id")

	var site sites.SiteRequest
	if err := database.DB.First(&site, "id = ?", siteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	var edits []sites.WebsiteEdit
	if err := database.DB.Where("site_request_id = ?", siteID).Order("created_at ASC").Find(&edits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch edits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site":  site,
		"edits": edits,
	})
}
