package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/infra/llm"
	"cleaninghq-app/internal/store"
)

const maxImportedGalleryImages = 6

// Handler backfills business data onto a SiteRequest: imagery scraped from
// the record's existing website, and rating/reviews/photos from its Google
// Business Profile. Both steps go through the LLM with external context
// enabled; either step failing only costs its own fields.
type Handler struct {
	Store store.SiteStore
	LLM   llm.Invoker
}

func NewHandler(s store.SiteStore, invoker llm.Invoker) *Handler {
	return &Handler{Store: s, LLM: invoker}
}

type scrapedImages struct {
	LogoURL       string   `json:"logo_url"`
	HeroImageURL  string   `json:"hero_image_url"`
	GalleryImages []string `json:"gallery_images"`
}

type businessProfile struct {
	BusinessName string               `json:"business_name"`
	WebsiteURL   string               `json:"website_url"`
	Rating       float64              `json:"rating"`
	ReviewCount  int                  `json:"review_count"`
	Reviews      []sites.GoogleReview `json:"reviews"`
	Photos       []string             `json:"photos"`
}

// Enrich handles POST /sites/:id/enrich. Scraped values never overwrite
// data the customer entered themselves; they only fill gaps.
func (h *Handler) Enrich(c *gin.Context) {
	ctx := c.Request.Context()
	site, err := h.Store.GetSite(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	// Enrichment runs during intake, often before the record is claimed.
	// Once owned, only the owner (or an admin) may trigger it.
	if site.OwnerID != nil && *site.OwnerID != c.GetUint("user_id") && c.GetString("role") != "admin" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	updates := map[string]interface{}{}
	h.scrapeWebsiteImages(ctx, site, updates)
	h.scrapeBusinessProfile(ctx, site, updates)

	if len(updates) > 0 {
		if err := h.Store.UpdateSite(ctx, site.ID, updates); err != nil {
			log.WithError(err).WithField("site_request_id", site.ID).Error("Failed to save enrichment data")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save enrichment data"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updates": updates})
}

func (h *Handler) scrapeWebsiteImages(ctx context.Context, site *sites.SiteRequest, updates map[string]interface{}) {
	if site.ExistingWebsiteURL == nil || strings.TrimSpace(*site.ExistingWebsiteURL) == "" {
		return
	}

	prompt, schema := content.BuildImageScrapePrompt(*site.ExistingWebsiteURL)
	raw, err := h.LLM.Invoke(ctx, prompt, schema, true)
	if err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Warn("Website image scrape failed")
		return
	}
	var imgs scrapedImages
	if err := json.Unmarshal(raw, &imgs); err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Warn("Website image scrape returned malformed data")
		return
	}

	if imgs.LogoURL != "" && site.LogoURL == nil {
		updates["logo_url"] = imgs.LogoURL
	}
	if imgs.HeroImageURL != "" && site.HeroImageURL == nil {
		updates["hero_image_url"] = imgs.HeroImageURL
	}
	if len(imgs.GalleryImages) > 0 {
		merged := append(sites.StringList{}, site.GalleryImages...)
		updates["gallery_images"] = append(merged, imgs.GalleryImages...)
	}
}

func (h *Handler) scrapeBusinessProfile(ctx context.Context, site *sites.SiteRequest, updates map[string]interface{}) {
	prompt, schema := content.BuildBusinessProfilePrompt(site)
	raw, err := h.LLM.Invoke(ctx, prompt, schema, true)
	if err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Warn("Business profile scrape failed")
		return
	}
	var profile businessProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Warn("Business profile scrape returned malformed data")
		return
	}

	if profile.Rating > 0 {
		updates["google_rating"] = profile.Rating
	}
	if profile.ReviewCount > 0 {
		updates["google_review_count"] = profile.ReviewCount
	}
	if len(profile.Reviews) > 0 {
		updates["google_reviews"] = sites.ReviewList(profile.Reviews)
	}

	// Reviews count as verified only when the profile's website matches the
	// one the customer gave us.
	verified := false
	if profile.WebsiteURL != "" && site.ExistingWebsiteURL != nil {
		verified = normalizeWebsiteURL(profile.WebsiteURL) == normalizeWebsiteURL(*site.ExistingWebsiteURL)
	}
	updates["reviews_verified"] = verified

	// Profile photos seed the gallery only when the customer has none.
	if len(profile.Photos) > 0 && len(site.GalleryImages) == 0 {
		if _, ok := updates["gallery_images"]; !ok {
			photos := profile.Photos
			if len(photos) > maxImportedGalleryImages {
				photos = photos[:maxImportedGalleryImages]
			}
			updates["gallery_images"] = sites.StringList(photos)
		}
	}
}

var websiteSchemePrefix = regexp.MustCompile(`^https?://(www\.)?`)

func normalizeWebsiteURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = websiteSchemePrefix.ReplaceAllString(u, "")
	return strings.TrimSuffix(u, "/")
}
