package render

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/store"
)

// Handler serves the public, unauthenticated rendering surface: resolved
// page data and the sitemap. Everything here is safe to cache.
type Handler struct {
	Store store.SiteStore
}

func NewHandler(s store.SiteStore) *Handler {
	return &Handler{Store: s}
}

// GetPage resolves GET /public/sites/:id/page/*selector.
func (h *Handler) GetPage(c *gin.Context) {
	site, err := h.Store.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	doc, err := content.Normalize(site.GeneratedContent, content.SiteFacts(site))
	if err != nil {
		// A corrupt stored document must not blank the live site; render
		// from facts alone and surface the problem in the logs.
		log.WithError(err).WithField("site_request_id", site.ID).Error("Stored content document is malformed")
		doc = &content.Document{Version: content.DocumentVersion}
	}

	c.JSON(http.StatusOK, ResolvePage(site, doc, c.Param("selector")))
}

// GetSitemap resolves GET /public/sites/:id/sitemap.xml.
func (h *Handler) GetSitemap(c *gin.Context) {
	site, err := h.Store.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	body, err := BuildSitemap(site, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build sitemap"})
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}
