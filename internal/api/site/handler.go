package siteapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"cleaninghq-app/config"
	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

// Handler owns the SiteRequest CRUD surface: intake, reads, claim, and the
// hero editor's direct save. Generation and edits live in their own packages.
type Handler struct {
	Store store.SiteStore
}

func NewHandler(s store.SiteStore) *Handler {
	return &Handler{Store: s}
}

// CreateSiteRequest handles POST /site-requests, the public intake wizard.
// The record lands in status pending; a batch run picks it up from there.
func (h *Handler) CreateSiteRequest(c *gin.Context) {
	var in CreateSiteRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name, city, state and at least one service are required"})
		return
	}

	site := sites.SiteRequest{
		CompanyName:        strings.TrimSpace(in.CompanyName),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		Phone:              in.Phone,
		Email:              in.Email,
		ServiceTypes:       in.ServiceTypes,
		IndustriesServed:   in.IndustriesServed,
		YearsInBusiness:    in.YearsInBusiness,
		Insured:            in.Insured,
		PrimaryColor:       in.PrimaryColor,
		Style:              in.Style,
		GalleryImages:      in.GalleryImages,
		GoogleRating:       in.GoogleRating,
		GoogleReviewCount:  in.GoogleReviewCount,
		ReviewsVerified:    in.ReviewsVerified,
		Status:             sites.StatusPending,
		SubscriptionStatus: sites.SubscriptionInactive,
		PreviewURL:         strings.TrimRight(config.PREVIEW_BASE_URL, "/") + "/" + content.CompanySlug(in.CompanyName),
	}
	if in.SecondaryColor != "" {
		site.SecondaryColor = &in.SecondaryColor
	}
	if in.TertiaryColor != "" {
		site.TertiaryColor = &in.TertiaryColor
	}
	if in.ExistingWebsiteURL != "" {
		site.ExistingWebsiteURL = &in.ExistingWebsiteURL
	}
	if in.GoogleBusinessURL != "" {
		site.GoogleBusinessURL = &in.GoogleBusinessURL
	}
	if in.LogoURL != "" {
		site.LogoURL = &in.LogoURL
	}
	if in.HeroImageURL != "" {
		site.HeroImageURL = &in.HeroImageURL
	}
	for _, r := range in.GoogleReviews {
		site.GoogleReviews = append(site.GoogleReviews, sites.GoogleReview{Name: r.Name, Rating: r.Rating, Text: r.Text})
	}

	// Intake is public; a logged-in user owns the record immediately,
	// otherwise the email is kept so the record can be claimed later.
	if userID := c.GetUint("user_id"); userID != 0 {
		site.OwnerID = &userID
	}
	if in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		site.OwnerEmail = &email
	}

	if err := h.Store.CreateSite(c.Request.Context(), &site); err != nil {
		log.WithError(err).Error("Failed to create site request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site request"})
		return
	}

	c.JSON(http.StatusCreated, site)
}

// GetSiteRequest handles GET /sites/:id for the owner dashboard.
func (h *Handler) GetSiteRequest(c *gin.Context) {
	site, ok := h.loadOwnedSite(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, site)
}

// ListMySites handles GET /sites.
func (h *Handler) ListMySites(c *gin.Context) {
	userID := c.GetUint("user_id")
	found, err := h.Store.FilterSites(c.Request.Context(), store.Filter{"owner_id": userID}, "created_at desc", 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": found})
}

// ClaimSite handles POST /sites/:id/claim: attach the authenticated user to
// a record created anonymously through the intake wizard.
func (h *Handler) ClaimSite(c *gin.Context) {
	userID := c.GetUint("user_id")
	email := strings.ToLower(c.GetString("email"))

	site, err := h.Store.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	if site.OwnerID != nil {
		if *site.OwnerID == userID {
			c.JSON(http.StatusOK, site)
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Site already claimed"})
		return
	}
	if site.OwnerEmail != nil && *site.OwnerEmail != "" && *site.OwnerEmail != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Site was created under a different email"})
		return
	}

	if err := h.Store.UpdateSite(c.Request.Context(), site.ID, map[string]interface{}{
		"owner_id":    userID,
		"owner_email": email,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim site"})
		return
	}

	site.OwnerID = &userID
	site.OwnerEmail = &email
	c.JSON(http.StatusOK, site)
}

// UpdateHero handles PUT /sites/:id/hero: the hero editor writes straight
// into the document through the same read-normalize-write path edits use,
// so a concurrent chat edit cannot be silently overwritten.
func (h *Handler) UpdateHero(c *gin.Context) {
	var in UpdateHeroInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hero payload"})
		return
	}

	site, ok := h.loadOwnedSite(c)
	if !ok {
		return
	}

	doc, err := content.Normalize(site.GeneratedContent, content.SiteFacts(site))
	if err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Error("Stored content document is malformed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Site content is not editable"})
		return
	}

	hero := &doc.Pages.Homepage.Hero
	changed := false
	if in.Headline != "" && in.Headline != hero.Headline {
		hero.Headline = in.Headline
		changed = true
	}
	if in.Subheadline != "" && in.Subheadline != hero.Subheadline {
		hero.Subheadline = in.Subheadline
		changed = true
	}
	if in.CTAText != "" && in.CTAText != hero.CTAText {
		hero.CTAText = in.CTAText
		changed = true
	}

	fields := map[string]interface{}{}
	if in.HeroImageURL != "" {
		fields["hero_image_url"] = in.HeroImageURL
	}

	if changed {
		doc.LastEdited = time.Now().UTC().Format(time.RFC3339)
		stored, err := doc.Marshal()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save hero"})
			return
		}
		fields["generated_content"] = stored
	}

	if len(fields) == 0 {
		c.JSON(http.StatusOK, gin.H{"changed": false, "content_version": site.ContentVersion})
		return
	}

	if err := h.Store.UpdateSiteVersioned(c.Request.Context(), site.ID, site.ContentVersion, fields); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Site was edited concurrently, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save hero"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": true, "content_version": site.ContentVersion + 1})
}

// loadOwnedSite loads :id and enforces ownership. Admins pass through.
// Non-owners get 404, not 403: record existence is not disclosed.
func (h *Handler) loadOwnedSite(c *gin.Context) (*sites.SiteRequest, bool) {
	site, err := h.Store.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return nil, false
	}

	if c.GetString("role") == "admin" {
		return site, true
	}
	userID := c.GetUint("user_id")
	if site.OwnerID == nil || *site.OwnerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return nil, false
	}
	return site, true
}
