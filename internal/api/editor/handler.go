package editor

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/infra/llm"
	"cleaninghq-app/internal/store"
)

// Handler runs the conversational edit pipeline: free-text request in,
// structured plan from the LLM, deterministic application, whole-document
// write guarded by the content version.
type Handler struct {
	Store store.SiteStore
	LLM   llm.Invoker
}

func NewHandler(s store.SiteStore, invoker llm.Invoker) *Handler {
	return &Handler{Store: s, LLM: invoker}
}

// CreateEdit handles POST /sites/:id/edits.
func (h *Handler) CreateEdit(c *gin.Context) {
	var req CreateEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

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

	prompt, schema := content.BuildEditPrompt(site, req.Message, req.FileURL)
	raw, err := h.LLM.Invoke(ctx, prompt, schema, false)
	if err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Error("Edit interpretation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to interpret edit request"})
		return
	}

	var plan content.EditPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Error("Edit plan did not match schema")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to interpret edit request"})
		return
	}

	facts := content.SiteFacts(site)
	doc, err := content.Normalize(site.GeneratedContent, facts)
	if err != nil {
		log.WithError(err).WithField("site_request_id", site.ID).Error("Stored content document is malformed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Site content is not editable"})
		return
	}

	result, err := content.Apply(doc, plan, facts, time.Now())
	if err != nil {
		if errors.Is(err, content.ErrSlugConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "That service already exists on your site"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply edit"})
		return
	}

	newVersion := site.ContentVersion
	if result.Changed {
		stored, err := doc.Marshal()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save edit"})
			return
		}
		fields := map[string]interface{}{"generated_content": stored}
		for k, v := range result.SiteFields {
			fields[k] = v
		}
		if err := h.Store.UpdateSiteVersioned(ctx, site.ID, site.ContentVersion, fields); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": "Site was edited concurrently, please retry"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save edit"})
			return
		}
		newVersion = site.ContentVersion + 1
	}

	h.logExchange(c, site, req.Message, result)

	c.JSON(http.StatusOK, EditResponse{
		Message:        result.Message,
		EditType:       result.EditType,
		Changed:        result.Changed,
		Changes:        result.Changes,
		ContentVersion: newVersion,
	})
}

// logExchange appends the user request and assistant confirmation to the
// edit history. The history is advisory; a logging failure must not fail
// an edit that already persisted.
func (h *Handler) logExchange(c *gin.Context, site *sites.SiteRequest, message string, result content.ApplyResult) {
	ctx := c.Request.Context()
	var userID *uint
	if id := c.GetUint("user_id"); id != 0 {
		userID = &id
	}

	var applied json.RawMessage
	if len(result.Changes) > 0 {
		if b, err := json.Marshal(result.Changes); err == nil {
			applied = b
		}
	}

	rows := []sites.WebsiteEdit{
		{SiteRequestID: site.ID, UserID: userID, Role: sites.RoleUser, Message: message, EditType: result.EditType},
		{SiteRequestID: site.ID, UserID: userID, Role: sites.RoleAssistant, Message: result.Message, EditType: result.EditType, AppliedChanges: applied},
	}
	for i := range rows {
		if err := h.Store.CreateEdit(ctx, &rows[i]); err != nil {
			log.WithError(err).WithField("site_request_id", site.ID).Warn("Failed to record edit history")
			return
		}
	}
}

// ListEdits handles GET /sites/:id/edits, oldest first for chat replay.
func (h *Handler) ListEdits(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Store.GetSite(ctx, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	edits, err := h.Store.ListEdits(ctx, c.Param("id"), 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load edits"})
		return
	}

	out := make([]EditLogEntry, 0, len(edits))
	for _, e := range edits {
		out = append(out, EditLogEntry{
			ID:             e.ID,
			Role:           e.Role,
			Message:        e.Message,
			EditType:       e.EditType,
			AppliedChanges: e.AppliedChanges,
			CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"edits": out})
}
