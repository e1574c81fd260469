package generator

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cleaninghq-app/internal/store"
)

// Handler exposes the batch pipeline to the admin API.
type Handler struct {
	Processor *Processor
}

func NewHandler(p *Processor) *Handler {
	return &Handler{Processor: p}
}

// ProcessPendingSites handles POST /admin/jobs/process-pending-sites.
func (h *Handler) ProcessPendingSites(c *gin.Context) {
	limit := DefaultBatchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	results, err := h.Processor.ProcessPending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process pending sites"})
		return
	}

	generated := 0
	for _, r := range results {
		if r.Status == "generated" {
			generated++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": len(results),
		"generated": generated,
		"results":   results,
	})
}

// GenerateSite handles POST /admin/sites/:id/generate, the same pipeline
// run for a single record.
func (h *Handler) GenerateSite(c *gin.Context) {
	ctx := c.Request.Context()
	site, err := h.Processor.Store.GetSite(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	if err := h.Processor.ProcessSite(ctx, site); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"site_request_id": site.ID, "status": "generated"})
}
