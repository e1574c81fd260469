package generator

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/infra/llm"
	"cleaninghq-app/internal/store"
)

// DefaultBatchLimit caps one ProcessPending run.
const DefaultBatchLimit = 10

// Processor runs the site-generation pipeline: pending records in, full
// content documents out.
type Processor struct {
	Store store.SiteStore
	LLM   llm.Invoker
}

func NewProcessor(s store.SiteStore, invoker llm.Invoker) *Processor {
	return &Processor{Store: s, LLM: invoker}
}

// ItemResult is the per-record outcome of a batch run.
type ItemResult struct {
	SiteRequestID string `json:"site_request_id"`
	CompanyName   string `json:"company_name"`
	Status        string `json:"status"` // generated | failed
	Error         string `json:"error,omitempty"`
}

// ProcessPending picks up pending site requests oldest-first and generates
// each one. A failure is isolated to its record: the record is reset to
// pending for a later retry and the batch moves on.
func (p *Processor) ProcessPending(ctx context.Context, limit int) ([]ItemResult, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	pending, err := p.Store.FilterSites(ctx, store.Filter{"status": sites.StatusPending}, "created_at asc", limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sites: %w", err)
	}

	results := make([]ItemResult, 0, len(pending))
	for i := range pending {
		site := &pending[i]
		res := ItemResult{SiteRequestID: site.ID, CompanyName: site.CompanyName}

		if err := p.ProcessSite(ctx, site); err != nil {
			log.WithError(err).WithField("site_request_id", site.ID).Error("Site generation failed")
			res.Status = "failed"
			res.Error = err.Error()
		} else {
			res.Status = sites.StatusGenerated
		}
		results = append(results, res)
	}
	return results, nil
}

// ProcessSite generates one site's content document. The record is marked
// generating for the duration and reset to pending if anything fails, so
// the next batch can retry it.
func (p *Processor) ProcessSite(ctx context.Context, site *sites.SiteRequest) error {
	if !sites.StatusCanTransition(site.Status, sites.StatusGenerating) {
		return fmt.Errorf("site %s is %s, not pending", site.ID, site.Status)
	}
	if err := p.Store.UpdateSite(ctx, site.ID, map[string]interface{}{
		"status": sites.StatusGenerating,
	}); err != nil {
		return fmt.Errorf("mark site generating: %w", err)
	}

	if err := p.generate(ctx, site); err != nil {
		if resetErr := p.Store.UpdateSite(ctx, site.ID, map[string]interface{}{
			"status": sites.StatusPending,
		}); resetErr != nil {
			log.WithError(resetErr).WithField("site_request_id", site.ID).Error("Failed to reset site to pending")
		}
		return err
	}
	return nil
}

func (p *Processor) generate(ctx context.Context, site *sites.SiteRequest) error {
	prompt, schema := content.BuildGenerationPrompt(site)

	raw, err := p.LLM.Invoke(ctx, prompt, schema, content.AllowExternalContext(site))
	if err != nil {
		return fmt.Errorf("invoke model: %w", err)
	}

	if err := content.ValidateGenerated(raw); err != nil {
		return err
	}

	doc, err := content.Normalize(raw, content.SiteFacts(site))
	if err != nil {
		return fmt.Errorf("normalize generated content: %w", err)
	}
	doc.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	stored, err := doc.Marshal()
	if err != nil {
		return err
	}

	if err := p.Store.UpdateSite(ctx, site.ID, map[string]interface{}{
		"generated_content": stored,
		"status":            sites.StatusGenerated,
	}); err != nil {
		return fmt.Errorf("persist generated content: %w", err)
	}

	log.WithFields(log.Fields{
		"site_request_id": site.ID,
		"company_name":    site.CompanyName,
		"services":        len(site.ServiceTypes),
	}).Info("Site content generated")
	return nil
}
