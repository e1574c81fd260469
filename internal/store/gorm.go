package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cleaninghq-app/internal/domain/sites"
)

// Gorm is the production SiteStore backed by Postgres.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) CreateSite(ctx context.Context, site *sites.SiteRequest) error {
	return g.db.WithContext(ctx).Create(site).Error
}

func (g *Gorm) GetSite(ctx context.Context, id string) (*sites.SiteRequest, error) {
	var site sites.SiteRequest
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (g *Gorm) FilterSites(ctx context.Context, where Filter, orderBy string, limit int) ([]sites.SiteRequest, error) {
	q := g.db.WithContext(ctx).Model(&sites.SiteRequest{})
	if len(where) > 0 {
		q = q.Where(map[string]interface{}(where))
	}
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []sites.SiteRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) UpdateSite(ctx context.Context, id string, fields map[string]interface{}) error {
	res := g.db.WithContext(ctx).Model(&sites.SiteRequest{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) UpdateSiteVersioned(ctx context.Context, id string, expected int64, fields map[string]interface{}) error {
	merged := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["content_version"] = expected + 1

	res := g.db.WithContext(ctx).Model(&sites.SiteRequest{}).
		Where("id = ? AND content_version = ?", id, expected).
		Updates(merged)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Zero rows is either a missing record or a stale version.
		var count int64
		if err := g.db.WithContext(ctx).Model(&sites.SiteRequest{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return fmt.Errorf("%w: site %s expected version %d", ErrVersionConflict, id, expected)
	}
	return nil
}

func (g *Gorm) CreateEdit(ctx context.Context, edit *sites.WebsiteEdit) error {
	return g.db.WithContext(ctx).Create(edit).Error
}

func (g *Gorm) ListEdits(ctx context.Context, siteRequestID string, limit int) ([]sites.WebsiteEdit, error) {
	q := g.db.WithContext(ctx).
		Where("site_request_id = ?", siteRequestID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []sites.WebsiteEdit
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) CreateAsset(ctx context.Context, asset *sites.WebsiteAsset) error {
	return g.db.WithContext(ctx).Create(asset).Error
}

func (g *Gorm) SeenWebhookEvent(ctx context.Context, provider, eventID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&sites.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *Gorm) RecordWebhookEvent(ctx context.Context, event *sites.WebhookEvent) error {
	return g.db.WithContext(ctx).Create(event).Error
}
