// Package store is the entity-store contract the content pipeline consumes:
// create / filter / shallow-merge update. Nested documents such as
// generated_content are replaced whole by the caller, never deep-merged by
// the store.
package store

import (
	"context"
	"errors"

	"cleaninghq-app/internal/domain/sites"
)

var (
	// ErrNotFound is the normal no-match case, not a failure.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict rejects an update against a stale content_version.
	ErrVersionConflict = errors.New("content version conflict")
)

// Filter is a field-equality predicate, matched against column names.
type Filter map[string]interface{}

// SiteStore persists the SiteRequest aggregate and its satellites.
type SiteStore interface {
	CreateSite(ctx context.Context, site *sites.SiteRequest) error
	GetSite(ctx context.Context, id string) (*sites.SiteRequest, error)
	FilterSites(ctx context.Context, where Filter, orderBy string, limit int) ([]sites.SiteRequest, error)

	// UpdateSite shallow-merges fields into the record.
	UpdateSite(ctx context.Context, id string, fields map[string]interface{}) error

	// UpdateSiteVersioned is a compare-and-swap on content_version: the
	// update applies only if the stored version still equals expected, and
	// bumps it by one. Stale writers get ErrVersionConflict.
	UpdateSiteVersioned(ctx context.Context, id string, expected int64, fields map[string]interface{}) error

	CreateEdit(ctx context.Context, edit *sites.WebsiteEdit) error
	ListEdits(ctx context.Context, siteRequestID string, limit int) ([]sites.WebsiteEdit, error)

	CreateAsset(ctx context.Context, asset *sites.WebsiteAsset) error

	SeenWebhookEvent(ctx context.Context, provider, eventID string) (bool, error)
	RecordWebhookEvent(ctx context.Context, event *sites.WebhookEvent) error
}
