package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cleaninghq-app/internal/domain/sites"
)

// Memory is an in-memory SiteStore used by tests. Field updates follow the
// same shallow-merge column semantics as the gorm implementation.
type Memory struct {
	mu     sync.Mutex
	sites  map[string]sites.SiteRequest
	edits  []sites.WebsiteEdit
	assets []sites.WebsiteAsset
	events map[string]sites.WebhookEvent
}

func NewMemory() *Memory {
	return &Memory{
		sites:  map[string]sites.SiteRequest{},
		events: map[string]sites.WebhookEvent{},
	}
}

func (m *Memory) CreateSite(_ context.Context, site *sites.SiteRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	if site.Status == "" {
		site.Status = sites.StatusPending
	}
	if site.SubscriptionStatus == "" {
		site.SubscriptionStatus = sites.SubscriptionInactive
	}
	site.CreatedAt = time.Now()
	site.UpdatedAt = site.CreatedAt
	m.sites[site.ID] = *site
	return nil
}

func (m *Memory) GetSite(_ context.Context, id string) (*sites.SiteRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := s
	return &out, nil
}

func (m *Memory) FilterSites(_ context.Context, where Filter, orderBy string, limit int) ([]sites.SiteRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sites.SiteRequest
	for _, s := range m.sites {
		if matches(s, where) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(orderBy, "created_at desc") {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(s sites.SiteRequest, where Filter) bool {
	for k, v := range where {
		switch k {
		case "id":
			if s.ID != v {
				return false
			}
		case "status":
			if s.Status != v {
				return false
			}
		case "subscription_status":
			if s.SubscriptionStatus != v {
				return false
			}
		case "stripe_customer_id":
			if s.StripeCustomerID == nil || *s.StripeCustomerID != v {
				return false
			}
		case "stripe_subscription_id":
			if s.StripeSubscriptionID == nil || *s.StripeSubscriptionID != v {
				return false
			}
		case "owner_id":
			if s.OwnerID == nil || *s.OwnerID != v {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (m *Memory) UpdateSite(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return ErrNotFound
	}
	if err := applyFields(&s, fields); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	m.sites[id] = s
	return nil
}

func (m *Memory) UpdateSiteVersioned(_ context.Context, id string, expected int64, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return ErrNotFound
	}
	if s.ContentVersion != expected {
		return fmt.Errorf("%w: site %s expected version %d", ErrVersionConflict, id, expected)
	}
	if err := applyFields(&s, fields); err != nil {
		return err
	}
	s.ContentVersion = expected + 1
	s.UpdatedAt = time.Now()
	m.sites[id] = s
	return nil
}

func applyFields(s *sites.SiteRequest, fields map[string]interface{}) error {
	for k, v := range fields {
		switch k {
		case "status":
			s.Status = v.(string)
		case "subscription_status":
			s.SubscriptionStatus = v.(string)
		case "generated_content":
			switch raw := v.(type) {
			case json.RawMessage:
				s.GeneratedContent = raw
			case []byte:
				s.GeneratedContent = raw
			case string:
				s.GeneratedContent = json.RawMessage(raw)
			default:
				return fmt.Errorf("unsupported generated_content type %T", v)
			}
		case "stripe_customer_id":
			s.StripeCustomerID = strPtr(v)
		case "stripe_session_id":
			s.StripeSessionID = strPtr(v)
		case "stripe_subscription_id":
			s.StripeSubscriptionID = strPtr(v)
		case "primary_color":
			s.PrimaryColor = v.(string)
		case "service_types":
			s.ServiceTypes = toStringList(v)
		case "gallery_images":
			s.GalleryImages = toStringList(v)
		case "google_rating":
			s.GoogleRating = v.(float64)
		case "google_review_count":
			s.GoogleReviewCount = v.(int)
		case "google_reviews":
			s.GoogleReviews = v.(sites.ReviewList)
		case "reviews_verified":
			s.ReviewsVerified = v.(bool)
		case "google_business_url":
			s.GoogleBusinessURL = strPtr(v)
		case "owner_id":
			id := v.(uint)
			s.OwnerID = &id
		case "owner_email":
			s.OwnerEmail = strPtr(v)
		case "hero_image_url":
			s.HeroImageURL = strPtr(v)
		case "logo_url":
			s.LogoURL = strPtr(v)
		case "preview_url":
			s.PreviewURL = v.(string)
		default:
			return fmt.Errorf("memory store: unsupported field %q", k)
		}
	}
	return nil
}

func strPtr(v interface{}) *string {
	switch t := v.(type) {
	case string:
		return &t
	case *string:
		return t
	}
	return nil
}

func toStringList(v interface{}) sites.StringList {
	switch t := v.(type) {
	case sites.StringList:
		return t
	case []string:
		return sites.StringList(t)
	}
	return nil
}

func (m *Memory) CreateEdit(_ context.Context, edit *sites.WebsiteEdit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if edit.ID == "" {
		edit.ID = uuid.NewString()
	}
	edit.CreatedAt = time.Now()
	m.edits = append(m.edits, *edit)
	return nil
}

func (m *Memory) ListEdits(_ context.Context, siteRequestID string, limit int) ([]sites.WebsiteEdit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sites.WebsiteEdit
	for _, e := range m.edits {
		if e.SiteRequestID == siteRequestID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) CreateAsset(_ context.Context, asset *sites.WebsiteAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	asset.CreatedAt = time.Now()
	m.assets = append(m.assets, *asset)
	return nil
}

// Assets returns a copy of all stored assets, for test assertions.
func (m *Memory) Assets() []sites.WebsiteAsset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sites.WebsiteAsset{}, m.assets...)
}

func (m *Memory) SeenWebhookEvent(_ context.Context, provider, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[provider+"/"+eventID]
	return ok, nil
}

func (m *Memory) RecordWebhookEvent(_ context.Context, event *sites.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.CreatedAt = time.Now()
	m.events[event.Provider+"/"+event.ProviderEventID] = *event
	return nil
}
