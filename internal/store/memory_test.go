package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleaninghq-app/internal/domain/sites"
)

func newSite(t *testing.T, m *Memory, name string) *sites.SiteRequest {
	t.Helper()
	s := &sites.SiteRequest{
		CompanyName:  name,
		City:         "Austin",
		State:        "TX",
		ServiceTypes: sites.StringList{"Office Cleaning"},
	}
	require.NoError(t, m.CreateSite(context.Background(), s))
	return s
}

func TestCreateSiteDefaults(t *testing.T) {
	m := NewMemory()
	s := newSite(t, m, "Sparkle Co")

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, sites.StatusPending, s.Status)
	assert.Equal(t, sites.SubscriptionInactive, s.SubscriptionStatus)
	assert.Equal(t, int64(0), s.ContentVersion)
}

func TestUpdateSiteVersionedBumpsVersion(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s := newSite(t, m, "Sparkle Co")

	require.NoError(t, m.UpdateSiteVersioned(ctx, s.ID, 0, map[string]interface{}{
		"generated_content": json.RawMessage(`{"version":"3.0"}`),
	}))
	require.NoError(t, m.UpdateSiteVersioned(ctx, s.ID, 1, map[string]interface{}{
		"primary_color": "#123456",
	}))

	got, err := m.GetSite(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ContentVersion)
	assert.Equal(t, "#123456", got.PrimaryColor)
	assert.JSONEq(t, `{"version":"3.0"}`, string(got.GeneratedContent))
}

func TestUpdateSiteVersionedRejectsStaleWriter(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s := newSite(t, m, "Sparkle Co")

	// Two writers read version 0; only the first lands.
	require.NoError(t, m.UpdateSiteVersioned(ctx, s.ID, 0, map[string]interface{}{
		"primary_color": "#111111",
	}))
	err := m.UpdateSiteVersioned(ctx, s.ID, 0, map[string]interface{}{
		"primary_color": "#222222",
	})
	require.ErrorIs(t, err, ErrVersionConflict)

	got, err := m.GetSite(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "#111111", got.PrimaryColor)
	assert.Equal(t, int64(1), got.ContentVersion)
}

func TestUpdateSiteVersionedUnknownSite(t *testing.T) {
	m := NewMemory()
	err := m.UpdateSiteVersioned(context.Background(), "missing", 0, map[string]interface{}{
		"primary_color": "#000000",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSiteRejectsUnknownField(t *testing.T) {
	m := NewMemory()
	s := newSite(t, m, "Sparkle Co")
	err := m.UpdateSite(context.Background(), s.ID, map[string]interface{}{
		"company_name": "Renamed",
	})
	assert.Error(t, err)
}

func TestFilterSitesOrderAndLimit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := newSite(t, m, "First")
	time.Sleep(time.Millisecond)
	second := newSite(t, m, "Second")
	time.Sleep(time.Millisecond)
	third := newSite(t, m, "Third")

	require.NoError(t, m.UpdateSite(ctx, second.ID, map[string]interface{}{
		"status": sites.StatusGenerated,
	}))

	pending, err := m.FilterSites(ctx, Filter{"status": sites.StatusPending}, "created_at asc", 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, third.ID, pending[1].ID)

	newest, err := m.FilterSites(ctx, Filter{}, "created_at desc", 1)
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, third.ID, newest[0].ID)
}

func TestFilterSitesByStripeCustomer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s := newSite(t, m, "Sparkle Co")
	require.NoError(t, m.UpdateSite(ctx, s.ID, map[string]interface{}{
		"stripe_customer_id": "cus_123",
	}))
	newSite(t, m, "Unlinked Co")

	out, err := m.FilterSites(ctx, Filter{"stripe_customer_id": "cus_123"}, "created_at asc", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, s.ID, out[0].ID)

	out, err = m.FilterSites(ctx, Filter{"stripe_customer_id": "cus_999"}, "created_at asc", 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestWebhookEventDedup(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seen, err := m.SeenWebhookEvent(ctx, "stripe", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, m.RecordWebhookEvent(ctx, &sites.WebhookEvent{
		Provider: "stripe", ProviderEventID: "evt_1", EventType: "checkout.session.completed",
	}))

	seen, err = m.SeenWebhookEvent(ctx, "stripe", "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Same event id under another provider is a distinct event.
	seen, err = m.SeenWebhookEvent(ctx, "paddle", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
}
