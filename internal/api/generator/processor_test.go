package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

// fakeInvoker returns a canned response per company name, or an error.
type fakeInvoker struct {
	responses map[string]json.RawMessage
	errs      map[string]error
}

func (f *fakeInvoker) Invoke(_ context.Context, prompt string, _ map[string]interface{}, _ bool) (json.RawMessage, error) {
	for name, err := range f.errs {
		if strings.Contains(prompt, name) {
			return nil, err
		}
	}
	for name, resp := range f.responses {
		if strings.Contains(prompt, name) {
			return resp, nil
		}
	}
	return nil, errors.New("no canned response")
}

func generatedDoc(city string, services ...string) json.RawMessage {
	pages := map[string]interface{}{
		"homepage": map[string]interface{}{
			"hero": map[string]interface{}{"headline": "Generated headline"},
		},
		"contact": map[string]interface{}{"headline": "Get in Touch"},
	}
	var svc []map[string]interface{}
	for _, s := range services {
		svc = append(svc, map[string]interface{}{
			"slug":         content.DeriveSlug(s, city),
			"service_name": s,
		})
	}
	pages["services"] = svc
	b, _ := json.Marshal(map[string]interface{}{"pages": pages})
	return b
}

func pendingSite(m *store.Memory, name string) *sites.SiteRequest {
	s := &sites.SiteRequest{
		CompanyName:  name,
		City:         "Austin",
		State:        "TX",
		ServiceTypes: sites.StringList{"Office Cleaning"},
		Status:       sites.StatusPending,
	}
	_ = m.CreateSite(context.Background(), s)
	time.Sleep(time.Millisecond) // distinct created_at ordering
	return s
}

func TestProcessPendingIsolatesFailures(t *testing.T) {
	m := store.NewMemory()
	first := pendingSite(m, "Alpha Cleaning")
	second := pendingSite(m, "Bravo Cleaning")
	third := pendingSite(m, "Charlie Cleaning")

	invoker := &fakeInvoker{
		responses: map[string]json.RawMessage{
			"Alpha Cleaning":   generatedDoc("Austin", "Office Cleaning"),
			"Charlie Cleaning": generatedDoc("Austin", "Office Cleaning"),
		},
		errs: map[string]error{
			"Bravo Cleaning": fmt.Errorf("model timeout"),
		},
	}

	p := NewProcessor(m, invoker)
	results, err := p.ProcessPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "generated", results[0].Status)
	assert.Equal(t, "failed", results[1].Status)
	assert.Contains(t, results[1].Error, "model timeout")
	assert.Equal(t, "generated", results[2].Status)

	// Successes persisted their document and advanced; the failure was
	// reset to pending for the next run.
	for _, id := range []string{first.ID, third.ID} {
		got, err := m.GetSite(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, sites.StatusGenerated, got.Status)
		assert.NotEmpty(t, got.GeneratedContent)
	}
	failed, err := m.GetSite(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, sites.StatusPending, failed.Status)
	assert.Empty(t, failed.GeneratedContent)
}

func TestProcessSiteRejectsMissingPages(t *testing.T) {
	m := store.NewMemory()
	site := pendingSite(m, "Delta Cleaning")

	invoker := &fakeInvoker{
		responses: map[string]json.RawMessage{
			"Delta Cleaning": json.RawMessage(`{"hero": {"headline": "flat shape"}}`),
		},
	}

	err := NewProcessor(m, invoker).ProcessSite(context.Background(), site)
	assert.ErrorIs(t, err, content.ErrMissingPages)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, sites.StatusPending, got.Status)
	assert.Empty(t, got.GeneratedContent)
}

func TestProcessSiteStampsMetadata(t *testing.T) {
	m := store.NewMemory()
	site := pendingSite(m, "Echo Cleaning")

	invoker := &fakeInvoker{
		responses: map[string]json.RawMessage{
			"Echo Cleaning": generatedDoc("Austin", "Office Cleaning"),
		},
	}

	require.NoError(t, NewProcessor(m, invoker).ProcessSite(context.Background(), site))

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)

	doc, err := content.Normalize(got.GeneratedContent, content.SiteFacts(got))
	require.NoError(t, err)
	assert.Equal(t, content.DocumentVersion, doc.Version)
	assert.NotEmpty(t, doc.GeneratedAt)
	assert.True(t, doc.HasService("office-cleaning-austin"))
}

func TestProcessSiteRefusesNonPending(t *testing.T) {
	m := store.NewMemory()
	site := pendingSite(m, "Foxtrot Cleaning")
	require.NoError(t, m.UpdateSite(context.Background(), site.ID, map[string]interface{}{
		"status": sites.StatusActive,
	}))
	site.Status = sites.StatusActive

	err := NewProcessor(m, &fakeInvoker{}).ProcessSite(context.Background(), site)
	assert.Error(t, err)
}
