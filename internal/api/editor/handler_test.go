package editor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

type invokerFunc func(ctx context.Context, prompt string, schema map[string]interface{}, allowExternalContext bool) (json.RawMessage, error)

func (f invokerFunc) Invoke(ctx context.Context, prompt string, schema map[string]interface{}, allow bool) (json.RawMessage, error) {
	return f(ctx, prompt, schema, allow)
}

func planInvoker(plan content.EditPlan) invokerFunc {
	return func(context.Context, string, map[string]interface{}, bool) (json.RawMessage, error) {
		b, _ := json.Marshal(plan)
		return b, nil
	}
}

func editableSite(t *testing.T, m *store.Memory) *sites.SiteRequest {
	t.Helper()
	s := &sites.SiteRequest{
		CompanyName:        "Sparkle Co",
		City:               "Austin",
		State:              "TX",
		ServiceTypes:       sites.StringList{"Office Cleaning"},
		Status:             sites.StatusActive,
		SubscriptionStatus: sites.SubscriptionActive,
		GeneratedContent: json.RawMessage(`{
			"version": "3.0",
			"pages": {
				"homepage": {"hero": {"headline": "Old headline", "subheadline": "Old sub"}},
				"services": [{"slug": "office-cleaning-austin", "service_name": "Office Cleaning"}],
				"contact": {}
			}
		}`),
	}
	require.NoError(t, m.CreateSite(context.Background(), s))
	return s
}

func editRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sites/:id/edits", h.CreateEdit)
	r.GET("/sites/:id/edits", h.ListEdits)
	return r
}

func postEdit(t *testing.T, r *gin.Engine, siteID, message string) *httptest.ResponseRecorder {
	t.Helper()
	body := strings.NewReader(`{"message": ` + strconvQuote(message) + `}`)
	req := httptest.NewRequest(http.MethodPost, "/sites/"+siteID+"/edits", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCreateEditChangeText(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)
	h := NewHandler(m, planInvoker(content.EditPlan{
		Action: content.ActionChangeText, FieldName: "headline", NewValue: "Fresh headline", Confidence: 0.95,
	}))

	w := postEdit(t, editRouter(h), site.ID, "make the headline catchier")
	require.Equal(t, http.StatusOK, w.Code)

	var resp EditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, content.ActionChangeText, resp.EditType)
	assert.Equal(t, int64(1), resp.ContentVersion)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ContentVersion)

	doc, err := content.Normalize(got.GeneratedContent, content.SiteFacts(got))
	require.NoError(t, err)
	assert.Equal(t, "Fresh headline", doc.Pages.Homepage.Hero.Headline)
	assert.Equal(t, "Old sub", doc.Pages.Homepage.Hero.Subheadline)

	// Both sides of the exchange are logged.
	edits, err := m.ListEdits(context.Background(), site.ID, 10)
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, sites.RoleUser, edits[0].Role)
	assert.Equal(t, sites.RoleAssistant, edits[1].Role)
	assert.NotEmpty(t, edits[1].AppliedChanges)
}

func TestCreateEditAddServiceConflict(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)
	h := NewHandler(m, planInvoker(content.EditPlan{
		Action: content.ActionAddService, ServiceName: "Office Cleaning", Confidence: 0.9,
	}))

	w := postEdit(t, editRouter(h), site.ID, "add office cleaning")
	assert.Equal(t, http.StatusConflict, w.Code)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ContentVersion)
}

func TestCreateEditAddServicePersistsSiteFields(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)
	h := NewHandler(m, planInvoker(content.EditPlan{
		Action: content.ActionAddService, ServiceName: "Window Washing", Confidence: 0.9,
	}))

	w := postEdit(t, editRouter(h), site.ID, "add window washing")
	require.Equal(t, http.StatusOK, w.Code)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, sites.StringList{"Office Cleaning", "Window Washing"}, got.ServiceTypes)

	doc, err := content.Normalize(got.GeneratedContent, content.SiteFacts(got))
	require.NoError(t, err)
	assert.True(t, doc.HasService("window-washing-austin"))
}

func TestCreateEditVersionConflict(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)

	// A concurrent writer bumps the version between this handler's read
	// and its write.
	sneaky := invokerFunc(func(ctx context.Context, _ string, _ map[string]interface{}, _ bool) (json.RawMessage, error) {
		err := m.UpdateSiteVersioned(ctx, site.ID, 0, map[string]interface{}{
			"primary_color": "#000000",
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(content.EditPlan{
			Action: content.ActionChangeText, FieldName: "headline", NewValue: "Late write", Confidence: 0.9,
		})
	})

	w := postEdit(t, editRouter(NewHandler(m, sneaky)), site.ID, "change the headline")
	assert.Equal(t, http.StatusConflict, w.Code)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	doc, err := content.Normalize(got.GeneratedContent, content.SiteFacts(got))
	require.NoError(t, err)
	assert.Equal(t, "Old headline", doc.Pages.Homepage.Hero.Headline)
}

func TestCreateEditUnsupportedActionStillResponds(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)
	h := NewHandler(m, planInvoker(content.EditPlan{Action: "redesign", Confidence: 0.2}))

	w := postEdit(t, editRouter(h), site.ID, "rebuild the whole site in neon")
	require.Equal(t, http.StatusOK, w.Code)

	var resp EditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Changed)
	assert.Equal(t, content.ActionOther, resp.EditType)
	assert.Equal(t, int64(0), resp.ContentVersion)
}

func TestCreateEditValidation(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)
	h := NewHandler(m, planInvoker(content.EditPlan{Action: content.ActionOther}))
	r := editRouter(h)

	// Missing message.
	req := httptest.NewRequest(http.MethodPost, "/sites/"+site.ID+"/edits", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown site.
	w = postEdit(t, r, "00000000-0000-0000-0000-000000000000", "hello")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEditsReplay(t *testing.T) {
	m := store.NewMemory()
	site := editableSite(t, m)
	h := NewHandler(m, planInvoker(content.EditPlan{
		Action: content.ActionChangeText, FieldName: "subheadline", NewValue: "New sub", Confidence: 0.9,
	}))
	r := editRouter(h)

	require.Equal(t, http.StatusOK, postEdit(t, r, site.ID, "tweak the subheadline").Code)

	req := httptest.NewRequest(http.MethodGet, "/sites/"+site.ID+"/edits", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Edits []EditLogEntry `json:"edits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Edits, 2)
	assert.Equal(t, sites.RoleUser, resp.Edits[0].Role)
	assert.Equal(t, "tweak the subheadline", resp.Edits[0].Message)
	assert.Equal(t, sites.RoleAssistant, resp.Edits[1].Role)
}
