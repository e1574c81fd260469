package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

// fakeInvoker answers the image-scrape and profile prompts separately, and
// records whether external context was requested.
type fakeInvoker struct {
	images          json.RawMessage
	imagesErr       error
	profile         json.RawMessage
	profileErr      error
	externalContext []bool
}

func (f *fakeInvoker) Invoke(_ context.Context, prompt string, _ map[string]interface{}, allow bool) (json.RawMessage, error) {
	f.externalContext = append(f.externalContext, allow)
	if strings.Contains(prompt, "Extract image URLs") {
		return f.images, f.imagesErr
	}
	if strings.Contains(prompt, "Google Business Profile") {
		return f.profile, f.profileErr
	}
	return nil, errors.New("unexpected prompt")
}

func intakeSite(t *testing.T, m *store.Memory, mutate func(*sites.SiteRequest)) *sites.SiteRequest {
	t.Helper()
	s := &sites.SiteRequest{
		CompanyName:  "Sparkle Co",
		City:         "Austin",
		State:        "TX",
		ServiceTypes: sites.StringList{"Office Cleaning"},
	}
	if mutate != nil {
		mutate(s)
	}
	require.NoError(t, m.CreateSite(context.Background(), s))
	return s
}

func postEnrich(t *testing.T, m *store.Memory, inv *fakeInvoker, siteID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sites/:id/enrich", NewHandler(m, inv).Enrich)
	req := httptest.NewRequest(http.MethodPost, "/sites/"+siteID+"/enrich", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnrichBackfillsScrapedData(t *testing.T) {
	m := store.NewMemory()
	url := "https://www.sparkle.co"
	existing := "https://existing-logo.png"
	site := intakeSite(t, m, func(s *sites.SiteRequest) {
		s.ExistingWebsiteURL = &url
		s.LogoURL = &existing
	})

	inv := &fakeInvoker{
		images: json.RawMessage(`{
			"logo_url": "https://sparkle.co/logo.png",
			"hero_image_url": "https://sparkle.co/hero.jpg",
			"gallery_images": ["https://sparkle.co/g1.jpg"]
		}`),
		profile: json.RawMessage(`{
			"website_url": "http://sparkle.co/",
			"rating": 4.8,
			"review_count": 57,
			"reviews": [{"name": "Ana", "rating": 5, "text": "Spotless."}]
		}`),
	}

	w := postEnrich(t, m, inv, site.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []bool{true, true}, inv.externalContext)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)

	// Customer-entered logo wins; the empty hero slot is backfilled.
	assert.Equal(t, existing, *got.LogoURL)
	require.NotNil(t, got.HeroImageURL)
	assert.Equal(t, "https://sparkle.co/hero.jpg", *got.HeroImageURL)
	assert.Equal(t, sites.StringList{"https://sparkle.co/g1.jpg"}, got.GalleryImages)

	assert.Equal(t, 4.8, got.GoogleRating)
	assert.Equal(t, 57, got.GoogleReviewCount)
	require.Len(t, got.GoogleReviews, 1)
	assert.Equal(t, "Ana", got.GoogleReviews[0].Name)

	// www/https vs bare http resolve to the same site.
	assert.True(t, got.ReviewsVerified)
}

func TestEnrichUnverifiedWhenWebsitesDiffer(t *testing.T) {
	m := store.NewMemory()
	url := "https://sparkle.co"
	site := intakeSite(t, m, func(s *sites.SiteRequest) {
		s.ExistingWebsiteURL = &url
	})

	inv := &fakeInvoker{
		imagesErr: errors.New("scrape timeout"),
		profile:   json.RawMessage(`{"website_url": "https://someoneelse.com", "rating": 4.2}`),
	}

	w := postEnrich(t, m, inv, site.ID)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)

	// The failed image step cost nothing but its own fields.
	assert.Nil(t, got.LogoURL)
	assert.Equal(t, 4.2, got.GoogleRating)
	assert.False(t, got.ReviewsVerified)
}

func TestEnrichImportsProfilePhotosIntoEmptyGallery(t *testing.T) {
	m := store.NewMemory()
	site := intakeSite(t, m, nil)

	inv := &fakeInvoker{
		profile: json.RawMessage(`{
			"rating": 4.5,
			"photos": ["p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"]
		}`),
	}

	w := postEnrich(t, m, inv, site.ID)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, sites.StringList{"p1", "p2", "p3", "p4", "p5", "p6"}, got.GalleryImages)
}

func TestEnrichKeepsExistingGallery(t *testing.T) {
	m := store.NewMemory()
	site := intakeSite(t, m, func(s *sites.SiteRequest) {
		s.GalleryImages = sites.StringList{"mine.jpg"}
	})

	inv := &fakeInvoker{
		profile: json.RawMessage(`{"photos": ["p1", "p2"]}`),
	}

	w := postEnrich(t, m, inv, site.ID)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := m.GetSite(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, sites.StringList{"mine.jpg"}, got.GalleryImages)
}

func TestEnrichOwnedSiteHiddenFromStrangers(t *testing.T) {
	m := store.NewMemory()
	owner := uint(42)
	site := intakeSite(t, m, func(s *sites.SiteRequest) {
		s.OwnerID = &owner
	})

	// The request carries no user_id, so the caller is not the owner.
	w := postEnrich(t, m, &fakeInvoker{}, site.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrichUnknownSite(t *testing.T) {
	m := store.NewMemory()
	w := postEnrich(t, m, &fakeInvoker{}, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
