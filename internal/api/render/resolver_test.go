package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
)

func testSite() *sites.SiteRequest {
	return &sites.SiteRequest{
		ID:              "11111111-1111-1111-1111-111111111111",
		CompanyName:     "Sparkle Co",
		City:            "Austin",
		State:           "TX",
		Phone:           "512-555-0100",
		ServiceTypes:    sites.StringList{"Office Cleaning", "Residential Cleaning"},
		YearsInBusiness: 7,
		Insured:         true,
		PrimaryColor:    "#16a34a",
		PreviewURL:      "https://preview.cleaninghq.io/sparkle-co",
	}
}

func testDoc(t *testing.T, site *sites.SiteRequest, raw string) *content.Document {
	t.Helper()
	doc, err := content.Normalize(json.RawMessage(raw), content.SiteFacts(site))
	require.NoError(t, err)
	return doc
}

func emptyDoc() *content.Document {
	return &content.Document{Version: content.DocumentVersion}
}

func TestResolvePageHomeSelectors(t *testing.T) {
	site := testSite()
	for _, sel := range []string{"", "/", "home", "/home/"} {
		page := ResolvePage(site, emptyDoc(), sel)
		assert.Equal(t, PageHome, page.Type, "selector %q", sel)
		assert.False(t, page.Fallback, "selector %q", sel)
		require.NotNil(t, page.Home)
	}
}

func TestResolvePageServicesResolveDistinctly(t *testing.T) {
	site := testSite()
	doc := testDoc(t, site, `{
		"version": "3.0",
		"pages": {
			"homepage": {},
			"services": [
				{"slug": "office-cleaning-austin", "service_name": "Office Cleaning", "hero": {"h1": "Office Cleaning in Austin"}},
				{"slug": "residential-cleaning-austin", "service_name": "Residential Cleaning", "hero": {"h1": "Residential Cleaning in Austin"}}
			],
			"contact": {}
		}
	}`)

	office := ResolvePage(site, doc, "office-cleaning-austin")
	residential := ResolvePage(site, doc, "residential-cleaning-austin")

	require.Equal(t, PageService, office.Type)
	require.Equal(t, PageService, residential.Type)
	assert.NotEqual(t, office.Service.Name, residential.Service.Name)
	assert.Equal(t, "Office Cleaning in Austin", office.Service.Hero.Headline)
	assert.Equal(t, "Residential Cleaning in Austin", residential.Service.Hero.Headline)
}

func TestResolvePageServiceWithoutGeneratedCopy(t *testing.T) {
	// The slug derives from the service list, so the page must resolve even
	// before any copy exists for it.
	site := testSite()
	page := ResolvePage(site, emptyDoc(), "office-cleaning-austin")

	require.Equal(t, PageService, page.Type)
	assert.Equal(t, "Office Cleaning", page.Service.Name)
	assert.NotEmpty(t, page.Service.Hero.Headline)
	assert.NotEmpty(t, page.Service.IntroText)
}

func TestResolvePageReservedSelectors(t *testing.T) {
	site := testSite()

	contact := ResolvePage(site, emptyDoc(), "contact")
	require.Equal(t, PageContact, contact.Type)
	assert.NotEmpty(t, contact.Contact.Headline)

	quote := ResolvePage(site, emptyDoc(), "get-a-quote")
	require.Equal(t, PageQuote, quote.Type)
	assert.NotEmpty(t, quote.Quote.Headline)
}

func TestResolvePageUnknownFallsBackToHome(t *testing.T) {
	site := testSite()
	page := ResolvePage(site, emptyDoc(), "pressure-washing-dallas")

	assert.Equal(t, PageHome, page.Type)
	assert.True(t, page.Fallback)
	require.NotNil(t, page.Home)
}

func TestResolvePageNeverRendersEmptyStrings(t *testing.T) {
	// Worst case: no document at all and minimal facts.
	site := &sites.SiteRequest{
		ID:           "22222222-2222-2222-2222-222222222222",
		ServiceTypes: sites.StringList{"Office Cleaning"},
	}
	page := ResolvePage(site, emptyDoc(), "")

	assert.NotEmpty(t, page.Company.Name)
	assert.NotEmpty(t, page.Company.City)
	assert.NotEmpty(t, page.Company.Phone)
	assert.NotEmpty(t, page.Home.Hero.Headline)
	assert.NotEmpty(t, page.Home.Hero.Subheadline)
	assert.NotEmpty(t, page.Home.Hero.CTAText)
	assert.NotEmpty(t, page.Home.About.Headline)
	assert.NotEmpty(t, page.Home.About.Text)
	assert.NotEmpty(t, page.Home.CTA.Headline)
	assert.NotEmpty(t, page.Home.FooterTagline)
	assert.NotEmpty(t, page.SEO.Title)
	assert.NotEmpty(t, page.SEO.Description)
	assert.NotEmpty(t, page.SEO.Canonical)
	assert.NotEmpty(t, page.Brand.PrimaryColor)
	require.NotEmpty(t, page.Home.TrustBar)
	for _, item := range page.Home.TrustBar {
		assert.NotEmpty(t, item)
	}
	require.Len(t, page.Home.Services, 1)
	assert.NotEmpty(t, page.Home.Services[0].Description)
	for _, b := range page.Home.Benefits {
		assert.NotEmpty(t, b.Title)
		assert.NotEmpty(t, b.Description)
	}
}

func TestResolvePagePrefersVerifiedReviews(t *testing.T) {
	site := testSite()
	site.ReviewsVerified = true
	site.GoogleReviews = sites.ReviewList{{Name: "Dana", Rating: 5, Text: "Spotless."}}

	doc := testDoc(t, site, `{
		"version": "3.0",
		"pages": {
			"homepage": {"testimonials": [{"name": "Invented", "text": "Generated praise", "rating": 5}]},
			"services": [{"slug": "office-cleaning-austin", "service_name": "Office Cleaning"}],
			"contact": {}
		}
	}`)

	page := ResolvePage(site, doc, "")
	require.Len(t, page.Home.Testimonials, 1)
	assert.Equal(t, "Dana", page.Home.Testimonials[0].Name)
}

func TestResolvePageHomeUsesGeneratedCopy(t *testing.T) {
	site := testSite()
	doc := testDoc(t, site, `{
		"version": "3.0",
		"pages": {
			"homepage": {
				"seo": {"title": "Sparkle Co | Austin Cleaning"},
				"hero": {"headline": "Austin's Favorite Cleaners", "subheadline": "Since 2017", "cta_text": "Book Now"}
			},
			"services": [],
			"contact": {}
		}
	}`)

	page := ResolvePage(site, doc, "")
	assert.Equal(t, "Austin's Favorite Cleaners", page.Home.Hero.Headline)
	assert.Equal(t, "Book Now", page.Home.Hero.CTAText)
	assert.Equal(t, "Sparkle Co | Austin Cleaning", page.SEO.Title)
}

func TestResolvePageNav(t *testing.T) {
	site := testSite()
	page := ResolvePage(site, emptyDoc(), "")

	require.Len(t, page.Nav, 5) // home + 2 services + contact + quote
	assert.Equal(t, "/office-cleaning-austin", page.Nav[1].Path)
	assert.Equal(t, "/"+SelectorQuote, page.Nav[4].Path)
}
