package render

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// BuildSitemap renders the sitemap for one site: homepage, contact, quote
// page, and one URL per offered service. Slugs come from the service list,
// so the sitemap stays correct even before copy is generated.
func BuildSitemap(site *sites.SiteRequest, now time.Time) ([]byte, error) {
	facts := content.SiteFacts(site)
	base := strings.TrimRight(site.PreviewURL, "/")
	if base == "" {
		base = "https://preview.cleaninghq.io/" + site.ID
	}
	lastMod := now.Format("2006-01-02")

	entry := func(path, priority string) sitemapURL {
		loc := base
		if path != "" {
			loc = base + "/" + path
		}
		return sitemapURL{Loc: loc, LastMod: lastMod, ChangeFreq: "weekly", Priority: priority}
	}

	set := urlSet{Xmlns: sitemapNamespace}
	set.URLs = append(set.URLs,
		entry("", "1.0"),
		entry(SelectorContact, "0.8"),
		entry(SelectorQuote, "0.9"),
	)
	for _, svc := range facts.ServiceTypes {
		set.URLs = append(set.URLs, entry(content.DeriveSlug(svc, facts.City), "0.8"))
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
