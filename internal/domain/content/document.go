package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DocumentVersion is the shape every document is upgraded to at read time.
const DocumentVersion = "3.0"

// ErrMissingPages marks a generation response without the mandatory top-level
// pages structure. This is a hard failure: a half-populated site must never
// be persisted silently.
var ErrMissingPages = errors.New("generated content missing pages structure")

// Facts are the business facts a document cannot carry itself; legacy shapes
// need them to derive slugs, and the renderer needs them for defaults.
type Facts struct {
	CompanyName  string
	City         string
	State        string
	Phone        string
	Email        string
	ServiceTypes []string
}

// Document is the normalized (v3) content document. Older stored shapes are
// upgraded into it once by Normalize instead of scattering fallback chains
// through every render call site.
type Document struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at,omitempty"`
	LastEdited  string `json:"last_edited,omitempty"`
	Brand       *Brand `json:"brand,omitempty"`
	Pages       Pages  `json:"pages"`
}

type Pages struct {
	Homepage Homepage      `json:"homepage"`
	Services []ServicePage `json:"services"`
	Contact  ContactPage   `json:"contact"`
}

type Brand struct {
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	TertiaryColor  string `json:"tertiary_color,omitempty"`
}

type SEO struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type Hero struct {
	Headline    string `json:"headline,omitempty"`
	Subheadline string `json:"subheadline,omitempty"`
	CTAText     string `json:"cta_text,omitempty"`
}

type Section struct {
	Headline    string `json:"headline,omitempty"`
	Subheadline string `json:"subheadline,omitempty"`
}

type About struct {
	Headline string `json:"headline,omitempty"`
	Text     string `json:"text,omitempty"`
}

type Benefit struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type Testimonial struct {
	Name    string `json:"name,omitempty"`
	Text    string `json:"text,omitempty"`
	Rating  int    `json:"rating,omitempty"`
	Service string `json:"service,omitempty"`
}

type Footer struct {
	Tagline string `json:"tagline,omitempty"`
}

type Homepage struct {
	SEO             SEO           `json:"seo"`
	Hero            Hero          `json:"hero"`
	TrustBar        []string      `json:"trust_bar,omitempty"`
	ServicesSection Section       `json:"services_section"`
	About           About         `json:"about"`
	Benefits        []Benefit     `json:"benefits,omitempty"`
	Testimonials    []Testimonial `json:"testimonials,omitempty"`
	CTA             Section       `json:"cta"`
	Footer          Footer        `json:"footer"`
}

type ServiceHero struct {
	H1          string `json:"h1,omitempty"`
	Subheadline string `json:"subheadline,omitempty"`
	CTAText     string `json:"cta_text,omitempty"`
}

type Intro struct {
	Headline string `json:"headline,omitempty"`
	Text     string `json:"text,omitempty"`
}

type Step struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type Process struct {
	Headline string `json:"headline,omitempty"`
	Steps    []Step `json:"steps,omitempty"`
}

type FAQ struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type CTABlock struct {
	Headline string `json:"headline,omitempty"`
	Text     string `json:"text,omitempty"`
}

type ServicePage struct {
	Slug        string    `json:"slug"`
	ServiceName string    `json:"service_name"`
	SEO         SEO       `json:"seo"`
	Hero        ServiceHero `json:"hero"`
	Intro       Intro     `json:"intro"`
	Benefits    []Benefit `json:"benefits,omitempty"`
	WhyChoose   []Benefit `json:"why_choose,omitempty"`
	Process     Process   `json:"process"`
	FAQ         []FAQ     `json:"faq,omitempty"`
	CTA         CTABlock  `json:"cta"`
}

type ContactPage struct {
	SEO         SEO    `json:"seo"`
	Headline    string `json:"headline,omitempty"`
	Subheadline string `json:"subheadline,omitempty"`
}

// ServiceBySlug returns the generated page for a slug, or nil.
func (d *Document) ServiceBySlug(slug string) *ServicePage {
	for i := range d.Pages.Services {
		if d.Pages.Services[i].Slug == slug {
			return &d.Pages.Services[i]
		}
	}
	return nil
}

// HasService reports whether a slug already has a generated page.
func (d *Document) HasService(slug string) bool {
	return d.ServiceBySlug(slug) != nil
}

// Marshal serializes the document in the current shape for storage. The
// whole document is always written back; the store never deep-merges it.
func (d *Document) Marshal() (json.RawMessage, error) {
	d.Version = DocumentVersion
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal content document: %w", err)
	}
	return b, nil
}

// ValidateGenerated gates a fresh LLM response: it must parse and must carry
// a pages object. Anything else is surfaced to the caller, not repaired.
func ValidateGenerated(raw json.RawMessage) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("generated content is not a JSON object: %w", err)
	}
	pages, ok := m["pages"]
	if !ok {
		return ErrMissingPages
	}
	var pm map[string]json.RawMessage
	if err := json.Unmarshal(pages, &pm); err != nil {
		return ErrMissingPages
	}
	return nil
}

// Normalize upgrades any historical content-document shape to the current
// one. It never fails on missing fields, only on malformed JSON:
//
//	v1: flat hero/about + services description map
//	v2: flat homepage fields + pages.{service_key} keyed by underscored name
//	v3: pages.homepage / pages.services[] (explicit slugs) / pages.contact
//
// A nil/empty raw document yields an empty document; the renderer fills
// every gap with deterministic defaults.
func Normalize(raw json.RawMessage, facts Facts) (*Document, error) {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return &Document{Version: DocumentVersion}, nil
	}

	var probe struct {
		Version string `json:"version"`
		Pages   struct {
			Services json.RawMessage `json:"services"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse content document: %w", err)
	}

	// v3 documents are tagged by Marshal; the services-array check catches
	// v3-shaped blobs written before the tag existed. A v3 document may have
	// no services yet (edited before generation), so the tag must win.
	if probe.Version == DocumentVersion ||
		(len(probe.Pages.Services) > 0 && probe.Pages.Services[0] == '[') {
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse v3 content document: %w", err)
		}
		doc.Version = DocumentVersion
		return &doc, nil
	}

	return normalizeLegacy(raw, facts)
}

// legacyDoc covers both v1 and v2: v1 is a strict subset of the v2 fields.
type legacyDoc struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
	LastEdited  string `json:"last_edited"`
	Brand       *Brand `json:"brand"`

	SEO struct {
		Homepage struct {
			MetaTitle       string `json:"meta_title"`
			MetaDescription string `json:"meta_description"`
			FocusKeyword    string `json:"focus_keyword"`
		} `json:"homepage"`
	} `json:"seo"`

	Hero     Hero     `json:"hero"`
	TrustBar []string `json:"trust_bar"`

	Services             map[string]string `json:"services"`
	ServicesDescriptions map[string]string `json:"services_descriptions"`

	About struct {
		Title    string `json:"title"`
		Headline string `json:"headline"`
		Text     string `json:"text"`
	} `json:"about"`

	Benefits []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"benefits"`

	Testimonials []struct {
		Name        string `json:"name"`
		Text        string `json:"text"`
		Rating      int    `json:"rating"`
		Service     string `json:"service"`
		ServiceUsed string `json:"service_used"`
	} `json:"testimonials"`

	CTA    Section `json:"cta"`
	Footer Footer  `json:"footer"`

	Pages map[string]legacyServicePage `json:"pages"`
}

type legacyServicePage struct {
	SEO struct {
		MetaTitle       string `json:"meta_title"`
		MetaDescription string `json:"meta_description"`
		FocusKeyword    string `json:"focus_keyword"`
	} `json:"seo"`
	Headline         string `json:"headline"`
	Subheadline      string `json:"subheadline"`
	DescriptionTitle string `json:"description_title"`
	Description      string `json:"description"`
	Benefits         []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"benefits"`
	WhyChooseUs []struct {
		Title       string `json:"title"`
		Desc        string `json:"desc"`
		Description string `json:"description"`
	} `json:"why_choose_us"`
}

func normalizeLegacy(raw json.RawMessage, facts Facts) (*Document, error) {
	var legacy legacyDoc
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("parse legacy content document: %w", err)
	}

	doc := &Document{
		Version:     DocumentVersion,
		GeneratedAt: legacy.GeneratedAt,
		LastEdited:  legacy.LastEdited,
		Brand:       legacy.Brand,
	}

	hp := &doc.Pages.Homepage
	hp.SEO = SEO{
		Title:       legacy.SEO.Homepage.MetaTitle,
		Description: legacy.SEO.Homepage.MetaDescription,
	}
	if kw := legacy.SEO.Homepage.FocusKeyword; kw != "" {
		hp.SEO.Keywords = []string{kw}
	}
	hp.Hero = legacy.Hero
	hp.TrustBar = legacy.TrustBar
	hp.About = About{Headline: legacy.About.Headline, Text: legacy.About.Text}
	if hp.About.Headline == "" {
		hp.About.Headline = legacy.About.Title
	}
	for _, b := range legacy.Benefits {
		hp.Benefits = append(hp.Benefits, Benefit{Title: b.Title, Description: b.Description})
	}
	for _, t := range legacy.Testimonials {
		svc := t.Service
		if svc == "" {
			svc = t.ServiceUsed
		}
		hp.Testimonials = append(hp.Testimonials, Testimonial{
			Name: t.Name, Text: t.Text, Rating: t.Rating, Service: svc,
		})
	}
	hp.CTA = legacy.CTA
	hp.Footer = legacy.Footer

	// Service pages exist only for services the record actually offers:
	// service_types is the source of truth, the document is a cache.
	for _, name := range facts.ServiceTypes {
		key := DeriveContentKey(name)
		page, ok := legacy.Pages[key]
		desc := legacyServiceDescription(legacy, name, key)
		if !ok && desc == "" {
			continue
		}
		sp := ServicePage{
			Slug:        DeriveSlug(name, facts.City),
			ServiceName: name,
			SEO: SEO{
				Title:       page.SEO.MetaTitle,
				Description: page.SEO.MetaDescription,
			},
			Hero: ServiceHero{
				H1:          page.Headline,
				Subheadline: page.Subheadline,
			},
			Intro: Intro{
				Headline: page.DescriptionTitle,
				Text:     page.Description,
			},
		}
		if sp.Intro.Text == "" {
			sp.Intro.Text = desc
		}
		for _, b := range page.Benefits {
			sp.Benefits = append(sp.Benefits, Benefit{Title: b.Title, Description: b.Description})
		}
		for _, w := range page.WhyChooseUs {
			d := w.Description
			if d == "" {
				d = w.Desc
			}
			sp.WhyChoose = append(sp.WhyChoose, Benefit{Title: w.Title, Description: d})
		}
		doc.Pages.Services = append(doc.Pages.Services, sp)
	}

	return doc, nil
}

// legacyServiceDescription looks a service description up under both the
// display name and the underscored content key; v1 documents used either.
func legacyServiceDescription(legacy legacyDoc, name, key string) string {
	for _, m := range []map[string]string{legacy.Services, legacy.ServicesDescriptions} {
		if m == nil {
			continue
		}
		if d, ok := m[name]; ok && d != "" {
			return d
		}
		if d, ok := m[key]; ok && d != "" {
			return d
		}
	}
	return ""
}
