package render

// Page types produced by the resolver.
const (
	PageHome    = "home"
	PageService = "service"
	PageContact = "contact"
	PageQuote   = "quote"
)

// Reserved page selectors that are never service slugs.
const (
	SelectorContact = "contact"
	SelectorQuote   = "get-a-quote"
)

// PageData is one fully-resolved page: every field is populated, either from
// the content document or from a deterministic default. A client renderer
// binds it directly; it must never receive an empty string.
type PageData struct {
	Type     string `json:"type"`
	Fallback bool   `json:"fallback"` // unrecognized selector fell back to home

	SEO     SEOData     `json:"seo"`
	Brand   BrandData   `json:"brand"`
	Company CompanyData `json:"company"`
	Nav     []NavLink   `json:"nav"`

	Home    *HomePageData    `json:"home,omitempty"`
	Service *ServicePageData `json:"service,omitempty"`
	Contact *ContactPageData `json:"contact,omitempty"`
	Quote   *QuotePageData   `json:"quote,omitempty"`
}

type SEOData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Canonical   string   `json:"canonical"`
	Keywords    []string `json:"keywords,omitempty"`
}

type BrandData struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	TertiaryColor  string `json:"tertiary_color"`
	Style          string `json:"style"`
}

type CompanyData struct {
	Name         string `json:"name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	LogoURL      string `json:"logo_url,omitempty"`
	HeroImageURL string `json:"hero_image_url,omitempty"`
}

type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type HeroData struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"cta_text"`
}

type ServiceCard struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type AboutData struct {
	Headline string `json:"headline"`
	Text     string `json:"text"`
}

type BenefitData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type TestimonialData struct {
	Name    string `json:"name"`
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	Service string `json:"service,omitempty"`
}

type CTAData struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

type TrustItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type HomePageData struct {
	Hero             HeroData          `json:"hero"`
	TrustBar         []string          `json:"trust_bar"`
	ServicesHeadline string            `json:"services_headline"`
	ServicesSubhead  string            `json:"services_subheadline"`
	Services         []ServiceCard     `json:"services"`
	About            AboutData         `json:"about"`
	Benefits         []BenefitData     `json:"benefits"`
	Testimonials     []TestimonialData `json:"testimonials"`
	CTA              CTAData           `json:"cta"`
	FooterTagline    string            `json:"footer_tagline"`
}

type StepData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FAQData struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ServicePageData struct {
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Hero            HeroData          `json:"hero"`
	IntroHeadline   string            `json:"intro_headline"`
	IntroText       string            `json:"intro_text"`
	Benefits        []BenefitData     `json:"benefits"`
	WhyChoose       []BenefitData     `json:"why_choose"`
	ProcessHeadline string            `json:"process_headline"`
	ProcessSteps    []StepData        `json:"process_steps"`
	FAQ             []FAQData         `json:"faq,omitempty"`
	Testimonials    []TestimonialData `json:"testimonials"`
	CTA             CTAData           `json:"cta"`
}

type ContactPageData struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

type QuotePageData struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	Services    []string `json:"services"`
}
