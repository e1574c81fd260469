package render

import (
	"fmt"
	"strings"

	"cleaninghq-app/internal/domain/content"
	"cleaninghq-app/internal/domain/sites"
)

// ResolvePage maps a selector onto a fully populated page. Selector "" or
// "home" is the homepage, "contact" and "get-a-quote" are reserved, any
// slug derivable from the site's service list is a service page, and
// everything else falls back to the homepage with Fallback set so callers
// can emit a canonical link instead of a 404.
func ResolvePage(site *sites.SiteRequest, doc *content.Document, selector string) PageData {
	facts := content.SiteFacts(site)
	selector = strings.Trim(strings.ToLower(strings.TrimSpace(selector)), "/")

	page := PageData{
		Brand:   resolveBrand(site, doc),
		Company: resolveCompany(site),
		Nav:     buildNav(facts),
	}

	switch selector {
	case "", "home":
		page.Type = PageHome
		page.Home = buildHomePage(site, doc, facts)
		page.SEO = homeSEO(site, doc, facts)
	case SelectorContact:
		page.Type = PageContact
		page.Contact = buildContactPage(doc, facts)
		page.SEO = contactSEO(site, doc, facts)
	case SelectorQuote:
		page.Type = PageQuote
		page.Quote = buildQuotePage(facts)
		page.SEO = quoteSEO(site, facts)
	default:
		if name, ok := serviceForSlug(facts, selector); ok {
			page.Type = PageService
			page.Service = buildServicePage(site, doc, facts, selector, name)
			page.SEO = serviceSEO(site, doc, page.Service, facts, selector)
			return page
		}
		page.Type = PageHome
		page.Fallback = true
		page.Home = buildHomePage(site, doc, facts)
		page.SEO = homeSEO(site, doc, facts)
	}
	return page
}

// serviceForSlug checks the slug against the site's own service list, not
// the document, so a service whose copy has not been generated yet still
// resolves to a (fallback) page.
func serviceForSlug(facts content.Facts, slug string) (string, bool) {
	for _, svc := range facts.ServiceTypes {
		if content.DeriveSlug(svc, facts.City) == slug {
			return svc, true
		}
	}
	return "", false
}

func buildNav(facts content.Facts) []NavLink {
	nav := []NavLink{{Label: "Home", Path: "/"}}
	for _, svc := range facts.ServiceTypes {
		nav = append(nav, NavLink{Label: svc, Path: "/" + content.DeriveSlug(svc, facts.City)})
	}
	nav = append(nav,
		NavLink{Label: "Contact", Path: "/" + SelectorContact},
		NavLink{Label: "Get a Quote", Path: "/" + SelectorQuote},
	)
	return nav
}

func resolveBrand(site *sites.SiteRequest, doc *content.Document) BrandData {
	var docBrand content.Brand
	if doc.Brand != nil {
		docBrand = *doc.Brand
	}
	return BrandData{
		PrimaryColor:   firstOf(docBrand.PrimaryColor, site.PrimaryColor, "#2563eb"),
		SecondaryColor: firstOf(docBrand.SecondaryColor, strOf(site.SecondaryColor), "#1e40af"),
		TertiaryColor:  firstOf(docBrand.TertiaryColor, strOf(site.TertiaryColor), "#eff6ff"),
		Style:          firstOf(site.Style, "Modern"),
	}
}

func resolveCompany(site *sites.SiteRequest) CompanyData {
	return CompanyData{
		Name:         firstOf(site.CompanyName, "Your Cleaning Company"),
		City:         firstOf(site.City, "your area"),
		State:        site.State,
		Phone:        firstOf(site.Phone, "Contact us online"),
		Email:        site.Email,
		LogoURL:      strOf(site.LogoURL),
		HeroImageURL: strOf(site.HeroImageURL),
	}
}

func buildHomePage(site *sites.SiteRequest, doc *content.Document, facts content.Facts) *HomePageData {
	home := doc.Pages.Homepage
	p := &HomePageData{
		Hero: HeroData{
			Headline:    firstOf(home.Hero.Headline, facts.CompanyName, "Professional Cleaning Services"),
			Subheadline: firstOf(home.Hero.Subheadline, fmt.Sprintf("Professional cleaning services you can trust. Serving %s.", cityState(facts))),
			CTAText:     firstOf(home.Hero.CTAText, "Get a Free Quote"),
		},
		TrustBar:         home.TrustBar,
		ServicesHeadline: firstOf(home.ServicesSection.Headline, "Our Services"),
		ServicesSubhead:  firstOf(home.ServicesSection.Subheadline, fmt.Sprintf("Cleaning services for %s and the surrounding area", firstOf(facts.City, "your area"))),
		About: AboutData{
			Headline: firstOf(home.About.Headline, fmt.Sprintf("Why Choose %s?", companyName(facts))),
			Text:     firstOf(home.About.Text, fmt.Sprintf("%s is a locally owned cleaning company serving %s. We take pride in reliable, detail-oriented work and treat every space like our own.", companyName(facts), cityState(facts))),
		},
		CTA: CTAData{
			Headline:    firstOf(home.CTA.Headline, "Get Your Free Quote Today"),
			Subheadline: firstOf(home.CTA.Subheadline, "Ready for a cleaner space? Contact us now."),
		},
		FooterTagline: firstOf(home.Footer.Tagline, fmt.Sprintf("Professional cleaning services in %s", cityState(facts))),
	}

	if len(p.TrustBar) == 0 {
		p.TrustBar = defaultTrustBar(site)
	}

	for _, svc := range facts.ServiceTypes {
		slug := content.DeriveSlug(svc, facts.City)
		desc := ""
		if sp := doc.ServiceBySlug(slug); sp != nil {
			desc = firstOf(sp.Hero.Subheadline, sp.Intro.Text)
		}
		p.Services = append(p.Services, ServiceCard{
			Name:        svc,
			Slug:        slug,
			Description: firstOf(desc, fmt.Sprintf("Professional %s tailored to your needs.", strings.ToLower(svc))),
		})
	}

	for _, b := range home.Benefits {
		p.Benefits = append(p.Benefits, BenefitData{Title: b.Title, Description: b.Description, Icon: b.Icon})
	}
	if len(p.Benefits) == 0 {
		p.Benefits = defaultBenefits(facts)
	}

	p.Testimonials = resolveTestimonials(site, home.Testimonials)
	return p
}

func buildServicePage(site *sites.SiteRequest, doc *content.Document, facts content.Facts, slug, name string) *ServicePageData {
	var sp content.ServicePage
	if found := doc.ServiceBySlug(slug); found != nil {
		sp = *found
	}

	p := &ServicePageData{
		Name: firstOf(sp.ServiceName, name),
		Slug: slug,
		Hero: HeroData{
			Headline:    firstOf(sp.Hero.H1, fmt.Sprintf("%s in %s", name, facts.City)),
			Subheadline: firstOf(sp.Hero.Subheadline, fmt.Sprintf("Professional %s for %s", strings.ToLower(name), cityState(facts))),
			CTAText:     firstOf(sp.Hero.CTAText, "Get a Free Quote"),
		},
		IntroHeadline:   firstOf(sp.Intro.Headline, fmt.Sprintf("About Our %s", name)),
		IntroText:       firstOf(sp.Intro.Text, fmt.Sprintf("%s provides dependable %s throughout %s. Every job is handled by trained, background-checked cleaners using professional-grade equipment.", companyName(facts), strings.ToLower(name), cityState(facts))),
		ProcessHeadline: firstOf(sp.Process.Headline, "How It Works"),
		CTA: CTAData{
			Headline:    firstOf(sp.CTA.Headline, fmt.Sprintf("Ready to Book %s?", name)),
			Subheadline: firstOf(sp.CTA.Text, "Get your free, no-obligation quote today."),
		},
	}

	for _, b := range sp.Benefits {
		p.Benefits = append(p.Benefits, BenefitData{Title: b.Title, Description: b.Description, Icon: b.Icon})
	}
	if len(p.Benefits) == 0 {
		p.Benefits = defaultBenefits(facts)
	}

	for _, w := range sp.WhyChoose {
		p.WhyChoose = append(p.WhyChoose, BenefitData{Title: w.Title, Description: w.Description})
	}
	if len(p.WhyChoose) == 0 {
		p.WhyChoose = []BenefitData{
			{Title: "Local and Accountable", Description: fmt.Sprintf("We live and work in %s, and our reputation depends on every job.", facts.City)},
			{Title: "Satisfaction Guaranteed", Description: "If anything is missed, we come back and make it right."},
		}
	}

	for _, s := range sp.Process.Steps {
		p.ProcessSteps = append(p.ProcessSteps, StepData{Title: s.Title, Description: s.Description})
	}
	if len(p.ProcessSteps) == 0 {
		p.ProcessSteps = []StepData{
			{Title: "Request a Quote", Description: "Tell us about your space and what you need."},
			{Title: "Get a Plan", Description: "We confirm scope, schedule, and a clear price."},
			{Title: "Enjoy the Clean", Description: "Our team arrives on time and handles the rest."},
		}
	}

	for _, f := range sp.FAQ {
		p.FAQ = append(p.FAQ, FAQData{Question: f.Question, Answer: f.Answer})
	}

	p.Testimonials = resolveTestimonials(site, nil)
	return p
}

func buildContactPage(doc *content.Document, facts content.Facts) *ContactPageData {
	return &ContactPageData{
		Headline:    firstOf(doc.Pages.Contact.Headline, "Get in Touch"),
		Subheadline: firstOf(doc.Pages.Contact.Subheadline, fmt.Sprintf("We're here to help with your cleaning needs in %s.", cityState(facts))),
	}
}

func buildQuotePage(facts content.Facts) *QuotePageData {
	return &QuotePageData{
		Headline:    "Get Your Free Quote",
		Subheadline: "Tell us about your space and we'll send a free, no-obligation quote.",
		Services:    facts.ServiceTypes,
	}
}

// resolveTestimonials prefers verified Google reviews over generated copy.
func resolveTestimonials(site *sites.SiteRequest, generated []content.Testimonial) []TestimonialData {
	if site.ReviewsVerified && len(site.GoogleReviews) > 0 {
		out := make([]TestimonialData, 0, len(site.GoogleReviews))
		for _, r := range site.GoogleReviews {
			out = append(out, TestimonialData{
				Name:   firstOf(r.Name, "Verified Customer"),
				Text:   r.Text,
				Rating: clampRating(int(r.Rating + 0.5)),
			})
		}
		return out
	}
	out := make([]TestimonialData, 0, len(generated))
	for _, t := range generated {
		out = append(out, TestimonialData{
			Name:    firstOf(t.Name, "Happy Customer"),
			Text:    t.Text,
			Rating:  clampRating(t.Rating),
			Service: t.Service,
		})
	}
	return out
}

func defaultTrustBar(site *sites.SiteRequest) []string {
	var items []string
	if site.YearsInBusiness > 0 {
		items = append(items, fmt.Sprintf("%d+ Years in Business", site.YearsInBusiness))
	}
	if site.Insured {
		items = append(items, "Licensed and Insured")
	}
	if site.ReviewsVerified && site.GoogleRating > 0 {
		items = append(items, fmt.Sprintf("%.1f-Star Google Rating", site.GoogleRating))
	}
	if len(items) == 0 {
		items = []string{"Locally Owned", "Satisfaction Guaranteed", "Free Quotes"}
	}
	return items
}

func defaultBenefits(facts content.Facts) []BenefitData {
	return []BenefitData{
		{Title: "Trusted Professionals", Description: "Trained, background-checked cleaners on every job."},
		{Title: "Flexible Scheduling", Description: "Weekly, bi-weekly, monthly, or one-time visits."},
		{Title: "Local to " + facts.City, Description: "Fast response and service you can count on."},
	}
}

// SEO builders. Canonical URLs hang off the site's preview URL.

func homeSEO(site *sites.SiteRequest, doc *content.Document, facts content.Facts) SEOData {
	seo := doc.Pages.Homepage.SEO
	return SEOData{
		Title:       firstOf(seo.Title, fmt.Sprintf("%s | Professional Cleaning in %s", companyName(facts), cityState(facts))),
		Description: firstOf(seo.Description, fmt.Sprintf("%s offers professional cleaning services in %s. Licensed, insured, and locally trusted. Get your free quote today.", companyName(facts), cityState(facts))),
		Canonical:   canonicalURL(site, ""),
		Keywords:    seo.Keywords,
	}
}

func serviceSEO(site *sites.SiteRequest, doc *content.Document, page *ServicePageData, facts content.Facts, slug string) SEOData {
	var seo content.SEO
	if sp := doc.ServiceBySlug(slug); sp != nil {
		seo = sp.SEO
	}
	return SEOData{
		Title:       firstOf(seo.Title, fmt.Sprintf("%s in %s | %s", page.Name, firstOf(facts.City, "your area"), companyName(facts))),
		Description: firstOf(seo.Description, fmt.Sprintf("%s by %s in %s. Free quotes, flexible scheduling, satisfaction guaranteed.", page.Name, companyName(facts), cityState(facts))),
		Canonical:   canonicalURL(site, slug),
		Keywords:    seo.Keywords,
	}
}

func contactSEO(site *sites.SiteRequest, doc *content.Document, facts content.Facts) SEOData {
	return SEOData{
		Title:       fmt.Sprintf("Contact %s | %s", companyName(facts), cityState(facts)),
		Description: fmt.Sprintf("Contact %s for professional cleaning in %s. Call, email, or request a free quote online.", companyName(facts), cityState(facts)),
		Canonical:   canonicalURL(site, SelectorContact),
	}
}

func quoteSEO(site *sites.SiteRequest, facts content.Facts) SEOData {
	return SEOData{
		Title:       fmt.Sprintf("Get a Free Quote | %s", companyName(facts)),
		Description: fmt.Sprintf("Request a free cleaning quote from %s in %s. Fast, no-obligation estimates.", companyName(facts), cityState(facts)),
		Canonical:   canonicalURL(site, SelectorQuote),
	}
}

func canonicalURL(site *sites.SiteRequest, path string) string {
	base := strings.TrimRight(site.PreviewURL, "/")
	if base == "" {
		base = "https://preview.cleaninghq.io/" + site.ID
	}
	if path == "" {
		return base
	}
	return base + "/" + path
}

func companyName(facts content.Facts) string {
	return firstOf(facts.CompanyName, "Your Cleaning Company")
}

func cityState(facts content.Facts) string {
	city := firstOf(facts.City, "your area")
	if facts.State == "" {
		return city
	}
	return city + ", " + facts.State
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func strOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func clampRating(r int) int {
	if r < 1 {
		return 5
	}
	if r > 5 {
		return 5
	}
	return r
}
