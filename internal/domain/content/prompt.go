package content

import (
	"fmt"
	"strings"

	"cleaninghq-app/internal/domain/sites"
)

// Fixed service-category sets driving tone selection. Matching is by exact
// service name, same as the wizard's service checklist.
var residentialServices = map[string]bool{
	"Residential Cleaning":        true,
	"Airbnb Cleaning":             true,
	"Move-In / Move-Out Cleaning": true,
}

var commercialServices = map[string]bool{
	"Commercial Cleaning":        true,
	"Office Cleaning":            true,
	"Medical Cleaning":           true,
	"Janitorial Services":        true,
	"Post-Construction Cleaning": true,
}

// industryGuidance maps a served industry to the copy requirements woven
// through every content section for it.
var industryGuidance = map[string]string{
	"Medical & Healthcare":           "Emphasize infection control, hospital-grade disinfectants, HIPAA/OSHA compliance, bloodborne pathogen protocols",
	"Industrial & Manufacturing":     "Highlight heavy machinery safety, degreasing, pressure washing, hazardous waste handling",
	"Legal & Professional Offices":   "Focus on confidentiality, professional image, background-checked staff for data security",
	"Food Service & Hospitality":     "Stress sanitation, pest prevention, grease trap cleaning, FDA/Health Dept. standards",
	"Retail & Showroom":              "Emphasize aesthetics, high foot traffic handling, floor buffing, window polishing, brand image maintenance",
	"Educational (Schools/Daycare)":  "Focus on germ reduction, non-toxic \"green\" cleaners safe for children, high-touch surface sanitization",
	"Data Centers & IT":              "Highlight dust-free environments, anti-static cleaning, HEPA vacuuming, delicate hardware care",
	"Post-Construction (Commercial)": "Emphasize debris removal, safety, drywall dust clearing, paint overspray cleanup",
	"Gym & Fitness":                  "Focus on odor control, sweat removal, equipment sanitization, fungi and staph infection prevention",
}

// SiteFacts extracts the business facts the content pipeline threads around.
func SiteFacts(s *sites.SiteRequest) Facts {
	return Facts{
		CompanyName:  s.CompanyName,
		City:         s.City,
		State:        s.State,
		Phone:        s.Phone,
		Email:        s.Email,
		ServiceTypes: s.ServiceTypes,
	}
}

// SelectTone picks the generation tone from the selected services: dual when
// both residential and commercial are present, warm/family for residential
// only, compliance/efficiency otherwise.
func SelectTone(serviceTypes []string) string {
	hasResidential := false
	hasCommercial := false
	for _, s := range serviceTypes {
		if residentialServices[s] {
			hasResidential = true
		}
		if commercialServices[s] {
			hasCommercial = true
		}
	}
	switch {
	case hasResidential && hasCommercial:
		return "Use a dual-tone approach: warm and lifestyle-oriented for residential, professional and logic-driven for commercial"
	case hasResidential:
		return `Use a warm, lifestyle-oriented tone focusing on "reclaiming time," "safety," and family`
	default:
		return `Use a professional, logic-driven tone focusing on "compliance," "operational efficiency," and "risk mitigation"`
	}
}

// AllowExternalContext reports whether the generation call may pull context
// from outside the prompt (the record references an existing website). The
// flag is passed through to the LLM collaborator, never interpreted here.
func AllowExternalContext(s *sites.SiteRequest) bool {
	return s.ExistingWebsiteURL != nil && strings.TrimSpace(*s.ExistingWebsiteURL) != ""
}

// BuildGenerationPrompt assembles the generation brief and its companion
// response schema. Service slugs are pre-computed here and pinned into the
// schema so the model cannot invent mismatched ones.
func BuildGenerationPrompt(s *sites.SiteRequest) (string, map[string]interface{}) {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a complete website content structure for %s, a cleaning business in %s, %s.\n\n",
		s.CompanyName, s.City, s.State)

	b.WriteString("COMPANY INFO:\n")
	fmt.Fprintf(&b, "- Services: %s\n", strings.Join(s.ServiceTypes, ", "))
	fmt.Fprintf(&b, "- Industries: %s\n", orDefault(strings.Join(s.IndustriesServed, ", "), "General"))
	fmt.Fprintf(&b, "- Years in business: %s\n", yearsLabel(s.YearsInBusiness))
	fmt.Fprintf(&b, "- Insured: %s\n", yesNo(s.Insured))
	fmt.Fprintf(&b, "- Google rating: %s\n", ratingLabel(s.GoogleRating))
	fmt.Fprintf(&b, "- Brand style: %s\n\n", orDefault(s.Style, "Modern"))

	fmt.Fprintf(&b, "TONE: %s\n", SelectTone(s.ServiceTypes))

	if len(s.IndustriesServed) > 0 {
		fmt.Fprintf(&b, "\nINDUSTRIES SERVED: %s\n\nINDUSTRY-SPECIFIC REQUIREMENTS:\n", strings.Join(s.IndustriesServed, ", "))
		for _, ind := range s.IndustriesServed {
			if g, ok := industryGuidance[ind]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", ind, g)
			}
		}
		b.WriteString("\nIMPORTANT: Integrate these industry-specific pain points and solutions naturally throughout ALL content - headlines, descriptions, benefits, and testimonials. Do not isolate them in a single section.\n")
	}

	b.WriteString("\nGenerate JSON with this EXACT structure:\n\n")
	b.WriteString(structureBrief(s))
	b.WriteString("\nCRITICAL: Generate complete, detailed content for ALL pages. Each service page must be fully populated and must use exactly the slug listed for it.\n")

	return b.String(), generationSchema(s)
}

// structureBrief spells the target document out in the prompt body; models
// follow a worked example far more reliably than a bare schema.
func structureBrief(s *sites.SiteRequest) string {
	var b strings.Builder

	b.WriteString(`{
  "pages": {
    "homepage": {
      "seo": {"title": "60-char title with ` + s.City + `", "description": "150-char description", "keywords": ["keyword1", "keyword2"]},
      "hero": {"headline": "Benefit-driven headline mentioning ` + s.City + `", "subheadline": "Trust-building subheadline", "cta_text": "Get Free Quote"},
      "trust_bar": ["Trust element 1", "Trust element 2", "Trust element 3", "Trust element 4"],
      "services_section": {"headline": "Our Services", "subheadline": "Professional cleaning solutions"},
      "about": {"headline": "Why Choose ` + s.CompanyName + `?", "text": "3-4 sentences establishing authority"},
      "benefits": [{"title": "Benefit", "description": "Detail", "icon": "shield"}],
      "testimonials": [{"name": "Customer Name", "text": "Detailed testimonial", "rating": 5, "service": "Service used"}],
      "cta": {"headline": "Ready for a Spotless Space?", "subheadline": "Get your free quote today"},
      "footer": {"tagline": "Company tagline"}
    },
    "services": [
`)
	for i, svc := range s.ServiceTypes {
		slug := DeriveSlug(svc, s.City)
		fmt.Fprintf(&b, `      {
        "slug": %q,
        "service_name": %q,
        "seo": {"title": "%s in %s | %s", "description": "150-char description", "keywords": ["%s", "%s", "cleaning"]},
        "hero": {"h1": "Professional %s in %s, %s", "subheadline": "Trusted subheadline", "cta_text": "Get Free Quote"},
        "intro": {"headline": "About Our %s", "text": "4-5 sentences describing the service with industry focus"},
        "benefits": [{"title": "Benefit", "description": "Industry-specific benefit"}],
        "why_choose": [{"title": "Reason", "description": "Detail"}],
        "process": {"headline": "Our Process", "steps": [{"title": "Step 1", "description": "Detail"}, {"title": "Step 2", "description": "Detail"}, {"title": "Step 3", "description": "Detail"}]},
        "faq": [{"question": "Common buyer objection", "answer": "Reassuring answer"}],
        "cta": {"headline": "Ready to Get Started?", "text": "Contact us for a free quote"}
      }`,
			slug, svc,
			svc, s.City, s.CompanyName,
			strings.ToLower(svc), strings.ToLower(s.City),
			svc, s.City, s.State,
			svc)
		if i < len(s.ServiceTypes)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(`    ],
    "contact": {
      "seo": {"title": "Contact ` + s.CompanyName + ` | ` + s.City + `", "description": "Get in touch with ` + s.CompanyName + `"},
      "headline": "Get in Touch",
      "subheadline": "We're here to help with your cleaning needs"
    }
  }
}
`)
	return b.String()
}

// generationSchema builds the machine-readable constraint matching the
// brief. One services[] entry per selected service; slug and service_name
// are pinned by enum so the count and identity of pages are not up to the
// model.
func generationSchema(s *sites.SiteRequest) map[string]interface{} {
	slugs := make([]interface{}, 0, len(s.ServiceTypes))
	names := make([]interface{}, 0, len(s.ServiceTypes))
	for _, svc := range s.ServiceTypes {
		slugs = append(slugs, DeriveSlug(svc, s.City))
		names = append(names, svc)
	}

	n := len(s.ServiceTypes)
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"pages"},
		"properties": map[string]interface{}{
			"pages": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"homepage", "services", "contact"},
				"properties": map[string]interface{}{
					"homepage": map[string]interface{}{"type": "object"},
					"services": map[string]interface{}{
						"type":     "array",
						"minItems": n,
						"maxItems": n,
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"slug", "service_name"},
							"properties": map[string]interface{}{
								"slug":         map[string]interface{}{"type": "string", "enum": slugs},
								"service_name": map[string]interface{}{"type": "string", "enum": names},
							},
						},
					},
					"contact": map[string]interface{}{"type": "object"},
				},
			},
		},
	}
}

// BuildEditPrompt assembles the edit-interpretation request: the user's
// message plus the structured menu of supported actions, constrained to the
// edit-plan schema.
func BuildEditPrompt(s *sites.SiteRequest, message, fileURL string) (string, map[string]interface{}) {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a website content editor for %s, a cleaning business in %s, %s.\n\n",
		s.CompanyName, s.City, s.State)
	fmt.Fprintf(&b, "Current services: %s\n\n", strings.Join(s.ServiceTypes, ", "))
	fmt.Fprintf(&b, "User request: %q\n", message)
	if fileURL != "" {
		fmt.Fprintf(&b, "User uploaded file: %s\n", fileURL)
	}
	b.WriteString(`
Interpret the request as ONE of these supported actions:
- "add_service": the user wants a new service page. Set service_name to the service to add.
- "change_text": the user wants homepage copy changed. Set field_name ("headline" or "subheadline") and new_value.
- "change_color": the user wants a new brand color. Set new_value to a hex color like "#3B82F6".
- "other": anything else. No fields change; still write a friendly response.

Set confidence between 0 and 1 for how sure you are of the interpretation.
Return only the JSON object.
`)

	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"action", "confidence"},
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{ActionAddService, ActionChangeText, ActionChangeColor, ActionOther},
			},
			"service_name": map[string]interface{}{"type": "string"},
			"field_name":   map[string]interface{}{"type": "string"},
			"new_value":    map[string]interface{}{"type": "string"},
			"confidence":   map[string]interface{}{"type": "number"},
		},
	}
	return b.String(), schema
}

// BuildImageScrapePrompt asks the model to pull usable business imagery off
// the record's existing website. Runs with external context enabled.
func BuildImageScrapePrompt(websiteURL string) (string, map[string]interface{}) {
	var b strings.Builder

	fmt.Fprintf(&b, "Extract image URLs from this website: %s\n\n", websiteURL)
	b.WriteString(`Find:
- Logo image URL
- Hero/banner image URLs
- Gallery/portfolio image URLs

Return only real business photos, exclude:
- Icons
- Tiny images (<100px)
- Background patterns
- Stock photos
`)

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"logo_url":       map[string]interface{}{"type": "string"},
			"hero_image_url": map[string]interface{}{"type": "string"},
			"gallery_images": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
	}
	return b.String(), schema
}

// BuildBusinessProfilePrompt asks the model to look the business up on its
// Google Business Profile, by URL when the record has one and by name/city
// otherwise. Runs with external context enabled.
func BuildBusinessProfilePrompt(s *sites.SiteRequest) (string, map[string]interface{}) {
	query := fmt.Sprintf("%s %s %s Google Business Profile", s.CompanyName, s.City, s.State)
	if s.GoogleBusinessURL != nil && strings.TrimSpace(*s.GoogleBusinessURL) != "" {
		query = *s.GoogleBusinessURL
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Find Google Business Profile information for this cleaning business:\n%s\n\n", query)
	b.WriteString(`Extract:
- Business name
- Website URL
- Google rating (1-5)
- Review count
- Top 10 recent reviews with: reviewer name, rating, review text
- Business photos URLs
`)

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"business_name": map[string]interface{}{"type": "string"},
			"website_url":   map[string]interface{}{"type": "string"},
			"rating":        map[string]interface{}{"type": "number"},
			"review_count":  map[string]interface{}{"type": "number"},
			"reviews": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":   map[string]interface{}{"type": "string"},
						"rating": map[string]interface{}{"type": "number"},
						"text":   map[string]interface{}{"type": "string"},
					},
				},
			},
			"photos": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
	}
	return b.String(), schema
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "Not specified"
}

func yearsLabel(years int) string {
	if years <= 0 {
		return "New"
	}
	return fmt.Sprintf("%d", years)
}

func ratingLabel(rating float64) string {
	if rating <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", rating)
}
