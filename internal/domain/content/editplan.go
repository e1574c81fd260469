package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cleaninghq-app/internal/domain/sites"
)

// Supported edit actions. Adding an editable field or action is a new case
// here, not a new if-ladder in the handler.
const (
	ActionAddService  = "add_service"
	ActionChangeText  = "change_text"
	ActionChangeColor = "change_color"
	ActionOther       = "other"
)

// ErrSlugConflict marks an add_service whose derived slug already exists in
// the document. The caller surfaces it; the document is left untouched.
var ErrSlugConflict = errors.New("service slug already exists")

// EditPlan is the structured interpretation of a free-text edit request,
// produced by the LLM under the BuildEditPrompt schema and applied
// deterministically here.
type EditPlan struct {
	Action      string  `json:"action"`
	ServiceName string  `json:"service_name,omitempty"`
	FieldName   string  `json:"field_name,omitempty"`
	NewValue    string  `json:"new_value,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// ApplyResult reports what an edit changed: the audit payload for the edit
// log, the confirmation shown to the user, and any top-level SiteRequest
// fields that must change alongside the document.
type ApplyResult struct {
	EditType   string
	Message    string
	Changed    bool
	Changes    map[string]interface{}
	SiteFields map[string]interface{}
}

// editableTextFields is the whitelist for change_text. Unrecognized field
// names perform no mutation but still confirm to the user.
var editableTextFields = map[string]bool{
	"headline":    true,
	"subheadline": true,
}

// Apply mutates doc according to plan. The caller persists the whole
// document afterwards; nothing is written here.
func Apply(doc *Document, plan EditPlan, facts Facts, now time.Time) (ApplyResult, error) {
	res := ApplyResult{
		EditType:   plan.Action,
		Changes:    map[string]interface{}{},
		SiteFields: map[string]interface{}{},
	}

	switch plan.Action {
	case ActionAddService:
		name := strings.TrimSpace(plan.ServiceName)
		if name == "" {
			res.Message = "I couldn't tell which service to add. Could you name it explicitly?"
			return res, nil
		}
		slug := DeriveSlug(name, facts.City)
		if doc.HasService(slug) {
			return res, fmt.Errorf("%w: %s", ErrSlugConflict, slug)
		}
		doc.Pages.Services = append(doc.Pages.Services, synthesizeServicePage(name, facts))
		res.Changed = true
		res.Changes["added_service"] = name
		res.Changes["slug"] = slug
		// Typed as StringList so the store's jsonb Valuer handles encoding.
		res.SiteFields["service_types"] = append(append(sites.StringList{}, facts.ServiceTypes...), name)
		res.Message = fmt.Sprintf("I've added %s to your services and created its page.", name)

	case ActionChangeText:
		field := strings.ToLower(strings.TrimSpace(plan.FieldName))
		if !editableTextFields[field] || plan.NewValue == "" {
			res.Message = "Got it — though that field isn't editable yet, so nothing was changed."
			return res, nil
		}
		switch field {
		case "headline":
			doc.Pages.Homepage.Hero.Headline = plan.NewValue
		case "subheadline":
			doc.Pages.Homepage.Hero.Subheadline = plan.NewValue
		}
		res.Changed = true
		res.Changes[field] = plan.NewValue
		res.Message = fmt.Sprintf("I've updated your %s to %q.", field, plan.NewValue)

	case ActionChangeColor:
		color := strings.TrimSpace(plan.NewValue)
		if color == "" {
			res.Message = "I couldn't tell which color you wanted. Try something like \"change my primary color to blue\"."
			return res, nil
		}
		if doc.Brand == nil {
			doc.Brand = &Brand{}
		}
		doc.Brand.PrimaryColor = color
		res.Changed = true
		res.Changes["primary_color"] = color
		res.SiteFields["primary_color"] = color
		res.Message = fmt.Sprintf("I've changed your primary color to %s.", color)

	default:
		res.EditType = ActionOther
		res.Message = "I wasn't able to map that to a supported change yet, so your site is unchanged. You can edit the headline, subheadline, colors, or add a service."
	}

	if res.Changed {
		doc.LastEdited = now.UTC().Format(time.RFC3339)
	}
	return res, nil
}

// synthesizeServicePage builds the same per-service template shape the
// generator requests, filled with deterministic copy from the business
// facts. The renderer's defaults keep it presentable until a regeneration
// replaces it with AI copy.
func synthesizeServicePage(name string, facts Facts) ServicePage {
	lower := strings.ToLower(name)
	return ServicePage{
		Slug:        DeriveSlug(name, facts.City),
		ServiceName: name,
		SEO: SEO{
			Title:       fmt.Sprintf("%s in %s | %s", name, facts.City, facts.CompanyName),
			Description: fmt.Sprintf("Professional %s in %s, %s by %s.", lower, facts.City, facts.State, facts.CompanyName),
			Keywords:    []string{lower, strings.ToLower(facts.City), "cleaning"},
		},
		Hero: ServiceHero{
			H1:          fmt.Sprintf("Professional %s in %s, %s", name, facts.City, facts.State),
			Subheadline: fmt.Sprintf("Trusted %s services from %s", lower, facts.CompanyName),
			CTAText:     "Get Free Quote",
		},
		Intro: Intro{
			Headline: fmt.Sprintf("About Our %s", name),
			Text: fmt.Sprintf("We provide professional %s in %s, %s. Our experienced team uses industry-leading equipment and eco-friendly products to deliver exceptional results every time.",
				lower, facts.City, facts.State),
		},
		Benefits: []Benefit{
			{Title: "Professional trained staff", Description: "Vetted, background-checked cleaners"},
			{Title: "Eco-friendly products", Description: "EPA-approved, safe supplies"},
			{Title: "Satisfaction guaranteed", Description: "24-hour re-clean guarantee"},
		},
		WhyChoose: []Benefit{
			{Title: "Expert Team", Description: "Highly trained professionals"},
			{Title: "Quality Service", Description: "Consistent, reliable cleaning"},
			{Title: "Fair Pricing", Description: "Transparent, competitive rates"},
		},
		Process: Process{
			Headline: "Our Process",
			Steps: []Step{
				{Title: "Request a quote", Description: "Tell us about your space"},
				{Title: "Get your plan", Description: "We tailor a cleaning plan to you"},
				{Title: "Enjoy the results", Description: "Sit back while we handle the rest"},
			},
		},
		CTA: CTABlock{
			Headline: "Ready to Get Started?",
			Text:     "Contact us for a free quote",
		},
	}
}
