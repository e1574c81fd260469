package sites

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SiteRequest lifecycle. Status only moves forward, except that a failed
// generation run resets generating -> pending so the record can be retried.
const (
	StatusPending    = "pending"
	StatusGenerating = "generating"
	StatusGenerated  = "generated"
	StatusActive     = "active"
)

// Subscription lifecycle, driven exclusively by payment-provider events.
const (
	SubscriptionInactive  = "inactive"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StringList is a jsonb-backed ordered list of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
}

// GoogleReview is a single imported review from the business's profile.
type GoogleReview struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

type ReviewList []GoogleReview

func (l ReviewList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *ReviewList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for ReviewList", src)
	}
}

// SiteRequest is the central aggregate: one customer's generated website.
type SiteRequest struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	OwnerID    *uint   `gorm:"index" json:"-"`
	OwnerEmail *string `gorm:"index" json:"owner_email,omitempty"`

	// Business facts from the intake wizard.
	CompanyName        string     `gorm:"not null" json:"company_name"`
	City               string     `gorm:"not null" json:"city"`
	State              string     `gorm:"not null" json:"state"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	ServiceTypes       StringList `gorm:"type:jsonb;not null;default:'[]'" json:"service_types"`
	IndustriesServed   StringList `gorm:"type:jsonb;not null;default:'[]'" json:"industries_served"`
	YearsInBusiness    int        `gorm:"not null;default:0" json:"years_in_business"`
	Insured            bool       `gorm:"not null;default:false" json:"insured"`
	ExistingWebsiteURL *string    `json:"existing_website_url,omitempty"`
	GoogleBusinessURL  *string    `json:"google_business_url,omitempty"`

	// Branding.
	PrimaryColor   string  `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color,omitempty"`
	TertiaryColor  *string `json:"tertiary_color,omitempty"`
	Style          string  `json:"style"` // Modern | Corporate | Luxury | Bold | Minimal

	// Media.
	LogoURL       *string    `json:"logo_url,omitempty"`
	HeroImageURL  *string    `json:"hero_image_url,omitempty"`
	GalleryImages StringList `gorm:"type:jsonb;not null;default:'[]'" json:"gallery_images"`

	// Reputation.
	GoogleRating      float64    `gorm:"not null;default:0" json:"google_rating"`
	GoogleReviewCount int        `gorm:"not null;default:0" json:"google_review_count"`
	GoogleReviews     ReviewList `gorm:"type:jsonb;not null;default:'[]'" json:"google_reviews"`
	ReviewsVerified   bool       `gorm:"not null;default:false" json:"reviews_verified"`

	// Lifecycle.
	Status             string `gorm:"not null;default:'pending';index" json:"status"`
	SubscriptionStatus string `gorm:"not null;default:'inactive'" json:"subscription_status"`

	// Payment linkage.
	StripeCustomerID     *string `gorm:"index" json:"stripe_customer_id,omitempty"`
	StripeSessionID      *string `json:"stripe_session_id,omitempty"`
	StripeSubscriptionID *string `json:"stripe_subscription_id,omitempty"`

	// AI-produced content document and its optimistic-lock version. The
	// document is always replaced whole; ContentVersion guards against
	// concurrent read-modify-write losing an edit.
	GeneratedContent json.RawMessage `gorm:"type:jsonb" json:"generated_content,omitempty"`
	ContentVersion   int64           `gorm:"not null;default:0" json:"content_version"`

	PreviewURL string `json:"preview_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WebsiteEdit is one row of the append-only edit chat log. Rows are never
// mutated after creation; ordered by CreatedAt for replay.
type WebsiteEdit struct {
	ID            string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SiteRequestID string          `gorm:"type:uuid;not null;index" json:"site_request_id"`
	UserID        *uint           `gorm:"index" json:"-"`
	Role          string          `gorm:"not null" json:"role"` // user | assistant
	Message       string          `gorm:"type:text;not null" json:"message"`
	AppliedChanges json.RawMessage `gorm:"type:jsonb" json:"applied_changes,omitempty"`
	EditType      string          `json:"edit_type"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

// WebsiteAsset records an uploaded file's URL; the pipeline never touches
// file bytes beyond storage.
type WebsiteAsset struct {
	ID            string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SiteRequestID *string   `gorm:"type:uuid;index" json:"site_request_id,omitempty"`
	UserID        *uint     `gorm:"index" json:"-"`
	FileURL       string    `gorm:"not null" json:"file_url"`
	FileType      string    `json:"file_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// WebhookEvent deduplicates payment-provider deliveries: providers retry,
// and replaying a processed event must be a no-op.
type WebhookEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Provider        string    `gorm:"not null;uniqueIndex:ux_webhook_events_provider_event,priority:1" json:"provider"`
	ProviderEventID string    `gorm:"not null;uniqueIndex:ux_webhook_events_provider_event,priority:2" json:"provider_event_id"`
	EventType       string    `gorm:"index" json:"event_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// StatusCanTransition reports whether a status move is legal: forward-only,
// plus the generating -> pending retry reset.
func StatusCanTransition(from, to string) bool {
	if from == StatusGenerating && to == StatusPending {
		return true
	}
	order := map[string]int{
		StatusPending:    0,
		StatusGenerating: 1,
		StatusGenerated:  2,
		StatusActive:     3,
	}
	f, okF := order[from]
	t, okT := order[to]
	return okF && okT && t > f
}
