package siteapi

// CreateSiteRequestInput is the intake wizard payload. Only identity and at
// least one service are mandatory; everything else improves the generation.
type CreateSiteRequestInput struct {
	CompanyName string `json:"company_name" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`

	ServiceTypes     []string `json:"service_types" binding:"required,min=1"`
	IndustriesServed []string `json:"industries_served"`
	YearsInBusiness  int      `json:"years_in_business" binding:"omitempty,gte=0"`
	Insured          bool     `json:"insured"`

	ExistingWebsiteURL string `json:"existing_website_url"`
	GoogleBusinessURL  string `json:"google_business_url"`

	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	TertiaryColor  string `json:"tertiary_color"`
	Style          string `json:"style"`

	LogoURL       string   `json:"logo_url"`
	HeroImageURL  string   `json:"hero_image_url"`
	GalleryImages []string `json:"gallery_images"`

	GoogleRating      float64             `json:"google_rating" binding:"omitempty,gte=0,lte=5"`
	GoogleReviewCount int                 `json:"google_review_count" binding:"omitempty,gte=0"`
	GoogleReviews     []GoogleReviewInput `json:"google_reviews"`
	ReviewsVerified   bool                `json:"reviews_verified"`
}

type GoogleReviewInput struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// UpdateHeroInput carries the hero editor's direct save. Empty fields are
// left unchanged.
type UpdateHeroInput struct {
	Headline     string `json:"headline"`
	Subheadline  string `json:"subheadline"`
	CTAText      string `json:"cta_text"`
	HeroImageURL string `json:"hero_image_url"`
}
