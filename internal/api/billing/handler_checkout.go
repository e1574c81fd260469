package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"

	"cleaninghq-app/config"
	"cleaninghq-app/internal/store"
)

// Handler creates Stripe sessions for site subscriptions. It only hands
// users to Stripe; all state changes land through the webhook.
type Handler struct {
	Store store.SiteStore
}

func NewHandler(s store.SiteStore) *Handler {
	return &Handler{Store: s}
}

// CreateCheckoutSession handles POST /create-checkout-session.
// The session carries site_request_id in its metadata; the webhook uses it
// to find the record when payment completes.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		SiteRequestID string `json:"site_request_id"`
		Email         string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SiteRequestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid site_request_id"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	site, err := h.Store.GetSite(c.Request.Context(), body.SiteRequestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return
	}

	email := body.Email
	if email == "" {
		email = site.Email
	}

	appURL := config.APP_URL

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(appURL + "/preview/" + site.ID + "?subscribed=1"),
		CancelURL:  stripe.String(appURL + "/preview/" + site.ID + "?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(config.STRIPE_PRICE_ID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(site.ID),
		Metadata: map[string]string{
			"site_request_id": site.ID,
		},

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"site_request_id": site.ID,
			},
		},
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	if site.StripeCustomerID != nil && *site.StripeCustomerID != "" {
		params.Customer = site.StripeCustomerID
		params.CustomerEmail = nil
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}
