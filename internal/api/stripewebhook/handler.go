package stripewebhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"

	"cleaninghq-app/config"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

const providerStripe = "stripe"

// Handler processes Stripe webhook deliveries. Subscription state on a site
// record changes only here; no user-facing endpoint writes it.
type Handler struct {
	Store store.SiteStore
}

func NewHandler(s store.SiteStore) *Handler {
	return &Handler{Store: s}
}

func (h *Handler) StripeWebhook(c *gin.Context) {
	// Stripe key is required for any follow-up API calls.
	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}

	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.WithError(err).Warn("Stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	ctx := c.Request.Context()

	// Stripe retries deliveries; a replayed event must be a no-op.
	seen, err := h.Store.SeenWebhookEvent(ctx, providerStripe, event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check event"})
		return
	}
	if seen {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		err = h.handleCheckoutCompleted(ctx, &session)

	case "customer.subscription.created":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		err = h.handleSubscriptionCreated(ctx, &sub)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		err = h.handleSubscriptionUpdated(ctx, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		err = h.handleSubscriptionDeleted(ctx, &sub)

	default:
		// Acknowledge unknown events to avoid retries.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err != nil {
		// 500 so Stripe retries; the event is not recorded as processed.
		log.WithError(err).WithField("event_type", event.Type).Error("Stripe event handling failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.RecordWebhookEvent(ctx, &sites.WebhookEvent{
		Provider:        providerStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
	}); err != nil {
		// A concurrent delivery may have recorded it first; the handlers are
		// idempotent, so acknowledge anyway.
		log.WithError(err).WithField("event_id", event.ID).Warn("Failed to record webhook event")
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// siteByCustomer resolves the site a subscription event belongs to, by
// Stripe customer first and subscription ID second.
func (h *Handler) siteByCustomer(ctx context.Context, customerID, subscriptionID string) (*sites.SiteRequest, error) {
	if customerID != "" {
		found, err := h.Store.FilterSites(ctx, store.Filter{"stripe_customer_id": customerID}, "", 1)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return &found[0], nil
		}
	}
	if subscriptionID != "" {
		found, err := h.Store.FilterSites(ctx, store.Filter{"stripe_subscription_id": subscriptionID}, "", 1)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return &found[0], nil
		}
	}
	return nil, nil
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
