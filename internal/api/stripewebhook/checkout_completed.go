package stripewebhooks

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"

	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

// handleCheckoutCompleted activates the site a checkout session paid for.
// The session's metadata.site_request_id is the only link back to the record.
func (h *Handler) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	siteRequestID := ""
	if session.Metadata != nil {
		siteRequestID = session.Metadata["site_request_id"]
	}
	if siteRequestID == "" {
		// Not retryable; a session without our metadata will never gain it.
		log.WithField("session_id", session.ID).Warn("Checkout session missing site_request_id metadata, dropping")
		return nil
	}

	site, err := h.Store.GetSite(ctx, siteRequestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.WithField("site_request_id", siteRequestID).Warn("Checkout completed for unknown site, dropping")
			return nil
		}
		return fmt.Errorf("load site %s: %w", siteRequestID, err)
	}

	updates := map[string]interface{}{
		"subscription_status": sites.SubscriptionActive,
		"status":              sites.StatusActive,
		"stripe_session_id":   session.ID,
	}
	if session.Customer != nil && session.Customer.ID != "" {
		updates["stripe_customer_id"] = session.Customer.ID
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		updates["stripe_subscription_id"] = session.Subscription.ID
	}

	if err := h.Store.UpdateSite(ctx, site.ID, updates); err != nil {
		return fmt.Errorf("activate site %s: %w", site.ID, err)
	}

	log.WithFields(log.Fields{
		"site_request_id": site.ID,
		"session_id":      session.ID,
	}).Info("Site activated from checkout session")
	return nil
}
