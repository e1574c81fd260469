package stripewebhooks

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"

	"cleaninghq-app/internal/domain/sites"
)

// handleSubscriptionCreated links a new subscription to the site with the
// matching Stripe customer. Re-linking the same subscription is a no-op so
// redelivery stays safe even if the dedup row was lost.
func (h *Handler) handleSubscriptionCreated(ctx context.Context, sub *stripe.Subscription) error {
	if sub.ID == "" || sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	site, err := h.siteByCustomer(ctx, sub.Customer.ID, sub.ID)
	if err != nil {
		return fmt.Errorf("find site for customer %s: %w", sub.Customer.ID, err)
	}
	if site == nil {
		log.WithFields(log.Fields{
			"customer_id":     sub.Customer.ID,
			"subscription_id": sub.ID,
		}).Warn("Subscription created for unknown customer, dropping event")
		return nil
	}

	if site.StripeSubscriptionID != nil && *site.StripeSubscriptionID == sub.ID {
		return nil
	}

	updates := map[string]interface{}{
		"stripe_subscription_id": sub.ID,
		"subscription_status":    sites.SubscriptionActive,
	}
	if err := h.Store.UpdateSite(ctx, site.ID, updates); err != nil {
		return fmt.Errorf("link subscription to site %s: %w", site.ID, err)
	}

	log.WithFields(log.Fields{
		"site_request_id": site.ID,
		"subscription_id": sub.ID,
	}).Info("Subscription linked to site")
	return nil
}
