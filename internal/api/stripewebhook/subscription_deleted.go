package stripewebhooks

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	stripelib "github.com/stripe/stripe-go/v75"

	"cleaninghq-app/internal/domain/sites"
)

// handleSubscriptionDeleted marks the site cancelled. The record and its
// content are kept so the subscription can be resumed without regenerating.
func (h *Handler) handleSubscriptionDeleted(ctx context.Context, sub *stripelib.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	site, err := h.siteByCustomer(ctx, customerID, sub.ID)
	if err != nil {
		return fmt.Errorf("find site for subscription %s: %w", sub.ID, err)
	}
	if site == nil {
		return nil
	}

	if err := h.Store.UpdateSite(ctx, site.ID, map[string]interface{}{
		"subscription_status": sites.SubscriptionCancelled,
	}); err != nil {
		return fmt.Errorf("cancel subscription for site %s: %w", site.ID, err)
	}

	log.WithField("site_request_id", site.ID).Info("Subscription cancelled")
	return nil
}
