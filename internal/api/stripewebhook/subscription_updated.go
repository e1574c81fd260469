package stripewebhooks

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	stripelib "github.com/stripe/stripe-go/v75"

	stripeinfra "cleaninghq-app/internal/infra/stripe"
)

// handleSubscriptionUpdated maps the provider's subscription status onto the
// site. Statuses we don't track (past_due, unpaid, paused) collapse to
// cancelled so the renderer treats lapses conservatively.
func (h *Handler) handleSubscriptionUpdated(ctx context.Context, sub *stripelib.Subscription) error {
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
		// Site deleted or never linked; acknowledge to stop retries.
		log.WithField("subscription_id", sub.ID).Warn("Subscription update for unknown site, dropping")
		return nil
	}

	status := stripeinfra.SubscriptionStatusFor(sub.Status)
	if site.SubscriptionStatus == status {
		return nil
	}

	if err := h.Store.UpdateSite(ctx, site.ID, map[string]interface{}{
		"subscription_status": status,
	}); err != nil {
		return fmt.Errorf("update subscription status for site %s: %w", site.ID, err)
	}

	log.WithFields(log.Fields{
		"site_request_id":     site.ID,
		"subscription_status": status,
	}).Info("Subscription status updated")
	return nil
}
