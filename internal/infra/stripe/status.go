package stripe

import (
	"cleaninghq-app/internal/domain/sites"

	stripelib "github.com/stripe/stripe-go/v75"
)

// SubscriptionStatusFor collapses the provider's subscription status onto
// the two states this product tracks: active stays active, everything else
// (past_due, canceled, incomplete, ...) is cancelled.
func SubscriptionStatusFor(status stripelib.SubscriptionStatus) string {
	if status == stripelib.SubscriptionStatusActive {
		return sites.SubscriptionActive
	}
	return sites.SubscriptionCancelled
}
