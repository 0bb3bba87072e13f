package billing

import (
	"strings"

	"github.com/seatwiselabs/seatwise/app/models"
)

// mapSubscriptionStatus translates a processor subscription status into a
// purchase status. "trialing" intentionally collapses into active: whether a
// purchase is a trial is carried by its own IsTrial flag, not by status.
func mapSubscriptionStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "trialing", "active":
		return models.PurchaseStatusActive
	case "past_due":
		return models.PurchaseStatusPastDue
	case "canceled":
		return models.PurchaseStatusCanceled
	default:
		return models.PurchaseStatusIncomplete
	}
}

func isLiveStatus(status string) bool {
	switch status {
	case models.PurchaseStatusTrialActive, models.PurchaseStatusActive, models.PurchaseStatusPastDue:
		return true
	default:
		return false
	}
}

func normalizeCurrency(currency string) string {
	c := strings.ToLower(strings.TrimSpace(currency))
	if c == "" {
		return "usd"
	}
	return c
}
