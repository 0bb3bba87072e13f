package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/seatwiselabs/seatwise/app/models"
	"gorm.io/gorm"
)

// reconcileSubscription applies a customer.subscription.* event: it creates
// or updates the PlanPurchase for the processor subscription id, resolving
// pricing from the catalog or from custom-seat metadata.
func (s *Service) reconcileSubscription(ctx context.Context, object []byte) Outcome {
	sub, err := parseSubscription(object)
	if err != nil {
		return Failed(fmt.Errorf("parse subscription payload: %w", err))
	}
	if sub.ID == "" || sub.Customer == "" || len(sub.Items.Data) == 0 {
		return SkippedIncompleteData()
	}

	account, out := s.accountByCustomerID(sub.Customer)
	if account == nil {
		return out
	}

	var plan *models.SubscriptionPlan
	if priceID := sub.firstPriceID(); priceID != "" {
		plan, err = s.repo.GetPlanByStripePriceID(priceID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Failed(err)
		}
	}

	// Snapshot pricing. Custom-seat metadata wins over the catalog; with
	// neither source there is nothing safe to persist.
	var (
		seatLimit       int
		unitAmountCents int64
		planID          *uint
		customSeats     *int
		customUnit      *int64
	)
	currency := sub.effectiveCurrency()
	if count, unit, ok := sub.customSeatPricing(); ok {
		seatLimit = count
		// The snapshot amount is the full price for the seat block; the
		// per-seat amount is kept alongside.
		unitAmountCents = int64(count) * unit
		customSeats = &count
		customUnit = &unit
	} else if plan != nil {
		seatLimit = plan.SeatLimit
		unitAmountCents = plan.AmountCents
		planID = &plan.ID
	} else {
		return SkippedIncompleteData()
	}
	if plan != nil && planID == nil {
		planID = &plan.ID
	}

	status := mapSubscriptionStatus(sub.Status)
	periodStart := sub.periodStart()
	periodEnd := sub.periodEnd()

	existing, err := s.repo.GetPurchaseByStripeSubscriptionID(account.ID, sub.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		startDate := unixTime(sub.StartDate)
		if startDate == nil {
			startDate = periodStart
		}
		subID := sub.ID
		purchase := &models.PlanPurchase{
			AccountID:             account.ID,
			PlanID:                planID,
			StripeSubscriptionID:  &subID,
			StripeLatestInvoiceID: sub.LatestInvoice,
			StripePriceID:         sub.firstPriceID(),
			SeatLimit:             seatLimit,
			UnitAmountCents:       unitAmountCents,
			Currency:              currency,
			Status:                status,
			StartDate:             startDate,
			CurrentPeriodStart:    periodStart,
			CurrentPeriodEnd:      periodEnd,
			CancelAt:              unixTime(sub.CancelAt),
			CancelAtPeriodEnd:     sub.CancelAtPeriodEnd,
			CustomSeatCount:       customSeats,
			CustomUnitAmountCents: customUnit,
		}
		if err := s.repo.CreatePurchase(purchase); err != nil {
			return Failed(fmt.Errorf("create purchase: %w", err))
		}
		// A new paid purchase supersedes any still-running trial.
		if err := s.repo.MarkTrialsConverted(account.ID, purchase.ID); err != nil {
			return Failed(err)
		}
	case err != nil:
		return Failed(err)
	default:
		existing.PlanID = planID
		existing.StripePriceID = sub.firstPriceID()
		existing.SeatLimit = seatLimit
		existing.UnitAmountCents = unitAmountCents
		existing.Currency = currency
		existing.Status = status
		existing.CancelAt = unixTime(sub.CancelAt)
		existing.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		existing.CustomSeatCount = customSeats
		existing.CustomUnitAmountCents = customUnit
		if periodStart != nil {
			existing.CurrentPeriodStart = periodStart
		}
		if periodEnd != nil {
			existing.CurrentPeriodEnd = periodEnd
		}
		if sub.LatestInvoice != "" {
			existing.StripeLatestInvoiceID = sub.LatestInvoice
		}
		if status == models.PurchaseStatusCanceled && periodEnd != nil {
			existing.EndDate = periodEnd
		}
		if err := s.repo.SavePurchase(existing); err != nil {
			return Failed(fmt.Errorf("update purchase: %w", err))
		}
	}

	if err := s.backfillPurchaseLinks(ctx, account.ID, sub.ID); err != nil {
		return Failed(err)
	}
	return Applied()
}
