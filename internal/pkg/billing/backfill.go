package billing

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// backfillPurchaseLinks retroactively attaches invoices and transactions that
// arrived before their purchase existed. It is the only writer of the
// null-to-set purchase link transition and is safe to call redundantly: rows
// only ever move from unlinked to linked, never back.
func (s *Service) backfillPurchaseLinks(ctx context.Context, accountID uint, subscriptionID string) error {
	_ = ctx
	if subscriptionID == "" {
		return nil
	}

	purchase, err := s.repo.GetPurchaseByStripeSubscriptionID(accountID, subscriptionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing to attach to yet; the next related event retries implicitly.
		return nil
	}
	if err != nil {
		return err
	}

	invoices, err := s.repo.ListInvoicesBySubscription(accountID, subscriptionID)
	if err != nil {
		return err
	}

	invoiceIDs := make([]string, 0, len(invoices))
	var paymentIntentIDs []string
	for i := range invoices {
		inv := &invoices[i]
		if inv.PurchaseID == nil {
			if err := s.repo.LinkInvoiceToPurchase(inv.ID, purchase.ID); err != nil {
				return fmt.Errorf("link invoice %s: %w", inv.StripeInvoiceID, err)
			}
		}
		invoiceIDs = append(invoiceIDs, inv.StripeInvoiceID)
		if pi := paymentIntentFromInvoiceJSON(inv.RawPayloadJSON); pi != "" {
			paymentIntentIDs = append(paymentIntentIDs, pi)
		}
	}

	return s.repo.LinkUnlinkedTransactions(accountID, purchase.ID, invoiceIDs, paymentIntentIDs)
}
