package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seatwiselabs/seatwise/app/models"
	"gorm.io/gorm"
)

// reconcileInvoicePayment applies invoice.payment_succeeded or
// invoice.payment_failed. Both paths mirror the invoice and its payment
// attempt; the succeeded path additionally refreshes the purchase period and
// pulls its status back to active.
func (s *Service) reconcileInvoicePayment(ctx context.Context, object []byte, succeeded bool) Outcome {
	inv, err := parseInvoice(object)
	if err != nil {
		return Failed(fmt.Errorf("parse invoice payload: %w", err))
	}
	if inv.ID == "" || inv.Customer == "" {
		return SkippedIncompleteData()
	}

	account, out := s.accountByCustomerID(inv.Customer)
	if account == nil {
		return out
	}

	// The purchase may legitimately not exist yet; the invoice is then
	// stored unlinked and the backfill attaches it later.
	subscriptionID := inv.subscriptionID()
	var purchase *models.PlanPurchase
	if subscriptionID != "" {
		purchase, err = s.repo.GetPurchaseByStripeSubscriptionID(account.ID, subscriptionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Failed(err)
		}
	}

	var purchaseID *uint
	if purchase != nil {
		purchaseID = &purchase.ID
	}
	invoice := &models.Invoice{
		AccountID:            account.ID,
		PurchaseID:           purchaseID,
		StripeInvoiceID:      inv.ID,
		StripeSubscriptionID: subscriptionID,
		AmountDueCents:       inv.AmountDue,
		AmountPaidCents:      inv.AmountPaid,
		Currency:             normalizeCurrency(inv.Currency),
		Status:               inv.Status,
		PeriodStart:          unixTime(inv.PeriodStart),
		PeriodEnd:            unixTime(inv.PeriodEnd),
		HostedInvoiceURL:     inv.HostedInvoiceURL,
		InvoicePDFURL:        inv.InvoicePDF,
		RawPayloadJSON:       string(object),
	}
	if err := s.repo.UpsertInvoice(invoice); err != nil {
		return Failed(fmt.Errorf("upsert invoice: %w", err))
	}

	if err := s.recordInvoiceTransaction(inv, account.ID, purchaseID, succeeded, string(object)); err != nil {
		return Failed(err)
	}

	if purchase != nil {
		if succeeded {
			if ps := unixTime(inv.PeriodStart); ps != nil {
				purchase.CurrentPeriodStart = ps
			}
			if pe := unixTime(inv.PeriodEnd); pe != nil {
				purchase.CurrentPeriodEnd = pe
			}
			if purchase.StartDate == nil {
				purchase.StartDate = unixTime(inv.PeriodStart)
			}
			switch purchase.Status {
			case models.PurchaseStatusIncomplete, models.PurchaseStatusPastDue, models.PurchaseStatusTrialConverted:
				purchase.Status = models.PurchaseStatusActive
			}
		} else {
			purchase.Status = models.PurchaseStatusPastDue
		}
		purchase.StripeLatestInvoiceID = inv.ID
		if err := s.repo.SavePurchase(purchase); err != nil {
			return Failed(fmt.Errorf("update purchase from invoice: %w", err))
		}
	}

	if subscriptionID != "" {
		if err := s.backfillPurchaseLinks(ctx, account.ID, subscriptionID); err != nil {
			return Failed(err)
		}
	}
	return Applied()
}

// recordInvoiceTransaction upserts the payment attempt behind an invoice
// event. Without a payment-intent id a synthetic "invoice_<id>" key keeps
// redeliveries converging on one row.
func (s *Service) recordInvoiceTransaction(inv *invoicePayload, accountID uint, purchaseID *uint, succeeded bool, rawPayload string) error {
	paymentIntentID := inv.PaymentIntent
	if paymentIntentID == "" {
		paymentIntentID = "invoice_" + inv.ID
	}

	status := models.TransactionStatusSucceeded
	amount := inv.AmountPaid
	if !succeeded {
		status = models.TransactionStatusFailed
		amount = inv.AmountDue
	}
	kind := models.TransactionKindInitial
	if inv.BillingReason == "subscription_cycle" {
		kind = models.TransactionKindRecurring
	}

	tx, err := s.repo.GetTransactionByPaymentIntentID(paymentIntentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.repo.CreateTransactionIfNotExists(&models.PaymentTransaction{
			AccountID:             accountID,
			PurchaseID:            purchaseID,
			StripePaymentIntentID: paymentIntentID,
			StripeInvoiceID:       inv.ID,
			Kind:                  kind,
			Status:                status,
			AmountCents:           amount,
			Currency:              normalizeCurrency(inv.Currency),
			OccurredAt:            time.Now().UTC(),
			RawPayloadJSON:        rawPayload,
		})
	}
	if err != nil {
		return err
	}

	// Merge into the existing row, typically a charge placeholder.
	tx.Status = status
	tx.AmountCents = amount
	tx.Currency = normalizeCurrency(inv.Currency)
	tx.Kind = kind
	tx.RawPayloadJSON = rawPayload
	if tx.StripeInvoiceID == "" {
		tx.StripeInvoiceID = inv.ID
	}
	if tx.PurchaseID == nil && purchaseID != nil {
		tx.PurchaseID = purchaseID
	}
	return s.repo.SaveTransaction(tx)
}

// enrichCharge applies charge.succeeded: it decorates the transaction for
// the charge's payment intent, or inserts a placeholder that a later invoice
// event merges into via the shared payment-intent key.
func (s *Service) enrichCharge(ctx context.Context, object []byte) Outcome {
	_ = ctx
	ch, err := parseCharge(object)
	if err != nil {
		return Failed(fmt.Errorf("parse charge payload: %w", err))
	}
	if ch.ID == "" {
		return SkippedIncompleteData()
	}

	if ch.PaymentIntent != "" {
		tx, err := s.repo.GetTransactionByPaymentIntentID(ch.PaymentIntent)
		if err == nil {
			tx.StripeChargeID = ch.ID
			tx.Status = models.TransactionStatusSucceeded
			tx.RawPayloadJSON = string(object)
			if ch.Created > 0 {
				tx.OccurredAt = time.Unix(ch.Created, 0).UTC()
			}
			if tx.StripeInvoiceID == "" {
				tx.StripeInvoiceID = ch.Invoice
			}
			if tx.AmountCents == 0 {
				tx.AmountCents = ch.Amount
				tx.Currency = normalizeCurrency(ch.Currency)
			}
			if err := s.repo.SaveTransaction(tx); err != nil {
				return Failed(err)
			}
			return Applied()
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Failed(err)
		}
	}

	// No transaction yet: resolve an owner through the invoice or the
	// customer and store a placeholder.
	var accountID uint
	var purchaseID *uint
	if ch.Invoice != "" {
		if invoice, err := s.repo.GetInvoiceByStripeInvoiceID(ch.Invoice); err == nil {
			accountID = invoice.AccountID
			purchaseID = invoice.PurchaseID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Failed(err)
		}
	}
	if accountID == 0 && ch.Customer != "" {
		account, out := s.accountByCustomerID(ch.Customer)
		if account == nil {
			return out
		}
		accountID = account.ID
	}
	if accountID == 0 {
		return SkippedNoAccount()
	}

	paymentIntentID := ch.PaymentIntent
	if paymentIntentID == "" {
		paymentIntentID = "charge_" + ch.ID
	}
	occurredAt := time.Now().UTC()
	if ch.Created > 0 {
		occurredAt = time.Unix(ch.Created, 0).UTC()
	}
	err = s.repo.CreateTransactionIfNotExists(&models.PaymentTransaction{
		AccountID:             accountID,
		PurchaseID:            purchaseID,
		StripePaymentIntentID: paymentIntentID,
		StripeChargeID:        ch.ID,
		StripeInvoiceID:       ch.Invoice,
		Status:                models.TransactionStatusSucceeded,
		AmountCents:           ch.Amount,
		Currency:              normalizeCurrency(ch.Currency),
		OccurredAt:            occurredAt,
		RawPayloadJSON:        string(object),
	})
	if err != nil {
		return Failed(err)
	}
	return Applied()
}
