package billing

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatwiselabs/seatwise/app/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.BillingAccount{},
		&models.SubscriptionPlan{},
		&models.PlanPurchase{},
		&models.Invoice{},
		&models.PaymentTransaction{},
		&models.WebhookEvent{},
	))

	return NewServiceFromDB(db, nil), db
}

func seedAccount(t *testing.T, db *gorm.DB, customerID string) (*models.Organization, *models.BillingAccount) {
	t.Helper()

	org := &models.Organization{Name: "Acme " + customerID, OwnerUserID: 1}
	require.NoError(t, db.Create(org).Error)

	account := &models.BillingAccount{OrganizationID: org.ID, StripeCustomerID: &customerID}
	require.NoError(t, db.Create(account).Error)
	return org, account
}

func seedPlan(t *testing.T, db *gorm.DB, code, priceID string, seatLimit int, amountCents int64) *models.SubscriptionPlan {
	t.Helper()

	plan := &models.SubscriptionPlan{
		Code:          code,
		Name:          code,
		PlanType:      models.PlanTypeRecurring,
		BillingCycle:  models.BillingCycleMonthly,
		AmountCents:   amountCents,
		Currency:      "usd",
		SeatLimit:     seatLimit,
		StripePriceID: &priceID,
		IsActive:      true,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// deliver records an event and runs it through the dispatcher, the same path
// the webhook controller takes.
func deliver(t *testing.T, svc *Service, eventID, eventType string, object []byte) Outcome {
	t.Helper()

	created, event, err := svc.RecordWebhookEvent(context.Background(), InboundEvent{
		ID:      eventID,
		Type:    eventType,
		Object:  object,
		Payload: string(object),
	})
	require.NoError(t, err)
	require.True(t, created)
	return svc.ProcessEvent(context.Background(), event.ID, InboundEvent{
		ID:      eventID,
		Type:    eventType,
		Object:  object,
		Payload: string(object),
	})
}

func subscriptionJSON(subID, customerID, status, priceID string, periodStart, periodEnd int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"customer": %q,
		"status": %q,
		"current_period_start": %d,
		"current_period_end": %d,
		"items": {"data": [{"price": {"id": %q, "currency": "usd"}}]}
	}`, subID, customerID, status, periodStart, periodEnd, priceID))
}

func invoiceJSON(invID, customerID, subID, paymentIntent string, amount int64, periodStart, periodEnd int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"customer": %q,
		"subscription": %q,
		"payment_intent": %q,
		"billing_reason": "subscription_cycle",
		"amount_due": %d,
		"amount_paid": %d,
		"currency": "usd",
		"status": "paid",
		"period_start": %d,
		"period_end": %d
	}`, invID, customerID, subID, paymentIntent, amount, amount, periodStart, periodEnd))
}

func TestRecordWebhookEventIdempotent(t *testing.T) {
	svc, db := newTestService(t)

	in := InboundEvent{ID: "evt_1", Type: "invoice.payment_succeeded", Payload: `{"id":"evt_1"}`}
	created, first, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)

	created, second, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordWebhookEventMissingIDHashesPayload(t *testing.T) {
	svc, _ := newTestService(t)

	in := InboundEvent{Type: "charge.succeeded", Payload: `{"amount":42}`}
	created, event, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	require.True(t, created)
	assert.True(t, strings.HasPrefix(event.StripeEventID, "hash:"))

	// Same payload again collapses onto the same row.
	created, _, err = svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUnrecognizedEventIgnoredButAcknowledged(t *testing.T) {
	svc, db := newTestService(t)

	out := deliver(t, svc, "evt_x", "payment_intent.created", []byte(`{"id":"pi_1"}`))
	assert.Equal(t, OutcomeIgnored, out.Code)
	assert.True(t, out.Processed())

	var event models.WebhookEvent
	require.NoError(t, db.Where("stripe_event_id = ?", "evt_x").First(&event).Error)
	assert.True(t, event.Processed)
	assert.Equal(t, models.WebhookResultIgnored, event.Result)
	assert.NotNil(t, event.ProcessedAt)
}

func TestSubscriptionCreatesPurchaseWithPlanSnapshot(t *testing.T) {
	svc, db := newTestService(t)
	_, account := seedAccount(t, db, "cus_1")
	plan := seedPlan(t, db, "team-10", "price_team10", 10, 5000)

	out := deliver(t, svc, "evt_sub1", "customer.subscription.created",
		subscriptionJSON("sub_1", "cus_1", "active", "price_team10", 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var purchase models.PlanPurchase
	require.NoError(t, db.Where("account_id = ?", account.ID).First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusActive, purchase.Status)
	assert.Equal(t, 10, purchase.SeatLimit)
	assert.Equal(t, int64(5000), purchase.UnitAmountCents)
	assert.Equal(t, "usd", purchase.Currency)
	require.NotNil(t, purchase.PlanID)
	assert.Equal(t, plan.ID, *purchase.PlanID)
	require.NotNil(t, purchase.CurrentPeriodEnd)
	assert.Equal(t, int64(1702592000), purchase.CurrentPeriodEnd.Unix())

	// Editing the catalog must not rewrite the snapshot.
	require.NoError(t, db.Model(plan).Updates(map[string]interface{}{"seat_limit": 99, "amount_cents": 123456}).Error)

	var after models.PlanPurchase
	require.NoError(t, db.First(&after, purchase.ID).Error)
	assert.Equal(t, 10, after.SeatLimit)
	assert.Equal(t, int64(5000), after.UnitAmountCents)
}

func TestSubscriptionCustomMetadataOverridesCatalog(t *testing.T) {
	svc, db := newTestService(t)
	_, account := seedAccount(t, db, "cus_1")
	seedPlan(t, db, "team-10", "price_team10", 10, 5000)

	object := []byte(`{
		"id": "sub_c",
		"customer": "cus_1",
		"status": "active",
		"metadata": {"plan_type": "custom", "custom_seat_count": "42", "custom_unit_amount_cents": "175"},
		"items": {"data": [{"price": {"id": "price_team10", "currency": "usd"}}]}
	}`)
	out := deliver(t, svc, "evt_sub_c", "customer.subscription.created", object)
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var purchase models.PlanPurchase
	require.NoError(t, db.Where("account_id = ?", account.ID).First(&purchase).Error)
	assert.Equal(t, 42, purchase.SeatLimit)
	// Snapshot carries the full seat-block price, 42 seats at 175 cents.
	assert.Equal(t, int64(7350), purchase.UnitAmountCents)
	require.NotNil(t, purchase.CustomSeatCount)
	assert.Equal(t, 42, *purchase.CustomSeatCount)
	require.NotNil(t, purchase.CustomUnitAmountCents)
	assert.Equal(t, int64(175), *purchase.CustomUnitAmountCents)
}

func TestSubscriptionWithoutPricingSkipped(t *testing.T) {
	svc, db := newTestService(t)
	seedAccount(t, db, "cus_1")

	// Unknown price, no custom metadata: nothing safe to snapshot.
	out := deliver(t, svc, "evt_sub_u", "customer.subscription.created",
		subscriptionJSON("sub_u", "cus_1", "active", "price_unknown", 0, 0))
	assert.Equal(t, OutcomeSkippedIncompleteData, out.Code)
	assert.True(t, out.Processed())

	var count int64
	require.NoError(t, db.Model(&models.PlanPurchase{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubscriptionUnknownCustomerSkipped(t *testing.T) {
	svc, db := newTestService(t)

	out := deliver(t, svc, "evt_sub_n", "customer.subscription.created",
		subscriptionJSON("sub_n", "cus_nobody", "active", "price_x", 0, 0))
	assert.Equal(t, OutcomeSkippedNoAccount, out.Code)
	assert.True(t, out.Processed())

	var event models.WebhookEvent
	require.NoError(t, db.Where("stripe_event_id = ?", "evt_sub_n").First(&event).Error)
	assert.Equal(t, models.WebhookResultSkippedNoAccount, event.Result)
}

func TestInvoiceBeforeSubscriptionGetsBackfilled(t *testing.T) {
	svc, db := newTestService(t)
	_, account := seedAccount(t, db, "cus_1")
	seedPlan(t, db, "team-10", "price_team10", 10, 5000)

	// Invoice arrives first; no purchase exists yet.
	out := deliver(t, svc, "evt_inv1", "invoice.payment_succeeded",
		invoiceJSON("in_1", "cus_1", "sub_1", "pi_1", 5000, 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var invoice models.Invoice
	require.NoError(t, db.Where("stripe_invoice_id = ?", "in_1").First(&invoice).Error)
	assert.Nil(t, invoice.PurchaseID)

	var tx models.PaymentTransaction
	require.NoError(t, db.Where("stripe_payment_intent_id = ?", "pi_1").First(&tx).Error)
	assert.Nil(t, tx.PurchaseID)
	assert.Equal(t, models.TransactionStatusSucceeded, tx.Status)

	// The late subscription event creates the purchase and backfills links.
	out = deliver(t, svc, "evt_sub1", "customer.subscription.created",
		subscriptionJSON("sub_1", "cus_1", "active", "price_team10", 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var purchase models.PlanPurchase
	require.NoError(t, db.Where("account_id = ?", account.ID).First(&purchase).Error)

	require.NoError(t, db.Where("stripe_invoice_id = ?", "in_1").First(&invoice).Error)
	require.NotNil(t, invoice.PurchaseID)
	assert.Equal(t, purchase.ID, *invoice.PurchaseID)

	require.NoError(t, db.Where("stripe_payment_intent_id = ?", "pi_1").First(&tx).Error)
	require.NotNil(t, tx.PurchaseID)
	assert.Equal(t, purchase.ID, *tx.PurchaseID)
}

func TestInvoiceFailedThenSucceededRecoversPurchase(t *testing.T) {
	svc, db := newTestService(t)
	seedAccount(t, db, "cus_1")
	seedPlan(t, db, "team-10", "price_team10", 10, 5000)

	out := deliver(t, svc, "evt_sub1", "customer.subscription.created",
		subscriptionJSON("sub_1", "cus_1", "active", "price_team10", 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	out = deliver(t, svc, "evt_inv_f", "invoice.payment_failed",
		invoiceJSON("in_f", "cus_1", "sub_1", "pi_f", 5000, 1702592000, 1705184000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var purchase models.PlanPurchase
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusPastDue, purchase.Status)

	var tx models.PaymentTransaction
	require.NoError(t, db.Where("stripe_payment_intent_id = ?", "pi_f").First(&tx).Error)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)

	// Retry succeeds: status recovers and the period window moves forward.
	out = deliver(t, svc, "evt_inv_s", "invoice.payment_succeeded",
		invoiceJSON("in_s", "cus_1", "sub_1", "pi_s", 5000, 1702592000, 1705184000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusActive, purchase.Status)
	require.NotNil(t, purchase.CurrentPeriodEnd)
	assert.Equal(t, int64(1705184000), purchase.CurrentPeriodEnd.Unix())
	assert.Equal(t, "in_s", purchase.StripeLatestInvoiceID)
}

func TestChargeBeforeInvoiceMergesByPaymentIntent(t *testing.T) {
	svc, db := newTestService(t)
	seedAccount(t, db, "cus_1")

	charge := []byte(`{
		"id": "ch_1",
		"payment_intent": "pi_1",
		"customer": "cus_1",
		"status": "succeeded",
		"amount": 5000,
		"currency": "usd",
		"created": 1700000100
	}`)
	out := deliver(t, svc, "evt_ch1", "charge.succeeded", charge)
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var tx models.PaymentTransaction
	require.NoError(t, db.Where("stripe_payment_intent_id = ?", "pi_1").First(&tx).Error)
	assert.Equal(t, "ch_1", tx.StripeChargeID)

	out = deliver(t, svc, "evt_inv1", "invoice.payment_succeeded",
		invoiceJSON("in_1", "cus_1", "sub_1", "pi_1", 5000, 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	// Still exactly one transaction, now carrying both sides.
	var count int64
	require.NoError(t, db.Model(&models.PaymentTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.Where("stripe_payment_intent_id = ?", "pi_1").First(&tx).Error)
	assert.Equal(t, "ch_1", tx.StripeChargeID)
	assert.Equal(t, "in_1", tx.StripeInvoiceID)
	assert.Equal(t, models.TransactionStatusSucceeded, tx.Status)
	assert.Equal(t, int64(5000), tx.AmountCents)
	assert.Equal(t, models.TransactionKindRecurring, tx.Kind)
}

func TestChargeWithoutPaymentIntentUsesSyntheticKey(t *testing.T) {
	svc, db := newTestService(t)
	seedAccount(t, db, "cus_1")

	charge := []byte(`{"id": "ch_2", "customer": "cus_1", "status": "succeeded", "amount": 900, "currency": "usd"}`)
	out := deliver(t, svc, "evt_ch2", "charge.succeeded", charge)
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var tx models.PaymentTransaction
	require.NoError(t, db.Where("stripe_payment_intent_id = ?", "charge_ch_2").First(&tx).Error)
	assert.Equal(t, "ch_2", tx.StripeChargeID)
}

func TestDuplicateEventDeliveryDoesNotDoubleApply(t *testing.T) {
	svc, db := newTestService(t)
	seedAccount(t, db, "cus_1")

	object := invoiceJSON("in_1", "cus_1", "sub_1", "pi_1", 5000, 1700000000, 1702592000)
	out := deliver(t, svc, "evt_inv1", "invoice.payment_succeeded", object)
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	// A redelivery of the same event id never reaches a handler.
	created, _, err := svc.RecordWebhookEvent(context.Background(), InboundEvent{
		ID: "evt_inv1", Type: "invoice.payment_succeeded", Object: object, Payload: string(object),
	})
	require.NoError(t, err)
	assert.False(t, created)

	var invoiceCount, txCount int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&invoiceCount).Error)
	require.NoError(t, db.Model(&models.PaymentTransaction{}).Count(&txCount).Error)
	assert.Equal(t, int64(1), invoiceCount)
	assert.Equal(t, int64(1), txCount)
}

func TestNewPaidPurchaseConvertsRunningTrial(t *testing.T) {
	svc, db := newTestService(t)
	_, account := seedAccount(t, db, "cus_1")
	seedPlan(t, db, "team-10", "price_team10", 10, 5000)

	trialSub := "sub_trial"
	trial := &models.PlanPurchase{
		AccountID:            account.ID,
		StripeSubscriptionID: &trialSub,
		SeatLimit:            3,
		Status:               models.PurchaseStatusTrialActive,
		IsTrial:              true,
	}
	require.NoError(t, db.Create(trial).Error)

	out := deliver(t, svc, "evt_sub1", "customer.subscription.created",
		subscriptionJSON("sub_paid", "cus_1", "active", "price_team10", 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	require.NoError(t, db.First(trial, trial.ID).Error)
	assert.Equal(t, models.PurchaseStatusTrialConverted, trial.Status)

	// The live purchase is now the paid one.
	repo := NewRepository(db)
	live, err := repo.GetLivePurchase(account.ID)
	require.NoError(t, err)
	require.NotNil(t, live.StripeSubscriptionID)
	assert.Equal(t, "sub_paid", *live.StripeSubscriptionID)
}

func TestCanceledSubscriptionSetsEndDate(t *testing.T) {
	svc, db := newTestService(t)
	seedAccount(t, db, "cus_1")
	seedPlan(t, db, "team-10", "price_team10", 10, 5000)

	out := deliver(t, svc, "evt_sub1", "customer.subscription.created",
		subscriptionJSON("sub_1", "cus_1", "active", "price_team10", 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	out = deliver(t, svc, "evt_sub2", "customer.subscription.deleted",
		subscriptionJSON("sub_1", "cus_1", "canceled", "price_team10", 1700000000, 1702592000))
	require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)

	var purchase models.PlanPurchase
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusCanceled, purchase.Status)
	require.NotNil(t, purchase.EndDate)
	assert.Equal(t, int64(1702592000), purchase.EndDate.Unix())
}

func TestBillingSummary(t *testing.T) {
	svc, db := newTestService(t)
	org, account := seedAccount(t, db, "cus_1")

	// Account without any purchase still has a summary.
	summary, err := svc.BillingSummary(context.Background(), org)
	require.NoError(t, err)
	assert.False(t, summary.HasPurchase)
	assert.Equal(t, "cus_1", summary.StripeCustomerID)

	now := time.Now().UTC()
	start := now.Add(-48 * time.Hour)
	end := now.Add(120*time.Hour + time.Minute)
	trialSub := "sub_trial"
	require.NoError(t, db.Create(&models.PlanPurchase{
		AccountID:            account.ID,
		StripeSubscriptionID: &trialSub,
		SeatLimit:            3,
		Status:               models.PurchaseStatusTrialActive,
		IsTrial:              true,
		CurrentPeriodStart:   &start,
		CurrentPeriodEnd:     &end,
	}).Error)

	summary, err = svc.BillingSummary(context.Background(), org)
	require.NoError(t, err)
	assert.True(t, summary.HasPurchase)
	assert.True(t, summary.IsTrial)
	require.NotNil(t, summary.Trial)
	assert.Nil(t, summary.Period)
	assert.Equal(t, 7, summary.Trial.DaysTotal)
	assert.Equal(t, 5, summary.Trial.DaysRemaining)
	require.NotNil(t, summary.Plan)
	assert.True(t, summary.Plan.IsCustom)
	assert.Equal(t, 3, summary.Plan.SeatLimit)
}

func TestBillingSummaryWithoutAccount(t *testing.T) {
	svc, db := newTestService(t)

	org := &models.Organization{Name: "No Account Org", OwnerUserID: 1}
	require.NoError(t, db.Create(org).Error)

	_, err := svc.BillingSummary(context.Background(), org)
	assert.ErrorIs(t, err, ErrNoBillingAccount)
}

func TestSeatAllowance(t *testing.T) {
	svc, db := newTestService(t)
	org, account := seedAccount(t, db, "cus_1")

	_, err := svc.SeatAllowance(context.Background(), org, 3)
	assert.ErrorIs(t, err, ErrNoLivePurchase)

	sub := "sub_1"
	require.NoError(t, db.Create(&models.PlanPurchase{
		AccountID:            account.ID,
		StripeSubscriptionID: &sub,
		SeatLimit:            5,
		Status:               models.PurchaseStatusActive,
	}).Error)

	usage, err := svc.SeatAllowance(context.Background(), org, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, usage.SeatLimit)
	assert.Equal(t, 2, usage.SeatsRemaining)
	assert.True(t, usage.Allowed)

	usage, err = svc.SeatAllowance(context.Background(), org, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.SeatsRemaining)
	assert.False(t, usage.Allowed)
}

// Every delivery order of the subscription, invoice and charge events must
// converge on the same ledger state.
func TestEventDeliveryPermutationsConverge(t *testing.T) {
	type delivery struct {
		id        string
		eventType string
		object    []byte
	}

	names := []string{"subscription", "invoice", "charge"}
	permutations := [][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	for _, perm := range permutations {
		perm := perm
		t.Run(fmt.Sprintf("%s_%s_%s", names[perm[0]], names[perm[1]], names[perm[2]]), func(t *testing.T) {
			svc, db := newTestService(t)
			_, account := seedAccount(t, db, "cus_1")
			seedPlan(t, db, "team-10", "price_team10", 10, 5000)

			deliveries := []delivery{
				{"evt_sub", "customer.subscription.created",
					subscriptionJSON("sub_1", "cus_1", "active", "price_team10", 1700000000, 1702592000)},
				{"evt_inv", "invoice.payment_succeeded",
					invoiceJSON("in_1", "cus_1", "sub_1", "pi_1", 5000, 1700000000, 1702592000)},
				{"evt_ch", "charge.succeeded",
					[]byte(`{"id": "ch_1", "payment_intent": "pi_1", "customer": "cus_1", "invoice": "in_1", "status": "succeeded", "amount": 5000, "currency": "usd", "created": 1700000100}`)},
			}
			for _, i := range perm {
				d := deliveries[i]
				out := deliver(t, svc, d.id, d.eventType, d.object)
				require.Equal(t, OutcomeApplied, out.Code, "outcome err: %v", out.Err)
			}

			var purchase models.PlanPurchase
			require.NoError(t, db.Where("account_id = ?", account.ID).First(&purchase).Error)
			assert.Equal(t, models.PurchaseStatusActive, purchase.Status)

			var invoice models.Invoice
			require.NoError(t, db.Where("stripe_invoice_id = ?", "in_1").First(&invoice).Error)
			require.NotNil(t, invoice.PurchaseID)
			assert.Equal(t, purchase.ID, *invoice.PurchaseID)
			assert.Equal(t, int64(5000), invoice.AmountPaidCents)
			assert.NotEmpty(t, invoice.Currency)

			var txCount int64
			require.NoError(t, db.Model(&models.PaymentTransaction{}).Count(&txCount).Error)
			require.Equal(t, int64(1), txCount)

			var tx models.PaymentTransaction
			require.NoError(t, db.Where("stripe_payment_intent_id = ?", "pi_1").First(&tx).Error)
			require.NotNil(t, tx.PurchaseID)
			assert.Equal(t, purchase.ID, *tx.PurchaseID)
			assert.Equal(t, "ch_1", tx.StripeChargeID)
			assert.Equal(t, "in_1", tx.StripeInvoiceID)
			assert.Equal(t, models.TransactionStatusSucceeded, tx.Status)
			assert.Equal(t, models.TransactionKindRecurring, tx.Kind)
			// Money is always paired: a recorded amount carries its currency.
			assert.Equal(t, int64(5000), tx.AmountCents)
			assert.NotEmpty(t, tx.Currency)
			assert.Equal(t, int64(1700000100), tx.OccurredAt.Unix())
		})
	}
}
