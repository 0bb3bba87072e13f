package billing

import (
	"time"

	"github.com/seatwiselabs/seatwise/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the reconciliation service.
type Repository interface {
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processed bool, result, errorMessage string) error

	GetAccountByStripeCustomerID(customerID string) (*models.BillingAccount, error)
	GetAccountByOrganizationID(orgID uint) (*models.BillingAccount, error)
	CreateAccountIfNotExists(account *models.BillingAccount) error
	SetAccountStripeCustomerID(accountID uint, customerID string) error

	GetPlanByID(id uint) (*models.SubscriptionPlan, error)
	GetPlanByCode(code string) (*models.SubscriptionPlan, error)
	GetPlanByStripePriceID(priceID string) (*models.SubscriptionPlan, error)

	GetPurchaseByStripeSubscriptionID(accountID uint, subscriptionID string) (*models.PlanPurchase, error)
	GetLivePurchase(accountID uint) (*models.PlanPurchase, error)
	CreatePurchase(purchase *models.PlanPurchase) error
	SavePurchase(purchase *models.PlanPurchase) error
	MarkTrialsConverted(accountID, keepPurchaseID uint) error

	UpsertInvoice(invoice *models.Invoice) error
	GetInvoiceByStripeInvoiceID(stripeInvoiceID string) (*models.Invoice, error)
	ListInvoicesBySubscription(accountID uint, subscriptionID string) ([]models.Invoice, error)
	LinkInvoiceToPurchase(invoiceID, purchaseID uint) error

	GetTransactionByPaymentIntentID(paymentIntentID string) (*models.PaymentTransaction, error)
	CreateTransactionIfNotExists(tx *models.PaymentTransaction) error
	SaveTransaction(tx *models.PaymentTransaction) error
	LinkUnlinkedTransactions(accountID, purchaseID uint, invoiceIDs, paymentIntentIDs []string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a reconciliation repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateWebhookEventIfNotExists is the idempotency gate. The insert races
// safely across concurrent deliveries of the same event id: exactly one
// insert wins the unique key, every other caller sees created=false.
func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("stripe_event_id = ?", event.StripeEventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processed bool, result, errorMessage string) error {
	if len(errorMessage) > 500 {
		errorMessage = errorMessage[:500]
	}
	now := time.Now()
	updates := map[string]interface{}{
		"processed":     processed,
		"result":        result,
		"processed_at":  &now,
		"error_message": errorMessage,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) GetAccountByStripeCustomerID(customerID string) (*models.BillingAccount, error) {
	var account models.BillingAccount
	if err := r.db.Where("stripe_customer_id = ?", customerID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) GetAccountByOrganizationID(orgID uint) (*models.BillingAccount, error) {
	var account models.BillingAccount
	if err := r.db.Where("organization_id = ?", orgID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) CreateAccountIfNotExists(account *models.BillingAccount) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organization_id"}},
		DoNothing: true,
	}).Create(account).Error; err != nil {
		return err
	}
	return r.db.Where("organization_id = ?", account.OrganizationID).First(account).Error
}

func (r *gormRepository) SetAccountStripeCustomerID(accountID uint, customerID string) error {
	return r.db.Model(&models.BillingAccount{}).Where("id = ?", accountID).
		Update("stripe_customer_id", customerID).Error
}

func (r *gormRepository) GetPlanByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) GetPlanByCode(code string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("code = ?", code).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) GetPlanByStripePriceID(priceID string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("stripe_price_id = ?", priceID).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) GetPurchaseByStripeSubscriptionID(accountID uint, subscriptionID string) (*models.PlanPurchase, error) {
	var purchase models.PlanPurchase
	err := r.db.Where("account_id = ? AND stripe_subscription_id = ?", accountID, subscriptionID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *gormRepository) GetLivePurchase(accountID uint) (*models.PlanPurchase, error) {
	var purchase models.PlanPurchase
	err := r.db.Where("account_id = ? AND status IN ?", accountID, models.LivePurchaseStatuses()).
		Order("created_at DESC, id DESC").
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *gormRepository) CreatePurchase(purchase *models.PlanPurchase) error {
	return r.db.Create(purchase).Error
}

func (r *gormRepository) SavePurchase(purchase *models.PlanPurchase) error {
	return r.db.Save(purchase).Error
}

// MarkTrialsConverted closes out still-live trial purchases on the account
// once a paid purchase exists.
func (r *gormRepository) MarkTrialsConverted(accountID, keepPurchaseID uint) error {
	return r.db.Model(&models.PlanPurchase{}).
		Where("account_id = ? AND is_trial = ? AND id != ? AND status IN ?",
			accountID, true, keepPurchaseID, models.LivePurchaseStatuses()).
		Update("status", models.PurchaseStatusTrialConverted).Error
}

// UpsertInvoice inserts or refreshes the mirror row for a processor invoice.
// The purchase link is only ever written when the caller resolved one, so a
// later event without the link can never null it out again.
func (r *gormRepository) UpsertInvoice(invoice *models.Invoice) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_invoice_id"}},
		DoNothing: true,
	}).Create(invoice).Error; err != nil {
		return err
	}

	var stored models.Invoice
	if err := r.db.Where("stripe_invoice_id = ?", invoice.StripeInvoiceID).First(&stored).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"account_id":             invoice.AccountID,
		"stripe_subscription_id": invoice.StripeSubscriptionID,
		"amount_due_cents":       invoice.AmountDueCents,
		"amount_paid_cents":      invoice.AmountPaidCents,
		"currency":               invoice.Currency,
		"status":                 invoice.Status,
		"period_start":           invoice.PeriodStart,
		"period_end":             invoice.PeriodEnd,
		"hosted_invoice_url":     invoice.HostedInvoiceURL,
		"invoice_pdf_url":        invoice.InvoicePDFURL,
		"raw_payload_json":       invoice.RawPayloadJSON,
	}
	if invoice.PurchaseID != nil {
		updates["purchase_id"] = *invoice.PurchaseID
	}
	if err := r.db.Model(&models.Invoice{}).Where("id = ?", stored.ID).Updates(updates).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", stored.ID).First(invoice).Error
}

func (r *gormRepository) GetInvoiceByStripeInvoiceID(stripeInvoiceID string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Where("stripe_invoice_id = ?", stripeInvoiceID).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormRepository) ListInvoicesBySubscription(accountID uint, subscriptionID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("account_id = ? AND stripe_subscription_id = ?", accountID, subscriptionID).
		Find(&invoices).Error
	return invoices, err
}

// LinkInvoiceToPurchase sets the pending purchase link. The IS NULL guard
// keeps the transition monotone even if two backfills race.
func (r *gormRepository) LinkInvoiceToPurchase(invoiceID, purchaseID uint) error {
	return r.db.Model(&models.Invoice{}).
		Where("id = ? AND purchase_id IS NULL", invoiceID).
		Update("purchase_id", purchaseID).Error
}

func (r *gormRepository) GetTransactionByPaymentIntentID(paymentIntentID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	if err := r.db.Where("stripe_payment_intent_id = ?", paymentIntentID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *gormRepository) CreateTransactionIfNotExists(tx *models.PaymentTransaction) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_payment_intent_id"}},
		DoNothing: true,
	}).Create(tx).Error; err != nil {
		return err
	}
	return r.db.Where("stripe_payment_intent_id = ?", tx.StripePaymentIntentID).First(tx).Error
}

func (r *gormRepository) SaveTransaction(tx *models.PaymentTransaction) error {
	return r.db.Save(tx).Error
}

// LinkUnlinkedTransactions attaches ownerless transactions matching the given
// invoice ids or payment-intent ids. Same monotone rule as invoices: only
// rows with a NULL purchase link are touched.
func (r *gormRepository) LinkUnlinkedTransactions(accountID, purchaseID uint, invoiceIDs, paymentIntentIDs []string) error {
	if len(invoiceIDs) == 0 && len(paymentIntentIDs) == 0 {
		return nil
	}

	query := r.db.Model(&models.PaymentTransaction{}).
		Where("account_id = ? AND purchase_id IS NULL", accountID)
	switch {
	case len(invoiceIDs) > 0 && len(paymentIntentIDs) > 0:
		query = query.Where("stripe_invoice_id IN ? OR stripe_payment_intent_id IN ?", invoiceIDs, paymentIntentIDs)
	case len(invoiceIDs) > 0:
		query = query.Where("stripe_invoice_id IN ?", invoiceIDs)
	default:
		query = query.Where("stripe_payment_intent_id IN ?", paymentIntentIDs)
	}
	return query.Update("purchase_id", purchaseID).Error
}
