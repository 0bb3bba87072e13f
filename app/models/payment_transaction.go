package models

import "time"

const (
	TransactionKindInitial   = "initial"
	TransactionKindRecurring = "recurring"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"
)

// PaymentTransaction mirrors one payment attempt. The payment-intent id is
// the natural key; when the processor supplies none, a stable synthetic key
// is derived from the invoice or charge id ("invoice_<id>" / "charge_<id>")
// so redeliveries converge on the same row. PurchaseID follows the same
// pending-linkage rule as Invoice.PurchaseID.
type PaymentTransaction struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	AccountID             uint      `gorm:"not null;index" json:"account_id"`
	PurchaseID            *uint     `gorm:"default:null;index" json:"purchase_id,omitempty"`
	StripePaymentIntentID string    `gorm:"type:varchar(191);not null;index:ux_payment_transactions_intent,unique" json:"stripe_payment_intent_id"`
	StripeChargeID        string    `gorm:"type:varchar(191);default:'';index" json:"stripe_charge_id"`
	StripeInvoiceID       string    `gorm:"type:varchar(191);default:'';index" json:"stripe_invoice_id"`
	Kind                  string    `gorm:"type:varchar(20);not null;default:'initial'" json:"kind"`
	Status                string    `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	AmountCents           int64     `gorm:"not null;default:0" json:"amount_cents"`
	Currency              string    `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	OccurredAt            time.Time `gorm:"type:timestamp" json:"occurred_at"`
	RawPayloadJSON        string    `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
