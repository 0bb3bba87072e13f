package models

import "time"

// Invoice mirrors a processor invoice, unique by its processor id.
// PurchaseID is a pending linkage: it stays null until the owning
// PlanPurchase exists and is only ever moved from null to set.
type Invoice struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	AccountID            uint       `gorm:"not null;index:idx_invoices_account_sub,priority:1" json:"account_id"`
	PurchaseID           *uint      `gorm:"default:null;index" json:"purchase_id,omitempty"`
	StripeInvoiceID      string     `gorm:"type:varchar(191);not null;index:ux_invoices_stripe_invoice,unique" json:"stripe_invoice_id"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);default:'';index:idx_invoices_account_sub,priority:2" json:"stripe_subscription_id"`
	AmountDueCents       int64      `gorm:"not null;default:0" json:"amount_due_cents"`
	AmountPaidCents      int64      `gorm:"not null;default:0" json:"amount_paid_cents"`
	Currency             string     `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	Status               string     `gorm:"type:varchar(32);default:''" json:"status"`
	PeriodStart          *time.Time `gorm:"type:timestamp;default:null" json:"period_start,omitempty"`
	PeriodEnd            *time.Time `gorm:"type:timestamp;default:null" json:"period_end,omitempty"`
	HostedInvoiceURL     string     `gorm:"type:text" json:"hosted_invoice_url"`
	InvoicePDFURL        string     `gorm:"type:text" json:"invoice_pdf_url"`
	RawPayloadJSON       string     `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
