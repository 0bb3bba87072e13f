package models

import "time"

const (
	PurchaseStatusTrialActive    = "trial_active"
	PurchaseStatusActive         = "active"
	PurchaseStatusPastDue        = "past_due"
	PurchaseStatusCanceled       = "canceled"
	PurchaseStatusTrialConverted = "trial_converted"
	PurchaseStatusIncomplete     = "incomplete"
)

// LivePurchaseStatuses are the statuses under which a purchase still entitles
// the organization (trial running, paid, or paid but late).
func LivePurchaseStatuses() []string {
	return []string{PurchaseStatusTrialActive, PurchaseStatusActive, PurchaseStatusPastDue}
}

// PlanPurchase records one organization's relationship to one plan
// generation. PlanID is optional: custom-seat purchases carry their own seat
// count and per-seat price instead of a catalog reference. SeatLimit,
// UnitAmountCents and Currency are snapshots taken at creation.
type PlanPurchase struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	AccountID             uint       `gorm:"not null;index" json:"account_id"`
	PlanID                *uint      `gorm:"default:null;index" json:"plan_id,omitempty"`
	StripeSubscriptionID  *string    `gorm:"type:varchar(191);default:null;index:ux_plan_purchases_stripe_sub,unique" json:"stripe_subscription_id,omitempty"`
	StripeLatestInvoiceID string     `gorm:"type:varchar(191);default:''" json:"stripe_latest_invoice_id"`
	StripePriceID         string     `gorm:"type:varchar(191);default:''" json:"stripe_price_id"`
	SeatLimit             int        `gorm:"not null;default:0" json:"seat_limit"`
	UnitAmountCents       int64      `gorm:"not null;default:0" json:"unit_amount_cents"`
	Currency              string     `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	Status                string     `gorm:"type:varchar(32);not null;default:'incomplete';index" json:"status"`
	IsTrial               bool       `gorm:"default:false;index" json:"is_trial"`
	StartDate             *time.Time `gorm:"type:timestamp;default:null" json:"start_date,omitempty"`
	EndDate               *time.Time `gorm:"type:timestamp;default:null" json:"end_date,omitempty"`
	CurrentPeriodStart    *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd      *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAt              *time.Time `gorm:"type:timestamp;default:null" json:"cancel_at,omitempty"`
	CancelAtPeriodEnd     bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CustomSeatCount       *int       `gorm:"default:null" json:"custom_seat_count,omitempty"`
	CustomUnitAmountCents *int64     `gorm:"default:null" json:"custom_unit_amount_cents,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
