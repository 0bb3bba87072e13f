package models

import "time"

const (
	PlanTypeRecurring = "recurring"
	PlanTypeCustom    = "custom"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// SubscriptionPlan is a catalog row. Purchases snapshot its pricing fields at
// creation time, so editing a plan never changes existing purchases.
type SubscriptionPlan struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Code                string    `gorm:"type:varchar(64);not null;index:ux_subscription_plans_code,unique" json:"code"`
	Name                string    `gorm:"type:varchar(200);not null" json:"name"`
	Description         string    `gorm:"type:text" json:"description"`
	PlanType            string    `gorm:"type:varchar(20);not null;default:'recurring'" json:"plan_type"`
	BillingCycle        string    `gorm:"type:varchar(20);not null;default:'monthly'" json:"billing_cycle"`
	AmountCents         int64     `gorm:"not null;default:0" json:"amount_cents"`
	Currency            string    `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	SeatLimit           int       `gorm:"not null;default:0" json:"seat_limit"`
	ExtraSeatPriceCents int64     `gorm:"not null;default:0" json:"extra_seat_price_cents"`
	IsTrial             bool      `gorm:"default:false" json:"is_trial"`
	TrialDays           int       `gorm:"not null;default:0" json:"trial_days"`
	StripePriceID       *string   `gorm:"type:varchar(191);default:null;index:ux_subscription_plans_stripe_price,unique" json:"stripe_price_id,omitempty"`
	// No default tag: with one, GORM omits an explicit false on insert and
	// the column silently comes back true.
	IsActive            bool      `gorm:"index" json:"is_active"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
