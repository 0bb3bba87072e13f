package models

import "time"

// Webhook processing results recorded per event. Skipped variants keep
// unresolved events distinguishable from handled ones after the fact.
const (
	WebhookResultApplied               = "applied"
	WebhookResultSkippedNoAccount      = "skipped_no_account"
	WebhookResultSkippedIncompleteData = "skipped_incomplete_data"
	WebhookResultIgnored               = "ignored"
	WebhookResultFailed                = "failed"
)

// WebhookEvent stores each processor delivery exactly once. The unique key
// on the processor event id is the idempotency gate: a second insert for the
// same event id affects zero rows and the delivery is acknowledged without
// running any handler.
type WebhookEvent struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	StripeEventID string     `gorm:"type:varchar(191);not null;index:ux_webhook_events_stripe_event,unique" json:"stripe_event_id"`
	EventType     string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Processed     bool       `gorm:"default:false;index" json:"processed"`
	Result        string     `gorm:"type:varchar(40);default:''" json:"result"`
	PayloadJSON   string     `gorm:"type:longtext;not null" json:"payload_json"`
	ReceivedAt    time.Time  `gorm:"autoCreateTime;index" json:"received_at"`
	ProcessedAt   *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ErrorMessage  string     `gorm:"type:varchar(500);default:''" json:"error_message"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
