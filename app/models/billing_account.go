package models

import "time"

const (
	BillingAccountStatusActive    = "active"
	BillingAccountStatusSuspended = "suspended"
	BillingAccountStatusClosed    = "closed"
)

// BillingAccount is an organization's billing identity. It is created lazily
// on first checkout; the processor customer id stays null until then.
type BillingAccount struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	OrganizationID      uint      `gorm:"not null;index:ux_billing_accounts_org,unique" json:"organization_id"`
	OrgName             string    `gorm:"type:varchar(200);default:''" json:"org_name"`
	PrimaryContactName  string    `gorm:"type:varchar(200);default:''" json:"primary_contact_name"`
	PrimaryContactEmail string    `gorm:"type:varchar(200);default:''" json:"primary_contact_email"`
	StripeCustomerID    *string   `gorm:"type:varchar(191);default:null;index:ux_billing_accounts_stripe_customer,unique" json:"stripe_customer_id,omitempty"`
	Status              string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
