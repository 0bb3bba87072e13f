package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrganizationStatusActive    = "active"
	OrganizationStatusSuspended = "suspended"
	OrganizationStatusDeleted   = "deleted"
)

// Organization is a tenant. It owns at most one BillingAccount.
type Organization struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         string    `gorm:"type:varchar(36);not null;index:ux_organizations_uuid,unique" json:"uuid"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string    `gorm:"type:varchar(200);not null;index:ux_organizations_slug,unique" json:"slug"`
	OwnerUserID  uint      `gorm:"not null;index" json:"owner_user_id"`
	PrimaryEmail string    `gorm:"type:varchar(200);default:''" json:"primary_email"`
	PrimaryPhone string    `gorm:"type:varchar(50);default:''" json:"primary_phone"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeSlug lowercases a name and collapses everything that is not
// alphanumeric into single dashes.
func NormalizeSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == "" {
		o.UUID = uuid.NewString()
	}
	if o.Slug == "" {
		o.Slug = NormalizeSlug(o.Name)
	}
	return nil
}
