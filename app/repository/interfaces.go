package repository

import (
	"github.com/seatwiselabs/seatwise/app/models"
)

// OrganizationRepository defines the interface for organization persistence.
type OrganizationRepository interface {
	Create(org *models.Organization) error
	GetByID(id uint) (*models.Organization, error)
	GetByUUID(uuid string) (*models.Organization, error)
	GetBySlug(slug string) (*models.Organization, error)
	Update(org *models.Organization) error
	List(offset, limit int) ([]models.Organization, error)
	Count() (int64, error)
}

// PlanRepository defines the interface for the subscription plan catalog.
type PlanRepository interface {
	Create(plan *models.SubscriptionPlan) error
	GetByID(id uint) (*models.SubscriptionPlan, error)
	GetByCode(code string) (*models.SubscriptionPlan, error)
	GetByStripePriceID(priceID string) (*models.SubscriptionPlan, error)
	ListActive() ([]models.SubscriptionPlan, error)
	Update(plan *models.SubscriptionPlan) error
}

// Repositories bundles all repository instances.
type Repositories struct {
	Organization OrganizationRepository
	Plan         PlanRepository
}
