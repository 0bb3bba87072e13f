package repository

import (
	"github.com/seatwiselabs/seatwise/app/models"
	"gorm.io/gorm"
)

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

func (r *organizationRepository) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) GetByUUID(uuid string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("uuid = ?", uuid).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) GetBySlug(slug string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

func (r *organizationRepository) List(offset, limit int) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orgs).Error
	return orgs, err
}

func (r *organizationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Organization{}).Count(&count).Error
	return count, err
}
