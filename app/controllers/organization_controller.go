package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/seatwiselabs/seatwise/app/models"
	"github.com/seatwiselabs/seatwise/app/repository"
	"github.com/seatwiselabs/seatwise/internal/pkg/middleware"
	"gorm.io/gorm"
)

type createOrganizationRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=200"`
	Slug         string `json:"slug" validate:"omitempty,min=2,max=200"`
	OwnerUserID  uint   `json:"owner_user_id" validate:"required"`
	PrimaryEmail string `json:"primary_email" validate:"omitempty,email"`
	PrimaryPhone string `json:"primary_phone" validate:"omitempty,max=50"`
}

// HandleCreateOrganization provisions a tenant. The billing account itself
// is created lazily on first checkout.
func HandleCreateOrganization(c *fiber.Ctx) error {
	var req createOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetOrganizationRepository()

	slug := models.NormalizeSlug(req.Slug)
	if slug == "" {
		slug = models.NormalizeSlug(req.Name)
	}
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_slug"})
	}
	if _, err := repo.GetBySlug(slug); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "slug_taken"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "organization_create_failed"})
	}

	org := &models.Organization{
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug,
		OwnerUserID:  req.OwnerUserID,
		PrimaryEmail: strings.TrimSpace(req.PrimaryEmail),
		PrimaryPhone: strings.TrimSpace(req.PrimaryPhone),
		Status:       models.OrganizationStatusActive,
	}
	if err := repo.Create(org); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "organization_create_failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

// HandleGetOrganization returns the organization resolved by the context
// middleware.
func HandleGetOrganization(c *fiber.Ctx) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_required"})
	}
	return c.Status(fiber.StatusOK).JSON(org)
}

// HandleListPlans returns the active plan catalog.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().ListActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "plan_list_failed"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"plans": plans})
}
