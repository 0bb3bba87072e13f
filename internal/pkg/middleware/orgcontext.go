package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/seatwiselabs/seatwise/app/models"
	"github.com/seatwiselabs/seatwise/app/repository"
	"gorm.io/gorm"
)

const organizationLocalsKey = "organization"

// OrganizationHeader carries the authenticated organization identity. The
// authentication layer in front of this service sets it; this engine only
// resolves it to a tenant.
const OrganizationHeader = "X-Organization-ID"

// OrganizationContextMiddleware resolves the organization header into a
// loaded Organization and stores it on the request. Requests without the
// header pass through; handlers that need a tenant reject them.
func OrganizationContextMiddleware(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Get(OrganizationHeader))
	if raw == "" {
		return c.Next()
	}
	if _, err := uuid.Parse(raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_organization_id"})
	}

	org, err := repository.GetGlobalFactory().GetOrganizationRepository().GetByUUID(raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "organization_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "organization_lookup_failed"})
	}
	if org.Status == models.OrganizationStatusDeleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "organization_not_found"})
	}

	c.Locals(organizationLocalsKey, org)
	return c.Next()
}

// GetOrganization returns the organization resolved for this request, or nil.
func GetOrganization(c *fiber.Ctx) *models.Organization {
	org, _ := c.Locals(organizationLocalsKey).(*models.Organization)
	return org
}
