package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/seatwiselabs/seatwise/app/controllers"
)

// Pong is the health check response body.
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the public v1 API surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes. The organization context
// middleware runs on the group; endpoints that need a tenant reject
// requests without one.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/plans", s.GetPlans)
	router.Post("/organizations", s.PostOrganization)
	router.Get("/organizations/me", s.GetOrganization)
	router.Get("/billing/summary", s.GetBillingSummary)
	router.Post("/billing/checkout", s.PostBillingCheckout)
	router.Post("/billing/checkout/custom", s.PostCustomCheckout)
	router.Post("/billing/seats/check", s.PostSeatCheck)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetPlans returns the active subscription plan catalog.
func (s *APIServer) GetPlans(c *fiber.Ctx) error {
	return controllers.HandleListPlans(c)
}

// PostOrganization provisions a new tenant.
func (s *APIServer) PostOrganization(c *fiber.Ctx) error {
	return controllers.HandleCreateOrganization(c)
}

// GetOrganization returns the calling organization.
func (s *APIServer) GetOrganization(c *fiber.Ctx) error {
	return controllers.HandleGetOrganization(c)
}

// GetBillingSummary returns the billing read model for the organization.
func (s *APIServer) GetBillingSummary(c *fiber.Ctx) error {
	return controllers.HandleBillingSummary(c)
}

// PostBillingCheckout starts a catalog-plan checkout.
func (s *APIServer) PostBillingCheckout(c *fiber.Ctx) error {
	return controllers.HandleBillingCheckout(c)
}

// PostCustomCheckout starts a custom-seat checkout.
func (s *APIServer) PostCustomCheckout(c *fiber.Ctx) error {
	return controllers.HandleCustomCheckout(c)
}

// PostSeatCheck evaluates seat availability against the live purchase.
func (s *APIServer) PostSeatCheck(c *fiber.Ctx) error {
	return controllers.HandleSeatCheck(c)
}
