package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seatwiselabs/seatwise/app/controllers"
	"github.com/seatwiselabs/seatwise/app/repository"
	"github.com/seatwiselabs/seatwise/internal/pkg/database"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	repository.InitializeFactory(database.GetDB())

	// Initialize billing controller with the processor client
	controllers.InitializeBillingController()

	h.registerWebhookRoutes(app)
}

// registerWebhookRoutes wires the processor callback endpoint. It takes the
// raw body and lives outside the API group: no rate limiter and no tenant
// middleware may sit in front of it.
func (h HttpRouter) registerWebhookRoutes(app *fiber.App) {
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
