package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/seatwiselabs/seatwise/internal/pkg/billing"
	"github.com/seatwiselabs/seatwise/internal/pkg/cache"
	"github.com/seatwiselabs/seatwise/internal/pkg/database"
	"github.com/seatwiselabs/seatwise/internal/pkg/env"
	"github.com/seatwiselabs/seatwise/internal/pkg/middleware"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const defaultCustomSeatUnitAmountCents = 200

var (
	billingSvc *billing.Service
	validate   = validator.New()
)

// InitializeBillingController wires the billing service with the processor
// client. The client handle is built once here and injected; nothing else
// holds processor state.
func InitializeBillingController() {
	sc := &client.API{}
	sc.Init(env.GetEnv("STRIPE_SECRET_KEY", ""), nil)
	billingSvc = billing.NewServiceFromDB(database.GetDB(), sc)
}

type checkoutRequest struct {
	PlanCode     string `json:"plan_code" validate:"required"`
	SeatQuantity int64  `json:"seat_quantity" validate:"omitempty,min=1,max=1000"`
	SuccessURL   string `json:"success_url" validate:"required,url"`
	CancelURL    string `json:"cancel_url" validate:"required,url"`
}

type customCheckoutRequest struct {
	SeatCount  int    `json:"seat_count" validate:"required,min=1,max=1000"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type seatCheckRequest struct {
	SeatsUsed int `json:"seats_used" validate:"min=0"`
}

// HandleStripeWebhook ingests one processor delivery. Signature verification
// happens before anything is recorded; after the idempotency gate the
// delivery is always acknowledged with 200, even when the handler failed,
// so the processor does not retry forever.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	event, err := webhook.ConstructEvent(rawBody, signature, secret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	in := billing.InboundEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Object:  event.Data.Raw,
		Payload: string(rawBody),
	}
	created, stored, err := billingSvc.RecordWebhookEvent(ctx, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}

	out := billingSvc.ProcessEvent(ctx, stored.ID, in)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "processed": out.Processed()})
}

// HandleBillingCheckout starts a catalog-plan checkout session.
func HandleBillingCheckout(c *fiber.Ctx) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_required"})
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sess, err := billingSvc.StartPlanCheckout(ctx, org, billing.CheckoutInput{
		PlanCode:     req.PlanCode,
		SeatQuantity: req.SeatQuantity,
		SuccessURL:   req.SuccessURL,
		CancelURL:    req.CancelURL,
	})
	if err != nil {
		return checkoutErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// HandleCustomCheckout starts a custom-seat checkout session priced from the
// configured per-seat amount.
func HandleCustomCheckout(c *fiber.Ctx) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_required"})
	}

	var req customCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	unitAmount := int64(defaultCustomSeatUnitAmountCents)
	if v := env.GetEnv("CUSTOM_SEAT_UNIT_AMOUNT_CENTS", ""); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			unitAmount = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sess, err := billingSvc.StartCustomSeatCheckout(ctx, org, req.SeatCount, unitAmount, req.SuccessURL, req.CancelURL)
	if err != nil {
		return checkoutErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// HandleBillingSummary returns the billing read model for the organization.
// Summaries are cached briefly; reconciliation lag of a few seconds is fine
// for this view.
func HandleBillingSummary(c *fiber.Ctx) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_required"})
	}

	cacheKey := "billing:summary:" + org.UUID
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := billingSvc.BillingSummary(ctx, org)
	if err != nil {
		if errors.Is(err, billing.ErrNoBillingAccount) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no_billing_account"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "summary_failed"})
	}

	if body, err := json.Marshal(summary); err == nil {
		_ = cache.Set(cacheKey, string(body), 30*time.Second)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}

// HandleSeatCheck reports whether another seat-consuming member fits under
// the live purchase's seat limit. The membership system supplies the count.
func HandleSeatCheck(c *fiber.Ctx) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_required"})
	}

	var req seatCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usage, err := billingSvc.SeatAllowance(ctx, org, req.SeatsUsed)
	if err != nil {
		if errors.Is(err, billing.ErrNoBillingAccount) || errors.Is(err, billing.ErrNoLivePurchase) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no_live_purchase"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "seat_check_failed"})
	}
	return c.Status(fiber.StatusOK).JSON(usage)
}

func checkoutErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrPlanUnknown):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown_plan"})
	case errors.Is(err, billing.ErrPlanInactive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_inactive"})
	case errors.Is(err, billing.ErrPlanNotRecurring):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_not_recurring"})
	case errors.Is(err, billing.ErrPlanNotPurchasable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_not_purchasable"})
	case errors.Is(err, billing.ErrInvalidSeatCount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_seat_count"})
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "processor_unavailable"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "checkout_failed"})
}
