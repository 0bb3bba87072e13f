package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/seatwiselabs/seatwise/app/models"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

var (
	ErrPlanUnknown        = errors.New("unknown plan code")
	ErrPlanInactive       = errors.New("plan is not active")
	ErrPlanNotRecurring   = errors.New("plan is not a recurring plan")
	ErrPlanNotPurchasable = errors.New("plan has no processor price")
	ErrInvalidSeatCount   = errors.New("seat count must be between 1 and 1000")
)

// CheckoutInput describes a catalog-plan checkout request.
type CheckoutInput struct {
	PlanCode     string
	SeatQuantity int64
	SuccessURL   string
	CancelURL    string
}

// CheckoutSession is the redirect handed back to the caller.
type CheckoutSession struct {
	URL       string `json:"checkout_url"`
	SessionID string `json:"session_id"`
}

// StartPlanCheckout validates the plan, lazily provisions the billing
// account and its processor customer, and opens a subscription checkout
// session for the plan's price.
func (s *Service) StartPlanCheckout(ctx context.Context, org *models.Organization, in CheckoutInput) (*CheckoutSession, error) {
	plan, err := s.repo.GetPlanByCode(in.PlanCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanUnknown
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}
	if plan.PlanType != models.PlanTypeRecurring {
		return nil, ErrPlanNotRecurring
	}
	if plan.StripePriceID == nil || *plan.StripePriceID == "" {
		return nil, ErrPlanNotPurchasable
	}

	account, err := s.ensureAccount(ctx, org)
	if err != nil {
		return nil, err
	}
	customerID, err := s.ensureStripeCustomer(ctx, org, account)
	if err != nil {
		return nil, err
	}

	quantity := in.SeatQuantity
	if quantity < 1 {
		quantity = 1
	}
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    plan.StripePriceID,
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(org.UUID),
	}
	sess, err := s.stripe.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{URL: sess.URL, SessionID: sess.ID}, nil
}

// StartCustomSeatCheckout opens a checkout session priced per seat instead
// of from the catalog. The seat count and unit amount are planted into the
// subscription metadata so the subscription reconciler can snapshot them
// when the lifecycle event arrives.
func (s *Service) StartCustomSeatCheckout(ctx context.Context, org *models.Organization, seatCount int, unitAmountCents int64, successURL, cancelURL string) (*CheckoutSession, error) {
	if seatCount < 1 || seatCount > 1000 {
		return nil, ErrInvalidSeatCount
	}

	account, err := s.ensureAccount(ctx, org)
	if err != nil {
		return nil, err
	}
	customerID, err := s.ensureStripeCustomer(ctx, org, account)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(unitAmountCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Custom plan (%d seats)", seatCount)),
					},
				},
				Quantity: stripe.Int64(int64(seatCount)),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"plan_type":                "custom",
				"custom_seat_count":        fmt.Sprintf("%d", seatCount),
				"custom_unit_amount_cents": fmt.Sprintf("%d", unitAmountCents),
			},
		},
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(org.UUID),
	}
	sess, err := s.stripe.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create custom checkout session: %w", err)
	}
	return &CheckoutSession{URL: sess.URL, SessionID: sess.ID}, nil
}

func (s *Service) ensureAccount(ctx context.Context, org *models.Organization) (*models.BillingAccount, error) {
	_ = ctx
	account, err := s.repo.GetAccountByOrganizationID(org.ID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = &models.BillingAccount{
		OrganizationID:      org.ID,
		OrgName:             org.Name,
		PrimaryContactEmail: org.PrimaryEmail,
		Status:              models.BillingAccountStatusActive,
	}
	if err := s.repo.CreateAccountIfNotExists(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) ensureStripeCustomer(ctx context.Context, org *models.Organization, account *models.BillingAccount) (string, error) {
	_ = ctx
	if account.StripeCustomerID != nil && *account.StripeCustomerID != "" {
		return *account.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Name: stripe.String(org.Name),
		Metadata: map[string]string{
			"organization_uuid":  org.UUID,
			"billing_account_id": fmt.Sprintf("%d", account.ID),
		},
	}
	if account.PrimaryContactEmail != "" {
		params.Email = stripe.String(account.PrimaryContactEmail)
	}
	cust, err := s.stripe.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create processor customer: %w", err)
	}

	if err := s.repo.SetAccountStripeCustomerID(account.ID, cust.ID); err != nil {
		return "", err
	}
	account.StripeCustomerID = &cust.ID
	return cust.ID, nil
}
