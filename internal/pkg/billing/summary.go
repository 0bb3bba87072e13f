package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seatwiselabs/seatwise/app/models"
	"github.com/seatwiselabs/seatwise/internal/pkg/entitlements"
	"gorm.io/gorm"
)

var (
	ErrNoBillingAccount = errors.New("organization has no billing account")
	ErrNoLivePurchase   = errors.New("organization has no live purchase")
)

// PlanSummary is the public shape of the purchase's plan snapshot. Custom
// purchases without a catalog plan get a synthesized label.
type PlanSummary struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	SeatLimit       int    `json:"seat_limit"`
	UnitAmountCents int64  `json:"unit_amount_cents"`
	Currency        string `json:"currency"`
	IsCustom        bool   `json:"is_custom"`
}

// TrialInfo reports trial progress for trial purchases.
type TrialInfo struct {
	DaysTotal     int `json:"days_total"`
	DaysRemaining int `json:"days_remaining"`
}

// PeriodInfo reports the paid billing window.
type PeriodInfo struct {
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
}

// BillingSummary composes the account identity with the live purchase
// snapshot. Exactly one of Trial or Period is set when a purchase exists,
// selected by the purchase's IsTrial flag.
type BillingSummary struct {
	OrganizationUUID string       `json:"organization_uuid"`
	AccountStatus    string       `json:"account_status"`
	StripeCustomerID string       `json:"stripe_customer_id,omitempty"`
	HasPurchase      bool         `json:"has_purchase"`
	PurchaseStatus   string       `json:"purchase_status,omitempty"`
	IsTrial          bool         `json:"is_trial"`
	Plan             *PlanSummary `json:"plan,omitempty"`
	Trial            *TrialInfo   `json:"trial,omitempty"`
	Period           *PeriodInfo  `json:"period,omitempty"`
}

// BillingSummary builds the read model for one organization.
func (s *Service) BillingSummary(ctx context.Context, org *models.Organization) (*BillingSummary, error) {
	_ = ctx
	account, err := s.repo.GetAccountByOrganizationID(org.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoBillingAccount
		}
		return nil, err
	}

	summary := &BillingSummary{
		OrganizationUUID: org.UUID,
		AccountStatus:    account.Status,
	}
	if account.StripeCustomerID != nil {
		summary.StripeCustomerID = *account.StripeCustomerID
	}

	purchase, err := s.repo.GetLivePurchase(account.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, nil
		}
		return nil, err
	}

	summary.HasPurchase = true
	summary.PurchaseStatus = purchase.Status
	summary.IsTrial = purchase.IsTrial
	summary.Plan = s.planSummaryFor(purchase)

	if purchase.IsTrial {
		summary.Trial = trialInfoFor(purchase, time.Now().UTC())
	} else {
		summary.Period = &PeriodInfo{
			CurrentPeriodStart: purchase.CurrentPeriodStart,
			CurrentPeriodEnd:   purchase.CurrentPeriodEnd,
			CancelAtPeriodEnd:  purchase.CancelAtPeriodEnd,
		}
	}
	return summary, nil
}

func (s *Service) planSummaryFor(purchase *models.PlanPurchase) *PlanSummary {
	ps := &PlanSummary{
		SeatLimit:       purchase.SeatLimit,
		UnitAmountCents: purchase.UnitAmountCents,
		Currency:        purchase.Currency,
	}
	if purchase.PlanID != nil {
		if plan, err := s.repo.GetPlanByID(*purchase.PlanID); err == nil {
			ps.Code = plan.Code
			ps.Name = plan.Name
			return ps
		}
	}
	ps.Code = "CUSTOM"
	ps.Name = fmt.Sprintf("Custom (%d seats)", purchase.SeatLimit)
	ps.IsCustom = true
	return ps
}

func trialInfoFor(purchase *models.PlanPurchase, now time.Time) *TrialInfo {
	info := &TrialInfo{}
	start, end := purchase.CurrentPeriodStart, purchase.CurrentPeriodEnd
	if start == nil {
		start = purchase.StartDate
	}
	if start == nil || end == nil {
		return info
	}
	info.DaysTotal = int(end.Sub(*start).Hours() / 24)
	remaining := int(end.Sub(now).Hours() / 24)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > info.DaysTotal {
		remaining = info.DaysTotal
	}
	info.DaysRemaining = remaining
	return info
}

// SeatAllowance reports seat usage against the live purchase's seat
// snapshot. The seats-in-use count comes from the membership system.
func (s *Service) SeatAllowance(ctx context.Context, org *models.Organization, seatsUsed int) (*entitlements.SeatUsage, error) {
	_ = ctx
	account, err := s.repo.GetAccountByOrganizationID(org.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoBillingAccount
		}
		return nil, err
	}
	purchase, err := s.repo.GetLivePurchase(account.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoLivePurchase
		}
		return nil, err
	}
	usage := entitlements.NewSeatUsage(purchase.SeatLimit, seatsUsed)
	return &usage, nil
}
