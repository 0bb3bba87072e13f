package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwiselabs/seatwise/app/models"
)

func TestStartPlanCheckoutValidation(t *testing.T) {
	svc, db := newTestService(t)
	org, _ := seedAccount(t, db, "cus_1")

	inactivePrice := "price_inactive"
	require.NoError(t, db.Create(&models.SubscriptionPlan{
		Code: "legacy", Name: "Legacy", PlanType: models.PlanTypeRecurring,
		StripePriceID: &inactivePrice, IsActive: false,
	}).Error)
	require.NoError(t, db.Create(&models.SubscriptionPlan{
		Code: "bespoke", Name: "Bespoke", PlanType: models.PlanTypeCustom, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.SubscriptionPlan{
		Code: "unpriced", Name: "Unpriced", PlanType: models.PlanTypeRecurring, IsActive: true,
	}).Error)

	// The deactivated plan must actually persist as inactive.
	var legacy models.SubscriptionPlan
	require.NoError(t, db.Where("code = ?", "legacy").First(&legacy).Error)
	require.False(t, legacy.IsActive)

	tests := []struct {
		planCode string
		wantErr  error
	}{
		{planCode: "nope", wantErr: ErrPlanUnknown},
		{planCode: "legacy", wantErr: ErrPlanInactive},
		{planCode: "bespoke", wantErr: ErrPlanNotRecurring},
		{planCode: "unpriced", wantErr: ErrPlanNotPurchasable},
	}

	for _, tt := range tests {
		_, err := svc.StartPlanCheckout(context.Background(), org, CheckoutInput{PlanCode: tt.planCode})
		assert.ErrorIs(t, err, tt.wantErr, "plan code %q", tt.planCode)
	}
}

func TestStartCustomSeatCheckoutSeatBounds(t *testing.T) {
	svc, db := newTestService(t)
	org, _ := seedAccount(t, db, "cus_1")

	for _, seats := range []int{0, -1, 1001} {
		_, err := svc.StartCustomSeatCheckout(context.Background(), org, seats, 200, "https://x/s", "https://x/c")
		assert.ErrorIs(t, err, ErrInvalidSeatCount, "seat count %d", seats)
	}
}
