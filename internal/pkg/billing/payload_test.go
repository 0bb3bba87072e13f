package billing

import "testing"

func TestSubscriptionPeriodFallsBackToFirstItem(t *testing.T) {
	raw := []byte(`{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "active",
		"items": {"data": [{
			"current_period_start": 1700000000,
			"current_period_end": 1702592000,
			"price": {"id": "price_1", "currency": "usd"}
		}]}
	}`)

	sub, err := parseSubscription(raw)
	if err != nil {
		t.Fatalf("parseSubscription: %v", err)
	}
	start, end := sub.periodStart(), sub.periodEnd()
	if start == nil || start.Unix() != 1700000000 {
		t.Fatalf("expected period start from item, got %v", start)
	}
	if end == nil || end.Unix() != 1702592000 {
		t.Fatalf("expected period end from item, got %v", end)
	}
	if got := sub.firstPriceID(); got != "price_1" {
		t.Fatalf("firstPriceID = %q, want price_1", got)
	}
}

func TestSubscriptionTopLevelPeriodWins(t *testing.T) {
	raw := []byte(`{
		"id": "sub_1",
		"customer": "cus_1",
		"current_period_start": 1600000000,
		"current_period_end": 1602592000,
		"items": {"data": [{
			"current_period_start": 1700000000,
			"current_period_end": 1702592000,
			"price": {"id": "price_1"}
		}]}
	}`)

	sub, err := parseSubscription(raw)
	if err != nil {
		t.Fatalf("parseSubscription: %v", err)
	}
	if start := sub.periodStart(); start == nil || start.Unix() != 1600000000 {
		t.Fatalf("expected top-level period start to win, got %v", start)
	}
}

func TestCustomSeatPricing(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		ok       bool
		seats    int
		unit     int64
	}{
		{
			name:     "valid override",
			metadata: map[string]string{"plan_type": "custom", "custom_seat_count": "25", "custom_unit_amount_cents": "150"},
			ok:       true, seats: 25, unit: 150,
		},
		{
			name:     "missing plan type",
			metadata: map[string]string{"custom_seat_count": "25", "custom_unit_amount_cents": "150"},
		},
		{
			name:     "zero seats",
			metadata: map[string]string{"plan_type": "custom", "custom_seat_count": "0", "custom_unit_amount_cents": "150"},
		},
		{
			name:     "non-numeric unit",
			metadata: map[string]string{"plan_type": "custom", "custom_seat_count": "25", "custom_unit_amount_cents": "abc"},
		},
		{
			name: "no metadata",
		},
	}

	for _, tt := range tests {
		sub := &subscriptionPayload{Metadata: tt.metadata}
		seats, unit, ok := sub.customSeatPricing()
		if ok != tt.ok {
			t.Fatalf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
		}
		if ok && (seats != tt.seats || unit != tt.unit) {
			t.Fatalf("%s: got (%d, %d), want (%d, %d)", tt.name, seats, unit, tt.seats, tt.unit)
		}
	}
}

func TestInvoiceSubscriptionIDFallbacks(t *testing.T) {
	topLevel := []byte(`{"id": "in_1", "subscription": "sub_top"}`)
	inv, err := parseInvoice(topLevel)
	if err != nil {
		t.Fatalf("parseInvoice: %v", err)
	}
	if got := inv.subscriptionID(); got != "sub_top" {
		t.Fatalf("subscriptionID = %q, want sub_top", got)
	}

	lineLevel := []byte(`{"id": "in_2", "lines": {"data": [{"subscription": "sub_line"}]}}`)
	inv, err = parseInvoice(lineLevel)
	if err != nil {
		t.Fatalf("parseInvoice: %v", err)
	}
	if got := inv.subscriptionID(); got != "sub_line" {
		t.Fatalf("subscriptionID = %q, want sub_line", got)
	}

	nested := []byte(`{"id": "in_3", "lines": {"data": [{"parent": {"subscription_item_details": {"subscription": "sub_nested"}}}]}}`)
	inv, err = parseInvoice(nested)
	if err != nil {
		t.Fatalf("parseInvoice: %v", err)
	}
	if got := inv.subscriptionID(); got != "sub_nested" {
		t.Fatalf("subscriptionID = %q, want sub_nested", got)
	}

	none := []byte(`{"id": "in_4"}`)
	inv, err = parseInvoice(none)
	if err != nil {
		t.Fatalf("parseInvoice: %v", err)
	}
	if got := inv.subscriptionID(); got != "" {
		t.Fatalf("subscriptionID = %q, want empty", got)
	}
}

func TestPaymentIntentFromInvoiceJSON(t *testing.T) {
	if got := paymentIntentFromInvoiceJSON(`{"payment_intent": "pi_123"}`); got != "pi_123" {
		t.Fatalf("got %q, want pi_123", got)
	}
	if got := paymentIntentFromInvoiceJSON(`{"id": "in_1"}`); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
	if got := paymentIntentFromInvoiceJSON(""); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
	if got := paymentIntentFromInvoiceJSON("not json"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
