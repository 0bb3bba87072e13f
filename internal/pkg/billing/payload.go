package billing

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The processor's webhook object shapes vary between API versions, so the
// payloads are parsed into tolerant structs here instead of the SDK's typed
// events. Absent numeric fields stay nil so fallbacks can tell "missing"
// from zero.

type subscriptionPayload struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Status             string            `json:"status"`
	StartDate          *int64            `json:"start_date"`
	CurrentPeriodStart *int64            `json:"current_period_start"`
	CurrentPeriodEnd   *int64            `json:"current_period_end"`
	CancelAt           *int64            `json:"cancel_at"`
	CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
	LatestInvoice      string            `json:"latest_invoice"`
	Currency           string            `json:"currency"`
	Metadata           map[string]string `json:"metadata"`
	Items              struct {
		Data []subscriptionItemPayload `json:"data"`
	} `json:"items"`
}

type subscriptionItemPayload struct {
	CurrentPeriodStart *int64 `json:"current_period_start"`
	CurrentPeriodEnd   *int64 `json:"current_period_end"`
	Price              struct {
		ID       string `json:"id"`
		Currency string `json:"currency"`
	} `json:"price"`
}

type invoicePayload struct {
	ID               string `json:"id"`
	Customer         string `json:"customer"`
	Subscription     string `json:"subscription"`
	PaymentIntent    string `json:"payment_intent"`
	BillingReason    string `json:"billing_reason"`
	AmountDue        int64  `json:"amount_due"`
	AmountPaid       int64  `json:"amount_paid"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	PeriodStart      *int64 `json:"period_start"`
	PeriodEnd        *int64 `json:"period_end"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
	InvoicePDF       string `json:"invoice_pdf"`
	Lines            struct {
		Data []invoiceLinePayload `json:"data"`
	} `json:"lines"`
}

type invoiceLinePayload struct {
	Subscription string `json:"subscription"`
	Parent       struct {
		SubscriptionItemDetails struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_item_details"`
	} `json:"parent"`
}

type chargePayload struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Customer      string `json:"customer"`
	Invoice       string `json:"invoice"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Created       int64  `json:"created"`
}

func parseSubscription(raw []byte) (*subscriptionPayload, error) {
	var p subscriptionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseInvoice(raw []byte) (*invoicePayload, error) {
	var p invoicePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseCharge(raw []byte) (*chargePayload, error) {
	var p chargePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *subscriptionPayload) firstPriceID() string {
	if len(p.Items.Data) == 0 {
		return ""
	}
	return p.Items.Data[0].Price.ID
}

func (p *subscriptionPayload) effectiveCurrency() string {
	if p.Currency != "" {
		return normalizeCurrency(p.Currency)
	}
	if len(p.Items.Data) > 0 && p.Items.Data[0].Price.Currency != "" {
		return normalizeCurrency(p.Items.Data[0].Price.Currency)
	}
	return "usd"
}

// periodStart falls back from the subscription object to its first line item
// when the top-level timestamp is absent. Same for periodEnd.
func (p *subscriptionPayload) periodStart() *time.Time {
	if t := unixTime(p.CurrentPeriodStart); t != nil {
		return t
	}
	if len(p.Items.Data) > 0 {
		return unixTime(p.Items.Data[0].CurrentPeriodStart)
	}
	return nil
}

func (p *subscriptionPayload) periodEnd() *time.Time {
	if t := unixTime(p.CurrentPeriodEnd); t != nil {
		return t
	}
	if len(p.Items.Data) > 0 {
		return unixTime(p.Items.Data[0].CurrentPeriodEnd)
	}
	return nil
}

// customSeatPricing reads the custom-seat override planted into subscription
// metadata by the custom checkout flow. Both values must be present and
// positive for the override to apply.
func (p *subscriptionPayload) customSeatPricing() (seatCount int, unitAmountCents int64, ok bool) {
	if p.Metadata == nil {
		return 0, 0, false
	}
	if strings.ToLower(p.Metadata["plan_type"]) != "custom" {
		return 0, 0, false
	}
	count, err := strconv.Atoi(p.Metadata["custom_seat_count"])
	if err != nil || count <= 0 {
		return 0, 0, false
	}
	unit, err := strconv.ParseInt(p.Metadata["custom_unit_amount_cents"], 10, 64)
	if err != nil || unit <= 0 {
		return 0, 0, false
	}
	return count, unit, true
}

// subscriptionID returns the invoice's owning subscription id, scanning line
// items for the nested reference newer payload schemas use when the
// top-level field is absent.
func (p *invoicePayload) subscriptionID() string {
	if p.Subscription != "" {
		return p.Subscription
	}
	for _, line := range p.Lines.Data {
		if line.Subscription != "" {
			return line.Subscription
		}
		if s := line.Parent.SubscriptionItemDetails.Subscription; s != "" {
			return s
		}
	}
	return ""
}

func unixTime(v *int64) *time.Time {
	if v == nil || *v == 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

// paymentIntentFromInvoiceJSON pulls the payment_intent id out of a stored
// invoice payload so the backfill can match transactions keyed by it.
func paymentIntentFromInvoiceJSON(rawPayload string) string {
	if rawPayload == "" {
		return ""
	}
	var probe struct {
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.Unmarshal([]byte(rawPayload), &probe); err != nil {
		return ""
	}
	return probe.PaymentIntent
}
