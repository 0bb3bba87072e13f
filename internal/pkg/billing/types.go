package billing

import (
	"encoding/json"
	"strings"

	"github.com/seatwiselabs/seatwise/app/models"
)

// EventKind is the closed set of processor event categories this engine
// reacts to. Everything else maps to KindUnrecognized and is acknowledged
// without side effects so new processor event types never break ingestion.
type EventKind int

const (
	KindUnrecognized EventKind = iota
	KindSubscriptionLifecycle
	KindInvoicePaymentSucceeded
	KindInvoicePaymentFailed
	KindChargeSucceeded
)

// ClassifyEventType maps a processor event type string to an EventKind.
func ClassifyEventType(eventType string) EventKind {
	t := strings.ToLower(strings.TrimSpace(eventType))
	switch {
	case strings.HasPrefix(t, "customer.subscription."):
		return KindSubscriptionLifecycle
	case t == "invoice.payment_succeeded":
		return KindInvoicePaymentSucceeded
	case t == "invoice.payment_failed":
		return KindInvoicePaymentFailed
	case t == "charge.succeeded":
		return KindChargeSucceeded
	default:
		return KindUnrecognized
	}
}

// InboundEvent is a verified delivery: the processor's event id and type plus
// the raw data.object payload. Payload carries the full envelope for audit.
type InboundEvent struct {
	ID      string
	Type    string
	Object  json.RawMessage
	Payload string
}

// OutcomeCode enumerates how a handler resolved an event.
type OutcomeCode int

const (
	OutcomeApplied OutcomeCode = iota
	OutcomeSkippedNoAccount
	OutcomeSkippedIncompleteData
	OutcomeIgnored
	OutcomeFailed
)

// Outcome is the explicit result of one handler run. The dispatcher derives
// all WebhookEvent bookkeeping from it; handlers never panic their way out.
type Outcome struct {
	Code OutcomeCode
	Err  error
}

func Applied() Outcome               { return Outcome{Code: OutcomeApplied} }
func SkippedNoAccount() Outcome      { return Outcome{Code: OutcomeSkippedNoAccount} }
func SkippedIncompleteData() Outcome { return Outcome{Code: OutcomeSkippedIncompleteData} }
func Ignored() Outcome               { return Outcome{Code: OutcomeIgnored} }
func Failed(err error) Outcome       { return Outcome{Code: OutcomeFailed, Err: err} }

// Processed reports whether the event counts as handled. Skipped and ignored
// events are deliberately acknowledged as processed; only a real failure
// leaves the event unprocessed for manual replay.
func (o Outcome) Processed() bool {
	return o.Code != OutcomeFailed
}

// Result returns the persisted result label for this outcome.
func (o Outcome) Result() string {
	switch o.Code {
	case OutcomeApplied:
		return models.WebhookResultApplied
	case OutcomeSkippedNoAccount:
		return models.WebhookResultSkippedNoAccount
	case OutcomeSkippedIncompleteData:
		return models.WebhookResultSkippedIncompleteData
	case OutcomeIgnored:
		return models.WebhookResultIgnored
	default:
		return models.WebhookResultFailed
	}
}

// ErrorMessage returns the error text to persist, empty when none.
func (o Outcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
