package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/seatwiselabs/seatwise/app/models"
	"github.com/stripe/stripe-go/v76/client"
	"gorm.io/gorm"
)

// Service reconciles the local ledger with processor webhook events and
// initiates checkouts. The processor client is injected at bootstrap; it is
// only touched by the checkout paths, never by reconciliation.
type Service struct {
	repo   Repository
	stripe *client.API
}

// NewService creates a billing service from an injected repository and
// processor client.
func NewService(repo Repository, stripeClient *client.API) *Service {
	return &Service{repo: repo, stripe: stripeClient}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, stripeClient *client.API) *Service {
	return NewService(NewRepository(db), stripeClient)
}

// RecordWebhookEvent persists a delivery idempotently. The bool reports
// whether this call created the row; false means the event id was already
// seen and the caller must acknowledge without running any handler.
func (s *Service) RecordWebhookEvent(ctx context.Context, in InboundEvent) (bool, *models.WebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.ID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.Payload))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		StripeEventID: eventID,
		EventType:     strings.TrimSpace(in.Type),
		PayloadJSON:   in.Payload,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// ProcessEvent dispatches a freshly recorded event to its handler and writes
// the outcome back onto the WebhookEvent row. A failed handler leaves the
// event recorded as failed; nothing retries it automatically.
func (s *Service) ProcessEvent(ctx context.Context, eventID uint, in InboundEvent) Outcome {
	out := s.dispatch(ctx, in)
	if err := s.repo.MarkWebhookProcessed(eventID, out.Processed(), out.Result(), out.ErrorMessage()); err != nil {
		return Failed(err)
	}
	return out
}

func (s *Service) dispatch(ctx context.Context, in InboundEvent) Outcome {
	switch ClassifyEventType(in.Type) {
	case KindSubscriptionLifecycle:
		return s.reconcileSubscription(ctx, in.Object)
	case KindInvoicePaymentSucceeded:
		return s.reconcileInvoicePayment(ctx, in.Object, true)
	case KindInvoicePaymentFailed:
		return s.reconcileInvoicePayment(ctx, in.Object, false)
	case KindChargeSucceeded:
		return s.enrichCharge(ctx, in.Object)
	default:
		return Ignored()
	}
}

func (s *Service) accountByCustomerID(customerID string) (*models.BillingAccount, Outcome) {
	account, err := s.repo.GetAccountByStripeCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, SkippedNoAccount()
		}
		return nil, Failed(err)
	}
	return account, Applied()
}
