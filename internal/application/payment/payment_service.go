package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/identifier"
	"github.com/teasupply/backend/internal/domain/payment"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/domain/supply"
	"go.uber.org/zap"
)

// WebhookDedupTTL is how long processed gateway event ids are remembered.
// Gateways redeliver within hours, not weeks.
const WebhookDedupTTL = 72 * time.Hour

// PaymentService handles payment transactions and gateway webhooks
type PaymentService struct {
	paymentRepo    payment.PaymentRepository
	supplyRepo     supply.SupplyRecordRepository
	idempotency    shared.IdempotencyStore
	generator      *identifier.Generator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	supplyRepo supply.SupplyRecordRepository,
	idempotency shared.IdempotencyStore,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		supplyRepo:  supplyRepo,
		idempotency: idempotency,
		generator: identifier.NewGenerator(identifier.ExistenceCheckerFunc(
			func(ctx context.Context, candidate string) (bool, error) {
				return paymentRepo.ExistsByPaymentID(ctx, candidate)
			},
		)),
		logger: zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for webhook processing
func (s *PaymentService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *PaymentService) publishDomainEvents(ctx context.Context, p *payment.Payment) {
	if s.eventPublisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	p.ClearDomainEvents()
}

// Create records a pending payment against a supply record. A record that
// already has a completed payment cannot take another.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	record, err := s.supplyRepo.FindByID(ctx, req.SupplyRecordID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SUPPLY_RECORD", "Supply record does not exist")
	}

	settled, err := s.paymentRepo.ExistsCompletedForSupplyRecord(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if settled {
		return nil, shared.NewDomainError("ALREADY_PAID", "Supply record already has a completed payment")
	}

	amount := record.TotalPayment
	if req.Amount != nil {
		amount = decimal.NewFromFloat(*req.Amount)
	}

	var p *payment.Payment
	err = identifier.RetryOnConflict(ctx, func(ctx context.Context) error {
		paymentID, genErr := s.generator.PaymentID(ctx)
		if genErr != nil {
			return genErr
		}

		p, genErr = payment.NewPayment(paymentID, record.ID, record.SupplierID, amount, req.Currency, req.PaymentMethod)
		if genErr != nil {
			return genErr
		}

		return s.paymentRepo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, p)

	response := ToPaymentResponse(p)
	return &response, nil
}

// UpdateStatus transitions a payment by business id. Completing a payment
// marks the underlying supply record paid.
func (s *PaymentService) UpdateStatus(ctx context.Context, paymentID string, req UpdatePaymentStatusRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	target := payment.PaymentStatus(req.Status)
	if err := p.TransitionTo(target, req.GatewayFields); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	if target == payment.StatusCompleted {
		if err := s.markSupplyRecordPaid(ctx, p.SupplyRecordID); err != nil {
			// The payment itself settled; the ledger view still shows the
			// record as paid through the payment row.
			s.logger.Error("failed to mark supply record paid after settlement",
				zap.String("payment_id", p.PaymentID),
				zap.String("supply_record_id", p.SupplyRecordID.String()),
				zap.Error(err))
		}
	}

	s.publishDomainEvents(ctx, p)

	response := ToPaymentResponse(p)
	return &response, nil
}

func (s *PaymentService) markSupplyRecordPaid(ctx context.Context, supplyRecordID uuid.UUID) error {
	record, err := s.supplyRepo.FindByID(ctx, supplyRecordID)
	if err != nil {
		return err
	}
	if err := record.SetPaymentStatus(supply.PaymentStatusPaid); err != nil {
		return err
	}
	return s.supplyRepo.Save(ctx, record)
}

// HandleWebhook processes a gateway notification exactly once. Redelivered
// events and events for payments the system never issued are acknowledged
// without reprocessing.
func (s *PaymentService) HandleWebhook(ctx context.Context, req WebhookRequest) error {
	processed, err := s.idempotency.IsProcessed(ctx, req.EventID)
	if err != nil {
		return err
	}
	if processed {
		s.logger.Info("duplicate webhook delivery ignored",
			zap.String("event_id", req.EventID),
			zap.String("payment_id", req.PaymentID))
		return nil
	}

	if _, err := s.UpdateStatus(ctx, req.PaymentID, UpdatePaymentStatusRequest{
		Status:        req.Status,
		GatewayFields: req.GatewayFields,
	}); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			// Leave the event unconsumed. The gateway redelivers and the
			// retry gets a clean attempt at the update.
			return err
		}
		// The gateway sent a payment the system never issued. Acknowledge
		// so it stops redelivering, leaving a trace for reconciliation.
		s.logger.Warn("webhook for unknown payment acknowledged",
			zap.String("event_id", req.EventID),
			zap.String("payment_id", req.PaymentID))
	}

	// Mark only after the outcome is settled. A transient failure above
	// must not consume the event.
	if _, err := s.idempotency.MarkProcessed(ctx, req.EventID, WebhookDedupTTL); err != nil {
		return err
	}
	return nil
}

// GetByPaymentID retrieves a payment by business id
func (s *PaymentService) GetByPaymentID(ctx context.Context, paymentID string) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(p)
	return &response, nil
}
