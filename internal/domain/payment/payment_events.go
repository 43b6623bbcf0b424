package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// AggregateTypePayment is the aggregate type for payment events
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentCreated       = "PaymentCreated"
	EventTypePaymentStatusChanged = "PaymentStatusChanged"
)

// PaymentCreatedEvent is published when a payment transaction is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID      string          `json:"payment_id"`
	SupplyRecordID uuid.UUID       `json:"supply_record_id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, AggregateTypePayment, p.ID),
		PaymentID:       p.PaymentID,
		SupplyRecordID:  p.SupplyRecordID,
		SupplierID:      p.SupplierID,
		Amount:          p.Amount,
	}
}

// PaymentStatusChangedEvent is published when a payment moves between
// lifecycle states
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	PaymentID  string        `json:"payment_id"`
	FromStatus PaymentStatus `json:"from_status"`
	ToStatus   PaymentStatus `json:"to_status"`
}

// NewPaymentStatusChangedEvent creates a new PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(p *Payment, from PaymentStatus) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentStatusChanged, AggregateTypePayment, p.ID),
		PaymentID:       p.PaymentID,
		FromStatus:      from,
		ToStatus:        p.Status,
	}
}
