package payment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// PaymentStatus represents the lifecycle state of a payment transaction
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusCancelled PaymentStatus = "cancelled"
	StatusRefunded  PaymentStatus = "refunded"
)

// IsValid checks whether the status is one of the known lifecycle states
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// validTransitions maps each status to the statuses it may move to.
// Payments are never deleted; terminal states only transition to refunded
// where the gateway supports it.
var validTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:   {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// Payment is an explicit payment transaction tied to exactly one supply
// record. At most one completed payment may reference a given record.
type Payment struct {
	shared.BaseAggregateRoot
	PaymentID      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplyRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency       string          `gorm:"type:varchar(8);not null;default:'CNY'"`
	PaymentMethod  string          `gorm:"type:varchar(32);not null"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;index"`
	GatewayFields  string          `gorm:"type:jsonb"` // Opaque provider metadata
	PaidAt         *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment in pending state
func NewPayment(paymentID string, supplyRecordID, supplierID uuid.UUID, amount decimal.Decimal, currency, method string) (*Payment, error) {
	if paymentID == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_ID", "Payment ID cannot be empty")
	}
	if supplyRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLY_RECORD", "Supply record reference cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if currency == "" {
		currency = "CNY"
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentID:         paymentID,
		SupplyRecordID:    supplyRecordID,
		SupplierID:        supplierID,
		Amount:            amount,
		Currency:          currency,
		PaymentMethod:     method,
		Status:            StatusPending,
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))

	return p, nil
}

// CanTransitionTo checks whether the payment may move to the target status
func (p *Payment) CanTransitionTo(target PaymentStatus) bool {
	for _, allowed := range validTransitions[p.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the payment to the target status, recording gateway
// metadata when provided. Completed payments stamp PaidAt.
func (p *Payment) TransitionTo(target PaymentStatus, gatewayMeta map[string]any) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+string(target))
	}
	if target == p.Status {
		return nil
	}
	if !p.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition payment from "+string(p.Status)+" to "+string(target))
	}

	from := p.Status
	p.Status = target
	if target == StatusCompleted {
		now := time.Now()
		p.PaidAt = &now
	}
	if gatewayMeta != nil {
		if err := p.SetGatewayFields(gatewayMeta); err != nil {
			return err
		}
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, from))

	return nil
}

// SetGatewayFields stores provider metadata as JSON
func (p *Payment) SetGatewayFields(meta map[string]any) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return shared.NewDomainError("INVALID_GATEWAY_FIELDS", "Gateway metadata is not serializable")
	}
	p.GatewayFields = string(raw)
	return nil
}

// GetGatewayFields decodes the stored provider metadata
func (p *Payment) GetGatewayFields() (map[string]any, error) {
	if p.GatewayFields == "" {
		return map[string]any{}, nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(p.GatewayFields), &meta); err != nil {
		return nil, shared.NewDomainError("INVALID_GATEWAY_FIELDS", "Stored gateway metadata is corrupt")
	}
	return meta, nil
}

// IsCompleted reports whether the payment settled successfully
func (p *Payment) IsCompleted() bool {
	return p.Status == StatusCompleted
}
