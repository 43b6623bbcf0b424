package supply

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// Aggregate type constant for SupplyRecord
const AggregateTypeSupplyRecord = "SupplyRecord"

// Event type constants for SupplyRecord
const (
	EventTypeSupplyRecordCreated       = "SupplyRecordCreated"
	EventTypeSupplyRecordUpdated       = "SupplyRecordUpdated"
	EventTypeSupplyRecordDeleted       = "SupplyRecordDeleted"
	EventTypeSupplyQuantityDeducted    = "SupplyQuantityDeducted"
	EventTypeSupplyPaymentStatusChange = "SupplyPaymentStatusChanged"
)

// SupplyRecordCreatedEvent is published when a supplier submits a delivery
type SupplyRecordCreatedEvent struct {
	shared.BaseDomainEvent
	RecordNumber string          `json:"record_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}

// NewSupplyRecordCreatedEvent creates a new SupplyRecordCreatedEvent
func NewSupplyRecordCreatedEvent(record *SupplyRecord) *SupplyRecordCreatedEvent {
	return &SupplyRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyRecordCreated, AggregateTypeSupplyRecord, record.ID),
		RecordNumber:    record.RecordNumber,
		SupplierID:      record.SupplierID,
		QuantityKg:      record.QuantityKg,
		TotalPayment:    record.TotalPayment,
	}
}

// SupplyRecordUpdatedEvent is published when an owner edit succeeds
type SupplyRecordUpdatedEvent struct {
	shared.BaseDomainEvent
	RecordNumber string          `json:"record_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}

// NewSupplyRecordUpdatedEvent creates a new SupplyRecordUpdatedEvent
func NewSupplyRecordUpdatedEvent(record *SupplyRecord) *SupplyRecordUpdatedEvent {
	return &SupplyRecordUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyRecordUpdated, AggregateTypeSupplyRecord, record.ID),
		RecordNumber:    record.RecordNumber,
		SupplierID:      record.SupplierID,
		QuantityKg:      record.QuantityKg,
		TotalPayment:    record.TotalPayment,
	}
}

// SupplyRecordDeletedEvent is published when a record is deleted within
// its edit window
type SupplyRecordDeletedEvent struct {
	shared.BaseDomainEvent
	RecordNumber string    `json:"record_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
}

// NewSupplyRecordDeletedEvent creates a new SupplyRecordDeletedEvent
func NewSupplyRecordDeletedEvent(record *SupplyRecord) *SupplyRecordDeletedEvent {
	return &SupplyRecordDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyRecordDeleted, AggregateTypeSupplyRecord, record.ID),
		RecordNumber:    record.RecordNumber,
		SupplierID:      record.SupplierID,
	}
}

// SupplyQuantityDeductedEvent is published when lot allocation drains quantity
type SupplyQuantityDeductedEvent struct {
	shared.BaseDomainEvent
	RecordNumber string          `json:"record_number"`
	Deducted     decimal.Decimal `json:"deducted"`
	RemainingKg  decimal.Decimal `json:"remaining_kg"`
}

// NewSupplyQuantityDeductedEvent creates a new SupplyQuantityDeductedEvent
func NewSupplyQuantityDeductedEvent(record *SupplyRecord, deducted decimal.Decimal) *SupplyQuantityDeductedEvent {
	return &SupplyQuantityDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyQuantityDeducted, AggregateTypeSupplyRecord, record.ID),
		RecordNumber:    record.RecordNumber,
		Deducted:        deducted,
		RemainingKg:     record.RemainingKg,
	}
}

// SupplyPaymentStatusChangedEvent is published on settlement transitions
type SupplyPaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	RecordNumber string        `json:"record_number"`
	SupplierID   uuid.UUID     `json:"supplier_id"`
	OldStatus    PaymentStatus `json:"old_status"`
	NewStatus    PaymentStatus `json:"new_status"`
}

// NewSupplyPaymentStatusChangedEvent creates a new SupplyPaymentStatusChangedEvent
func NewSupplyPaymentStatusChangedEvent(record *SupplyRecord, oldStatus, newStatus PaymentStatus) *SupplyPaymentStatusChangedEvent {
	return &SupplyPaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyPaymentStatusChange, AggregateTypeSupplyRecord, record.ID),
		RecordNumber:    record.RecordNumber,
		SupplierID:      record.SupplierID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
