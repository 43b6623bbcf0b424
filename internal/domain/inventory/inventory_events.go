package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInventoryLot     = "InventoryLot"
	AggregateTypeProductionRecord = "ProductionRecord"
)

// Event type constants
const (
	EventTypeInventoryLotCreated     = "InventoryLotCreated"
	EventTypeInventoryLotUpdated     = "InventoryLotUpdated"
	EventTypeInventoryQtyDeducted    = "InventoryQuantityDeducted"
	EventTypeProductionRecordCreated = "ProductionRecordCreated"
)

// InventoryLotCreatedEvent is published when a lot allocation succeeds
type InventoryLotCreatedEvent struct {
	shared.BaseDomainEvent
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewInventoryLotCreatedEvent creates a new InventoryLotCreatedEvent
func NewInventoryLotCreatedEvent(lot *InventoryLot) *InventoryLotCreatedEvent {
	return &InventoryLotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryLotCreated, AggregateTypeInventoryLot, lot.ID),
		LotNumber:       lot.LotNumber,
		Quantity:        lot.Quantity,
	}
}

// InventoryLotUpdatedEvent is published when a lot is edited within its window
type InventoryLotUpdatedEvent struct {
	shared.BaseDomainEvent
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewInventoryLotUpdatedEvent creates a new InventoryLotUpdatedEvent
func NewInventoryLotUpdatedEvent(lot *InventoryLot) *InventoryLotUpdatedEvent {
	return &InventoryLotUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryLotUpdated, AggregateTypeInventoryLot, lot.ID),
		LotNumber:       lot.LotNumber,
		Quantity:        lot.Quantity,
	}
}

// InventoryQuantityDeductedEvent is published when production drains a lot
type InventoryQuantityDeductedEvent struct {
	shared.BaseDomainEvent
	LotNumber    string          `json:"lot_number"`
	Deducted     decimal.Decimal `json:"deducted"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
}

// NewInventoryQuantityDeductedEvent creates a new InventoryQuantityDeductedEvent
func NewInventoryQuantityDeductedEvent(lot *InventoryLot, deducted decimal.Decimal) *InventoryQuantityDeductedEvent {
	return &InventoryQuantityDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryQtyDeducted, AggregateTypeInventoryLot, lot.ID),
		LotNumber:       lot.LotNumber,
		Deducted:        deducted,
		RemainingQty:    lot.RemainingQty,
	}
}

// ProductionRecordCreatedEvent is published when a production run is recorded
type ProductionRecordCreatedEvent struct {
	shared.BaseDomainEvent
	ProductionNumber string          `json:"production_number"`
	Quantity         decimal.Decimal `json:"quantity"`
}

// NewProductionRecordCreatedEvent creates a new ProductionRecordCreatedEvent
func NewProductionRecordCreatedEvent(record *ProductionRecord) *ProductionRecordCreatedEvent {
	return &ProductionRecordCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeProductionRecordCreated, AggregateTypeProductionRecord, record.ID),
		ProductionNumber: record.ProductionNumber,
		Quantity:         record.Quantity,
	}
}
