package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/inventory"
)

// CreateInventoryLotRequest represents a lot allocation request
type CreateInventoryLotRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// UpdateInventoryLotRequest represents a window-gated lot edit
type UpdateInventoryLotRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// CreateProductionRecordRequest represents a production run
type CreateProductionRecordRequest struct {
	Quantity       float64   `json:"quantity" binding:"required,gt=0"`
	ProductionDate time.Time `json:"production_date"`
	ProductionTime string    `json:"production_time" binding:"omitempty,len=5"`
}

// ListFilter represents pagination options for stock listings
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
}

// DeductionResponse describes one applied FIFO take, for audit trails
type DeductionResponse struct {
	SourceNumber   string          `json:"source_number"`
	Amount         decimal.Decimal `json:"amount"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
}

// InventoryLotResponse represents an inventory lot in API responses
type InventoryLotResponse struct {
	ID           uuid.UUID           `json:"id"`
	LotNumber    string              `json:"lot_number"`
	Quantity     decimal.Decimal     `json:"quantity"`
	RemainingQty decimal.Decimal     `json:"remaining_qty"`
	Editable     bool                `json:"editable"`
	Deductions   []DeductionResponse `json:"deductions,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ToInventoryLotResponse converts a domain lot to a response
func ToInventoryLotResponse(lot *inventory.InventoryLot) InventoryLotResponse {
	return InventoryLotResponse{
		ID:           lot.ID,
		LotNumber:    lot.LotNumber,
		Quantity:     lot.Quantity,
		RemainingQty: lot.RemainingQty,
		Editable:     lot.WithinEditWindow(time.Now()),
		CreatedAt:    lot.CreatedAt,
		UpdatedAt:    lot.UpdatedAt,
	}
}

// ToInventoryLotResponses converts a slice of domain lots
func ToInventoryLotResponses(lots []inventory.InventoryLot) []InventoryLotResponse {
	responses := make([]InventoryLotResponse, len(lots))
	for i := range lots {
		responses[i] = ToInventoryLotResponse(&lots[i])
	}
	return responses
}

// ProductionRecordResponse represents a production record in API responses
type ProductionRecordResponse struct {
	ID               uuid.UUID           `json:"id"`
	ProductionNumber string              `json:"production_number"`
	Quantity         decimal.Decimal     `json:"quantity"`
	ProductionDate   time.Time           `json:"production_date"`
	ProductionTime   string              `json:"production_time"`
	Deductions       []DeductionResponse `json:"deductions,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ToProductionRecordResponse converts a domain production record to a response
func ToProductionRecordResponse(record *inventory.ProductionRecord) ProductionRecordResponse {
	return ProductionRecordResponse{
		ID:               record.ID,
		ProductionNumber: record.ProductionNumber,
		Quantity:         record.Quantity,
		ProductionDate:   record.ProductionDate,
		ProductionTime:   record.ProductionTime,
		CreatedAt:        record.CreatedAt,
	}
}

// ToProductionRecordResponses converts a slice of domain production records
func ToProductionRecordResponses(records []inventory.ProductionRecord) []ProductionRecordResponse {
	responses := make([]ProductionRecordResponse, len(records))
	for i := range records {
		responses[i] = ToProductionRecordResponse(&records[i])
	}
	return responses
}

// StockSummaryResponse reports the two pool totals
type StockSummaryResponse struct {
	SupplyAvailable    decimal.Decimal `json:"supply_available"`
	InventoryAvailable decimal.Decimal `json:"inventory_available"`
}
