package supply

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/supply"
)

// CreateSupplyRecordRequest represents a supply record creation request
type CreateSupplyRecordRequest struct {
	SupplierID    uuid.UUID `json:"supplier_id" binding:"required"`
	QuantityKg    float64   `json:"quantity_kg" binding:"required,gt=0"`
	UnitPrice     float64   `json:"unit_price" binding:"required,gt=0"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=spot monthly"`
	PaymentStatus string    `json:"payment_status" binding:"omitempty,oneof=unpaid paid"`
	SupplyDate    time.Time `json:"supply_date"`
	Notes         string    `json:"notes" binding:"max=500"`
}

// UpdateSupplyRecordRequest represents a partial supply record edit.
// Nil fields are left untouched; the total payment is always recomputed
// server-side when quantity or price change.
type UpdateSupplyRecordRequest struct {
	QuantityKg    *float64   `json:"quantity_kg" binding:"omitempty,gt=0"`
	UnitPrice     *float64   `json:"unit_price" binding:"omitempty,gt=0"`
	PaymentMethod *string    `json:"payment_method" binding:"omitempty,oneof=spot monthly"`
	SupplyDate    *time.Time `json:"supply_date"`
	Notes         *string    `json:"notes" binding:"omitempty,max=500"`
}

// SupplyRecordListFilter represents filter options for supply record lists
type SupplyRecordListFilter struct {
	SupplierID    *uuid.UUID `form:"supplier_id"`
	PaymentStatus *string    `form:"payment_status" binding:"omitempty,oneof=unpaid paid"`
	DateFrom      *time.Time `form:"date_from"`
	DateTo        *time.Time `form:"date_to"`
	Search        string     `form:"search"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SupplyRecordResponse represents a supply record in API responses
type SupplyRecordResponse struct {
	ID            uuid.UUID       `json:"id"`
	RecordNumber  string          `json:"record_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	QuantityKg    decimal.Decimal `json:"quantity_kg"`
	RemainingKg   decimal.Decimal `json:"remaining_kg"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	SupplyDate    time.Time       `json:"supply_date"`
	Notes         string          `json:"notes,omitempty"`
	Editable      bool            `json:"editable"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToSupplyRecordResponse converts a domain supply record to a response
func ToSupplyRecordResponse(r *supply.SupplyRecord) SupplyRecordResponse {
	return SupplyRecordResponse{
		ID:            r.ID,
		RecordNumber:  r.RecordNumber,
		SupplierID:    r.SupplierID,
		QuantityKg:    r.QuantityKg,
		RemainingKg:   r.RemainingKg,
		UnitPrice:     r.UnitPrice,
		TotalPayment:  r.TotalPayment,
		PaymentMethod: string(r.PaymentMethod),
		PaymentStatus: string(r.PaymentStatus),
		SupplyDate:    r.SupplyDate,
		Notes:         r.Notes,
		Editable:      r.WithinEditWindow(time.Now()),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToSupplyRecordResponses converts a slice of domain records
func ToSupplyRecordResponses(records []supply.SupplyRecord) []SupplyRecordResponse {
	responses := make([]SupplyRecordResponse, len(records))
	for i := range records {
		responses[i] = ToSupplyRecordResponse(&records[i])
	}
	return responses
}
