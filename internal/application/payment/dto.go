package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/payment"
)

// CreatePaymentRequest represents a direct payment creation request.
// Amount defaults to the supply record's total payment when omitted.
type CreatePaymentRequest struct {
	SupplyRecordID uuid.UUID `json:"supply_record_id" binding:"required"`
	Amount         *float64  `json:"amount" binding:"omitempty,gt=0"`
	Currency       string    `json:"currency" binding:"omitempty,len=3"`
	PaymentMethod  string    `json:"payment_method" binding:"required"`
}

// UpdatePaymentStatusRequest represents a status transition request
type UpdatePaymentStatusRequest struct {
	Status        string         `json:"status" binding:"required,oneof=pending completed failed cancelled refunded"`
	GatewayFields map[string]any `json:"gateway_fields"`
}

// WebhookRequest represents an inbound gateway notification. EventID
// deduplicates redelivered notifications.
type WebhookRequest struct {
	EventID       string         `json:"event_id" binding:"required"`
	PaymentID     string         `json:"payment_id" binding:"required"`
	Status        string         `json:"status" binding:"required,oneof=completed failed cancelled refunded"`
	GatewayFields map[string]any `json:"gateway_fields"`
}

// ListPaymentsFilter represents reconciliation query options
type ListPaymentsFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	DateFrom   *time.Time `form:"date_from"`
	DateTo     *time.Time `form:"date_to"`
	Search     string     `form:"search"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=500"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	PaymentID      string          `json:"payment_id"`
	SupplyRecordID uuid.UUID       `json:"supply_record_id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method"`
	Status         string          `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		PaymentID:      p.PaymentID,
		SupplyRecordID: p.SupplyRecordID,
		SupplierID:     p.SupplierID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PaymentMethod:  p.PaymentMethod,
		Status:         string(p.Status),
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
	}
}

func toDomainListFilter(filter ListPaymentsFilter) payment.ListFilter {
	return payment.ListFilter{
		SupplierID: filter.SupplierID,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
		Search:     filter.Search,
		Limit:      filter.Limit,
	}
}
