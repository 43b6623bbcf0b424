package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/teasupply/backend/internal/domain/partner"
)

// CreateSupplierRequest represents a supplier creation request
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=30"`
	Email       string `json:"email" binding:"omitempty,email"`
	BankName    string `json:"bank_name" binding:"omitempty,max=100"`
	BankAccount string `json:"bank_account" binding:"omitempty,max=50"`
	Notes       string `json:"notes" binding:"omitempty,max=500"`
}

// UpdateSupplierRequest represents a partial supplier profile edit
type UpdateSupplierRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Email       *string `json:"email" binding:"omitempty,email"`
	BankName    *string `json:"bank_name" binding:"omitempty,max=100"`
	BankAccount *string `json:"bank_account" binding:"omitempty,max=50"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
}

// SupplierListFilter represents filter options for supplier lists
type SupplierListFilter struct {
	Status   *string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search   string  `form:"search"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	PageSize int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SupplierResponse represents a supplier in API responses. The bank account
// is masked; only the full-detail read returns it in clear.
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	BankName    string    `json:"bank_name,omitempty"`
	BankAccount string    `json:"bank_account,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to a masked response
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	response := toSupplierResponse(s)
	response.BankAccount = s.MaskedBankAccount()
	return response
}

// ToSupplierDetailResponse converts a domain supplier without masking
func ToSupplierDetailResponse(s *partner.Supplier) SupplierResponse {
	return toSupplierResponse(s)
}

func toSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Phone:       s.Phone,
		Email:       s.Email,
		BankName:    s.BankName,
		BankAccount: s.BankAccount,
		Status:      string(s.Status),
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of domain suppliers, masked
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
