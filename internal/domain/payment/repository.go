package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teasupply/backend/internal/domain/shared"
)

// ListFilter narrows reconciliation queries. The same shape applies to
// payment rows (payment fields) and supply-record rows (record fields).
type ListFilter struct {
	SupplierID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string // Matches business id or supplier name
	Limit      int
}

// PaymentRepository defines the persistence operations for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	FindBySupplyRecordID(ctx context.Context, supplyRecordID uuid.UUID) ([]Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error)

	// ExistsCompletedForSupplyRecord enforces the at-most-one-completed-
	// payment rule before settling a new payment
	ExistsCompletedForSupplyRecord(ctx context.Context, supplyRecordID uuid.UUID) (bool, error)

	Save(ctx context.Context, p *Payment) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ReconciliationRepository provides the two-sided queries behind the
// unified ledger view. Unbilled supply records are those with no payment
// row referencing them at all, so a record never appears on both sides.
type ReconciliationRepository interface {
	ListRealPayments(ctx context.Context, filter ListFilter) ([]LedgerEntry, error)
	ListUnbilledSupplyRecords(ctx context.Context, filter ListFilter) ([]LedgerEntry, error)

	PaymentAggregates(ctx context.Context, filter ListFilter) (PaymentAggregates, error)
	SupplyAggregates(ctx context.Context, filter ListFilter) (SupplyAggregates, error)
}
