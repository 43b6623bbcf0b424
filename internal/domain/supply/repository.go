package supply

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// SupplyRecordRepository defines the persistence operations for supply records
type SupplyRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupplyRecord, error)
	FindByRecordNumber(ctx context.Context, recordNumber string) (*SupplyRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SupplyRecord, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]SupplyRecord, error)

	// FindAvailableFIFO returns records with remaining quantity, ordered by
	// created_at ascending. Inside a transaction scope the rows are loaded
	// with row-level locks so a concurrent allocation cannot drain them
	// between the availability check and the deduction.
	FindAvailableFIFO(ctx context.Context) ([]SupplyRecord, error)

	// TotalRemaining sums remaining quantity across all records
	TotalRemaining(ctx context.Context) (decimal.Decimal, error)

	ExistsByRecordNumber(ctx context.Context, recordNumber string) (bool, error)

	Save(ctx context.Context, record *SupplyRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
