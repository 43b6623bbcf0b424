package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// InventoryLotRepository defines the persistence operations for inventory lots
type InventoryLotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryLot, error)
	FindByLotNumber(ctx context.Context, lotNumber string) (*InventoryLot, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryLot, error)

	// FindAvailableFIFO returns lots with remaining quantity, ordered by
	// created_at ascending. Row-locked inside a transaction scope.
	FindAvailableFIFO(ctx context.Context) ([]InventoryLot, error)

	// TotalRemaining sums remaining quantity across all lots
	TotalRemaining(ctx context.Context) (decimal.Decimal, error)

	ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error)

	Save(ctx context.Context, lot *InventoryLot) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ProductionRecordRepository defines the persistence operations for
// production records
type ProductionRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionRecord, error)
	ExistsByProductionNumber(ctx context.Context, productionNumber string) (bool, error)
	Save(ctx context.Context, record *ProductionRecord) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
