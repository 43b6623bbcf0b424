package stock

import (
	"context"

	"github.com/teasupply/backend/internal/domain/inventory"
	"github.com/teasupply/backend/internal/domain/supply"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a FIFO
// deduction touches, all sharing one underlying transaction. The
// availability pre-check and every per-row decrement must happen through
// these, so the check and the deduction cannot be split by a concurrent
// writer.
type TransactionalRepositories interface {
	// SupplyRepo returns the supply record repository scoped to the current transaction
	SupplyRepo() supply.SupplyRecordRepository
	// LotRepo returns the inventory lot repository scoped to the current transaction
	LotRepo() inventory.InventoryLotRepository
	// ProductionRepo returns the production record repository scoped to the current transaction
	ProductionRepo() inventory.ProductionRecordRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	supplyRepo     supply.SupplyRecordRepository
	lotRepo        inventory.InventoryLotRepository
	productionRepo inventory.ProductionRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	supplyRepo supply.SupplyRecordRepository,
	lotRepo inventory.InventoryLotRepository,
	productionRepo inventory.ProductionRecordRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		supplyRepo:     supplyRepo,
		lotRepo:        lotRepo,
		productionRepo: productionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SupplyRepo returns the supply record repository
func (s *NoOpTransactionScope) SupplyRepo() supply.SupplyRecordRepository {
	return s.supplyRepo
}

// LotRepo returns the inventory lot repository
func (s *NoOpTransactionScope) LotRepo() inventory.InventoryLotRepository {
	return s.lotRepo
}

// ProductionRepo returns the production record repository
func (s *NoOpTransactionScope) ProductionRepo() inventory.ProductionRecordRepository {
	return s.productionRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
