package persistence

import (
	"context"

	appstock "github.com/teasupply/backend/internal/application/stock"
	"github.com/teasupply/backend/internal/domain/inventory"
	"github.com/teasupply/backend/internal/domain/supply"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// SupplyRepo returns the supply record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SupplyRepo() supply.SupplyRecordRepository {
	return NewGormSupplyRecordRepository(r.tx)
}

// LotRepo returns the inventory lot repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LotRepo() inventory.InventoryLotRepository {
	return NewGormInventoryLotRepository(r.tx)
}

// ProductionRepo returns the production record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductionRepo() inventory.ProductionRecordRepository {
	return NewGormProductionRecordRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
