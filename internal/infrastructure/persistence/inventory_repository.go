package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/inventory"
	"github.com/teasupply/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryLotRepository implements InventoryLotRepository using GORM
type GormInventoryLotRepository struct {
	db *gorm.DB
}

// NewGormInventoryLotRepository creates a new GormInventoryLotRepository
func NewGormInventoryLotRepository(db *gorm.DB) *GormInventoryLotRepository {
	return &GormInventoryLotRepository{db: db}
}

// FindByID finds an inventory lot by its ID
func (r *GormInventoryLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLot, error) {
	var lot inventory.InventoryLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByLotNumber finds an inventory lot by its business number
func (r *GormInventoryLotRepository) FindByLotNumber(ctx context.Context, lotNumber string) (*inventory.InventoryLot, error) {
	var lot inventory.InventoryLot
	if err := r.db.WithContext(ctx).
		Where("lot_number = ?", lotNumber).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindAll finds all inventory lots matching the filter
func (r *GormInventoryLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLot, error) {
	var lots []inventory.InventoryLot
	query := applyListFilter(r.db.WithContext(ctx).Model(&inventory.InventoryLot{}), filter)

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailableFIFO returns lots with remaining quantity, oldest first,
// selected FOR UPDATE
func (r *GormInventoryLotRepository) FindAvailableFIFO(ctx context.Context) ([]inventory.InventoryLot, error) {
	var lots []inventory.InventoryLot
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("remaining_qty > 0").
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// TotalRemaining sums remaining quantity across all lots
func (r *GormInventoryLotRepository) TotalRemaining(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryLot{}).
		Select("COALESCE(SUM(remaining_qty), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ExistsByLotNumber checks whether a lot number is already taken
func (r *GormInventoryLotRepository) ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryLot{}).
		Where("lot_number = ?", lotNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists an inventory lot
func (r *GormInventoryLotRepository) Save(ctx context.Context, lot *inventory.InventoryLot) error {
	if err := r.db.WithContext(ctx).Save(lot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Count counts inventory lots matching the filter
func (r *GormInventoryLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyListFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryLot{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormProductionRecordRepository implements ProductionRecordRepository using GORM
type GormProductionRecordRepository struct {
	db *gorm.DB
}

// NewGormProductionRecordRepository creates a new GormProductionRecordRepository
func NewGormProductionRecordRepository(db *gorm.DB) *GormProductionRecordRepository {
	return &GormProductionRecordRepository{db: db}
}

// FindByID finds a production record by its ID
func (r *GormProductionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionRecord, error) {
	var record inventory.ProductionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds all production records matching the filter
func (r *GormProductionRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ProductionRecord, error) {
	var records []inventory.ProductionRecord
	query := applyListFilter(r.db.WithContext(ctx).Model(&inventory.ProductionRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ExistsByProductionNumber checks whether a production number is already taken
func (r *GormProductionRecordRepository) ExistsByProductionNumber(ctx context.Context, productionNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.ProductionRecord{}).
		Where("production_number = ?", productionNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a production record
func (r *GormProductionRecordRepository) Save(ctx context.Context, record *inventory.ProductionRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Count counts production records matching the filter
func (r *GormProductionRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyListFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.ProductionRecord{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyListFilter applies pagination, ordering and the date-range filters
// shared by the inventory queries
func applyListFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyListFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyListFilterWithoutPagination applies the date-range and remaining
// filters shared by the inventory list and count queries
func applyListFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at <= ?", value)
		case "has_remaining":
			if value == true {
				query = query.Where("remaining_qty > 0")
			}
		}
	}

	return query
}

// Ensure implementations satisfy the repository interfaces
var (
	_ inventory.InventoryLotRepository     = (*GormInventoryLotRepository)(nil)
	_ inventory.ProductionRecordRepository = (*GormProductionRecordRepository)(nil)
)
