package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/domain/supply"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplyRecordRepository implements SupplyRecordRepository using GORM
type GormSupplyRecordRepository struct {
	db *gorm.DB
}

// NewGormSupplyRecordRepository creates a new GormSupplyRecordRepository
func NewGormSupplyRecordRepository(db *gorm.DB) *GormSupplyRecordRepository {
	return &GormSupplyRecordRepository{db: db}
}

// FindByID finds a supply record by its ID
func (r *GormSupplyRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.SupplyRecord, error) {
	var record supply.SupplyRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByRecordNumber finds a supply record by its business number
func (r *GormSupplyRecordRepository) FindByRecordNumber(ctx context.Context, recordNumber string) (*supply.SupplyRecord, error) {
	var record supply.SupplyRecord
	if err := r.db.WithContext(ctx).
		Where("record_number = ?", recordNumber).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds all supply records matching the filter
func (r *GormSupplyRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supply.SupplyRecord, error) {
	var records []supply.SupplyRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&supply.SupplyRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindBySupplier finds supply records for a specific supplier
func (r *GormSupplyRecordRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]supply.SupplyRecord, error) {
	var records []supply.SupplyRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&supply.SupplyRecord{}).
			Where("supplier_id = ?", supplierID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAvailableFIFO returns records with remaining quantity, oldest first.
// Rows are selected FOR UPDATE so a concurrent allocation running in its
// own transaction blocks until this one commits.
func (r *GormSupplyRecordRepository) FindAvailableFIFO(ctx context.Context) ([]supply.SupplyRecord, error) {
	var records []supply.SupplyRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("remaining_kg > 0").
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// TotalRemaining sums remaining quantity across all records
func (r *GormSupplyRecordRepository) TotalRemaining(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&supply.SupplyRecord{}).
		Select("COALESCE(SUM(remaining_kg), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ExistsByRecordNumber checks whether a record number is already taken
func (r *GormSupplyRecordRepository) ExistsByRecordNumber(ctx context.Context, recordNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&supply.SupplyRecord{}).
		Where("record_number = ?", recordNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a supply record, creating or updating as needed
func (r *GormSupplyRecordRepository) Save(ctx context.Context, record *supply.SupplyRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a supply record by ID
func (r *GormSupplyRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&supply.SupplyRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts supply records matching the filter
func (r *GormSupplyRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&supply.SupplyRecord{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSupplyRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

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

func (r *GormSupplyRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("record_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "date_from":
			query = query.Where("supply_date >= ?", value)
		case "date_to":
			query = query.Where("supply_date <= ?", value)
		case "has_remaining":
			if value == true {
				query = query.Where("remaining_kg > 0")
			}
		}
	}

	return query
}

// Ensure GormSupplyRecordRepository implements SupplyRecordRepository
var _ supply.SupplyRecordRepository = (*GormSupplyRecordRepository)(nil)
