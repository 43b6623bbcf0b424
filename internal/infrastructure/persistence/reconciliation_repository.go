package persistence

import (
	"context"

	"github.com/teasupply/backend/internal/domain/payment"
	"github.com/teasupply/backend/internal/domain/supply"
	"gorm.io/gorm"
)

// GormReconciliationRepository implements ReconciliationRepository using GORM.
// It serves the two sides of the unified ledger: real payment rows and
// supply records that no payment row references.
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

type paymentRow struct {
	payment.Payment
	SupplierName string
}

type supplyRecordRow struct {
	supply.SupplyRecord
	SupplierName string
}

// ListRealPayments returns ledger entries for real payment transactions
func (r *GormReconciliationRepository) ListRealPayments(ctx context.Context, filter payment.ListFilter) ([]payment.LedgerEntry, error) {
	var rows []paymentRow
	query := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Select("payments.*, suppliers.name AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = payments.supplier_id")
	query = applyPaymentSideFilter(query, filter)

	if err := query.Order("payments.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]payment.LedgerEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, payment.EntryFromPayment(&rows[i].Payment, rows[i].SupplierName))
	}
	return entries, nil
}

// ListUnbilledSupplyRecords returns ledger entries synthesized from supply
// records with no payment row at all. The NOT EXISTS exclusion guarantees a
// record never appears on both sides of the merged view.
func (r *GormReconciliationRepository) ListUnbilledSupplyRecords(ctx context.Context, filter payment.ListFilter) ([]payment.LedgerEntry, error) {
	var rows []supplyRecordRow
	query := r.db.WithContext(ctx).Model(&supply.SupplyRecord{}).
		Select("supply_records.*, suppliers.name AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = supply_records.supplier_id").
		Where("NOT EXISTS (SELECT 1 FROM payments p WHERE p.supply_record_id = supply_records.id)")
	query = applySupplySideFilter(query, filter)

	if err := query.Order("supply_records.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]payment.LedgerEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, payment.EntryFromSupplyRecord(&rows[i].SupplyRecord, rows[i].SupplierName))
	}
	return entries, nil
}

// PaymentAggregates computes per-status counts and sums over real payment rows
func (r *GormReconciliationRepository) PaymentAggregates(ctx context.Context, filter payment.ListFilter) (payment.PaymentAggregates, error) {
	var agg payment.PaymentAggregates
	query := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Joins("LEFT JOIN suppliers ON suppliers.id = payments.supplier_id").
		Select(`
			COUNT(*) FILTER (WHERE payments.status = 'completed') AS completed_count,
			COALESCE(SUM(payments.amount) FILTER (WHERE payments.status = 'completed'), 0) AS completed_amount,
			COUNT(*) FILTER (WHERE payments.status = 'pending') AS pending_count,
			COALESCE(SUM(payments.amount) FILTER (WHERE payments.status = 'pending'), 0) AS pending_amount,
			COUNT(*) FILTER (WHERE payments.status = 'failed') AS failed_count,
			COALESCE(SUM(payments.amount) FILTER (WHERE payments.status = 'failed'), 0) AS failed_amount`)
	query = applyPaymentSideFilter(query, filter)

	if err := query.Scan(&agg).Error; err != nil {
		return payment.PaymentAggregates{}, err
	}
	return agg, nil
}

// SupplyAggregates computes counts and sums over supply records with no
// payment row, split by their payment status
func (r *GormReconciliationRepository) SupplyAggregates(ctx context.Context, filter payment.ListFilter) (payment.SupplyAggregates, error) {
	var agg payment.SupplyAggregates
	query := r.db.WithContext(ctx).Model(&supply.SupplyRecord{}).
		Joins("LEFT JOIN suppliers ON suppliers.id = supply_records.supplier_id").
		Where("NOT EXISTS (SELECT 1 FROM payments p WHERE p.supply_record_id = supply_records.id)").
		Select(`
			COUNT(*) FILTER (WHERE supply_records.payment_status <> 'paid') AS unpaid_count,
			COALESCE(SUM(supply_records.total_payment) FILTER (WHERE supply_records.payment_status <> 'paid'), 0) AS unpaid_amount,
			COUNT(*) FILTER (WHERE supply_records.payment_status = 'paid') AS paid_without_payment_count,
			COALESCE(SUM(supply_records.total_payment) FILTER (WHERE supply_records.payment_status = 'paid'), 0) AS paid_without_payment_amount`)
	query = applySupplySideFilter(query, filter)

	if err := query.Scan(&agg).Error; err != nil {
		return payment.SupplyAggregates{}, err
	}
	return agg, nil
}

func applyPaymentSideFilter(query *gorm.DB, filter payment.ListFilter) *gorm.DB {
	if filter.SupplierID != nil {
		query = query.Where("payments.supplier_id = ?", *filter.SupplierID)
	}
	if filter.DateFrom != nil {
		query = query.Where("payments.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payments.created_at <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("payments.payment_id ILIKE ? OR suppliers.name ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

func applySupplySideFilter(query *gorm.DB, filter payment.ListFilter) *gorm.DB {
	if filter.SupplierID != nil {
		query = query.Where("supply_records.supplier_id = ?", *filter.SupplierID)
	}
	if filter.DateFrom != nil {
		query = query.Where("supply_records.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("supply_records.created_at <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("supply_records.record_number ILIKE ? OR suppliers.name ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormReconciliationRepository implements ReconciliationRepository
var _ payment.ReconciliationRepository = (*GormReconciliationRepository)(nil)
