package payment

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/supply"
)

// Ledger entry sources
const (
	SourcePayment      = "payment"
	SourceSupplyRecord = "supply_record"
)

// LedgerEntry is one row of the unified payment view: either a real payment
// transaction or a supply record synthesized as a pending payment.
type LedgerEntry struct {
	Source         string          `json:"source"`
	BusinessID     string          `json:"business_id"`
	SupplyRecordID uuid.UUID       `json:"supply_record_id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method"`
	Status         PaymentStatus   `json:"status"`
	EffectiveAt    time.Time       `json:"effective_at"`
}

// EntryFromPayment maps a real payment transaction into the ledger
func EntryFromPayment(p *Payment, supplierName string) LedgerEntry {
	effective := p.CreatedAt
	if p.PaidAt != nil {
		effective = *p.PaidAt
	}
	return LedgerEntry{
		Source:         SourcePayment,
		BusinessID:     p.PaymentID,
		SupplyRecordID: p.SupplyRecordID,
		SupplierID:     p.SupplierID,
		SupplierName:   supplierName,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PaymentMethod:  p.PaymentMethod,
		Status:         p.Status,
		EffectiveAt:    effective,
	}
}

// EntryFromSupplyRecord synthesizes a virtual pending payment from a supply
// record that has no payment row. Paid records map to completed, everything
// else to pending.
func EntryFromSupplyRecord(r *supply.SupplyRecord, supplierName string) LedgerEntry {
	status := StatusPending
	if r.PaymentStatus == supply.PaymentStatusPaid {
		status = StatusCompleted
	}
	return LedgerEntry{
		Source:         SourceSupplyRecord,
		BusinessID:     r.RecordNumber,
		SupplyRecordID: r.ID,
		SupplierID:     r.SupplierID,
		SupplierName:   supplierName,
		Amount:         r.TotalPayment,
		Currency:       "CNY",
		PaymentMethod:  string(r.PaymentMethod),
		Status:         status,
		EffectiveAt:    r.CreatedAt,
	}
}

// MergeEntries combines real and synthetic entries into one chronological
// view, newest first, then applies the limit. A limit of zero or less means
// no limit. Ties sort by business id for a stable order.
func MergeEntries(real, synthetic []LedgerEntry, limit int) []LedgerEntry {
	merged := make([]LedgerEntry, 0, len(real)+len(synthetic))
	merged = append(merged, real...)
	merged = append(merged, synthetic...)

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].EffectiveAt.Equal(merged[j].EffectiveAt) {
			return merged[i].EffectiveAt.After(merged[j].EffectiveAt)
		}
		return merged[i].BusinessID < merged[j].BusinessID
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// PaymentAggregates holds per-status sums computed over real payment rows
type PaymentAggregates struct {
	CompletedCount  int64           `json:"completed_count"`
	CompletedAmount decimal.Decimal `json:"completed_amount"`
	PendingCount    int64           `json:"pending_count"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	FailedCount     int64           `json:"failed_count"`
	FailedAmount    decimal.Decimal `json:"failed_amount"`
}

// SupplyAggregates holds sums over supply records with no payment row.
// Unpaid records count as pending; paid records without a payment row
// count as completed.
type SupplyAggregates struct {
	UnpaidCount              int64           `json:"unpaid_count"`
	UnpaidAmount             decimal.Decimal `json:"unpaid_amount"`
	PaidWithoutPaymentCount  int64           `json:"paid_without_payment_count"`
	PaidWithoutPaymentAmount decimal.Decimal `json:"paid_without_payment_amount"`
}

// Statistics is the merged aggregate view over payments and unbilled
// supply records
type Statistics struct {
	TotalCount      int64           `json:"total_count"`
	CompletedCount  int64           `json:"completed_count"`
	CompletedAmount decimal.Decimal `json:"completed_amount"`
	PendingCount    int64           `json:"pending_count"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	FailedCount     int64           `json:"failed_count"`
	FailedAmount    decimal.Decimal `json:"failed_amount"`
	// AverageCompleted is computed only over real completed payment rows,
	// never over synthesized entries.
	AverageCompleted decimal.Decimal `json:"average_completed"`
}

// MergeStatistics combines payment-table aggregates with unbilled
// supply-record aggregates by addition
func MergeStatistics(p PaymentAggregates, s SupplyAggregates) Statistics {
	stats := Statistics{
		CompletedCount:  p.CompletedCount + s.PaidWithoutPaymentCount,
		CompletedAmount: p.CompletedAmount.Add(s.PaidWithoutPaymentAmount),
		PendingCount:    p.PendingCount + s.UnpaidCount,
		PendingAmount:   p.PendingAmount.Add(s.UnpaidAmount),
		FailedCount:     p.FailedCount,
		FailedAmount:    p.FailedAmount,
	}
	stats.TotalCount = stats.CompletedCount + stats.PendingCount + stats.FailedCount
	if p.CompletedCount > 0 {
		stats.AverageCompleted = p.CompletedAmount.Div(decimal.NewFromInt(p.CompletedCount)).Round(2)
	}
	return stats
}
