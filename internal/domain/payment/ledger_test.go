package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/supply"
)

func realEntry(id string, age time.Duration) LedgerEntry {
	return LedgerEntry{
		Source:      SourcePayment,
		BusinessID:  id,
		Amount:      decimal.NewFromInt(100),
		Status:      StatusCompleted,
		EffectiveAt: time.Now().Add(-age),
	}
}

func syntheticEntry(id string, age time.Duration) LedgerEntry {
	return LedgerEntry{
		Source:      SourceSupplyRecord,
		BusinessID:  id,
		Amount:      decimal.NewFromInt(50),
		Status:      StatusPending,
		EffectiveAt: time.Now().Add(-age),
	}
}

func TestMergeEntries(t *testing.T) {
	t.Run("should interleave both sources newest first", func(t *testing.T) {
		real := []LedgerEntry{realEntry("PAY_1_001", 3*time.Hour), realEntry("PAY_1_002", 1*time.Hour)}
		synthetic := []LedgerEntry{syntheticEntry("SUP-20260314-0900", 2*time.Hour)}

		merged := MergeEntries(real, synthetic, 0)

		require.Len(t, merged, 3)
		assert.Equal(t, "PAY_1_002", merged[0].BusinessID)
		assert.Equal(t, "SUP-20260314-0900", merged[1].BusinessID)
		assert.Equal(t, "PAY_1_001", merged[2].BusinessID)
	})

	t.Run("should apply the limit after sorting", func(t *testing.T) {
		real := []LedgerEntry{realEntry("PAY_1_001", 3*time.Hour)}
		synthetic := []LedgerEntry{
			syntheticEntry("SUP-A", 1*time.Hour),
			syntheticEntry("SUP-B", 2*time.Hour),
		}

		merged := MergeEntries(real, synthetic, 2)

		require.Len(t, merged, 2)
		assert.Equal(t, "SUP-A", merged[0].BusinessID)
		assert.Equal(t, "SUP-B", merged[1].BusinessID)
	})

	t.Run("should handle empty inputs", func(t *testing.T) {
		assert.Empty(t, MergeEntries(nil, nil, 10))
	})
}

func TestEntryFromSupplyRecord(t *testing.T) {
	newRecord := func(t *testing.T, status supply.PaymentStatus) *supply.SupplyRecord {
		t.Helper()
		r, err := supply.NewSupplyRecord("SUP-20260314-0926", uuid.New(),
			decimal.NewFromInt(10), decimal.NewFromInt(5),
			supply.PaymentMethodMonthly, status, time.Now(), "")
		require.NoError(t, err)
		return r
	}

	t.Run("should synthesize unpaid records as pending", func(t *testing.T) {
		entry := EntryFromSupplyRecord(newRecord(t, supply.PaymentStatusUnpaid), "Chen Farm")

		assert.Equal(t, SourceSupplyRecord, entry.Source)
		assert.Equal(t, StatusPending, entry.Status)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(50)), "amount is the record total payment")
		assert.Equal(t, "Chen Farm", entry.SupplierName)
	})

	t.Run("should synthesize paid records as completed", func(t *testing.T) {
		entry := EntryFromSupplyRecord(newRecord(t, supply.PaymentStatusPaid), "")

		assert.Equal(t, StatusCompleted, entry.Status)
	})
}

func TestEntryFromPayment(t *testing.T) {
	t.Run("should prefer PaidAt as the effective timestamp", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.TransitionTo(StatusCompleted, nil))

		entry := EntryFromPayment(p, "Chen Farm")

		assert.Equal(t, SourcePayment, entry.Source)
		assert.Equal(t, *p.PaidAt, entry.EffectiveAt)
	})

	t.Run("should fall back to CreatedAt while pending", func(t *testing.T) {
		p := newTestPayment(t)

		entry := EntryFromPayment(p, "")

		assert.Equal(t, p.CreatedAt, entry.EffectiveAt)
	})
}

func TestMergeStatistics(t *testing.T) {
	t.Run("should add unbilled supply records into pending and completed", func(t *testing.T) {
		p := PaymentAggregates{
			CompletedCount: 4, CompletedAmount: decimal.NewFromInt(400),
			PendingCount: 1, PendingAmount: decimal.NewFromInt(50),
			FailedCount: 2, FailedAmount: decimal.NewFromInt(30),
		}
		s := SupplyAggregates{
			UnpaidCount: 3, UnpaidAmount: decimal.NewFromInt(120),
			PaidWithoutPaymentCount: 1, PaidWithoutPaymentAmount: decimal.NewFromInt(60),
		}

		stats := MergeStatistics(p, s)

		assert.Equal(t, int64(5), stats.CompletedCount)
		assert.True(t, stats.CompletedAmount.Equal(decimal.NewFromInt(460)))
		assert.Equal(t, int64(4), stats.PendingCount)
		assert.True(t, stats.PendingAmount.Equal(decimal.NewFromInt(170)))
		assert.Equal(t, int64(2), stats.FailedCount)
		assert.Equal(t, int64(11), stats.TotalCount)
	})

	t.Run("should average over real completed payments only", func(t *testing.T) {
		p := PaymentAggregates{CompletedCount: 3, CompletedAmount: decimal.NewFromInt(100)}
		s := SupplyAggregates{PaidWithoutPaymentCount: 5, PaidWithoutPaymentAmount: decimal.NewFromInt(500)}

		stats := MergeStatistics(p, s)

		assert.True(t, stats.AverageCompleted.Equal(decimal.NewFromFloat(33.33)),
			"expected 33.33, got %s", stats.AverageCompleted)
	})

	t.Run("should leave the average zero with no completed payments", func(t *testing.T) {
		stats := MergeStatistics(PaymentAggregates{}, SupplyAggregates{UnpaidCount: 2, UnpaidAmount: decimal.NewFromInt(10)})

		assert.True(t, stats.AverageCompleted.IsZero())
	})
}
