package supply

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/shared"
)

func newTestRecord(t *testing.T) *SupplyRecord {
	t.Helper()
	record, err := NewSupplyRecord(
		"SUP-20260314-0926",
		uuid.New(),
		decimal.NewFromInt(100),
		decimal.NewFromFloat(12.5),
		PaymentMethodSpot,
		PaymentStatusUnpaid,
		time.Now(),
		"morning pick",
	)
	require.NoError(t, err)
	return record
}

func TestNewSupplyRecord(t *testing.T) {
	t.Run("should create record with computed total payment", func(t *testing.T) {
		record := newTestRecord(t)

		assert.Equal(t, "SUP-20260314-0926", record.RecordNumber)
		assert.True(t, record.TotalPayment.Equal(decimal.NewFromFloat(1250)))
		assert.True(t, record.RemainingKg.Equal(record.QuantityKg))
		assert.Equal(t, PaymentStatusUnpaid, record.PaymentStatus)
		assert.Len(t, record.GetDomainEvents(), 1)
	})

	t.Run("should round total payment to two decimal places", func(t *testing.T) {
		record, err := NewSupplyRecord(
			"SUP-20260314-0927",
			uuid.New(),
			decimal.NewFromFloat(3.333),
			decimal.NewFromFloat(9.99),
			PaymentMethodMonthly,
			PaymentStatusUnpaid,
			time.Now(),
			"",
		)

		require.NoError(t, err)
		assert.True(t, record.TotalPayment.Equal(decimal.NewFromFloat(33.3)),
			"expected 33.30, got %s", record.TotalPayment)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		_, err := NewSupplyRecord("SUP-1", uuid.New(), decimal.Zero, decimal.NewFromInt(1),
			PaymentMethodSpot, PaymentStatusUnpaid, time.Now(), "")

		assert.Error(t, err)
	})

	t.Run("should reject unknown payment method", func(t *testing.T) {
		_, err := NewSupplyRecord("SUP-1", uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1),
			PaymentMethod("credit"), PaymentStatusUnpaid, time.Now(), "")

		assert.Error(t, err)
	})

	t.Run("should reject missing supplier", func(t *testing.T) {
		_, err := NewSupplyRecord("SUP-1", uuid.Nil, decimal.NewFromInt(1), decimal.NewFromInt(1),
			PaymentMethodSpot, PaymentStatusUnpaid, time.Now(), "")

		assert.Error(t, err)
	})
}

func TestSupplyRecord_EditWindow(t *testing.T) {
	t.Run("should allow edits just inside the window", func(t *testing.T) {
		record := newTestRecord(t)
		at := record.CreatedAt.Add(EditWindow - time.Millisecond)

		assert.True(t, record.WithinEditWindow(at))
		assert.NoError(t, record.EnsureEditable(at))
	})

	t.Run("should treat the exact boundary as expired", func(t *testing.T) {
		record := newTestRecord(t)
		at := record.CreatedAt.Add(EditWindow)

		assert.False(t, record.WithinEditWindow(at))
		assert.ErrorIs(t, record.EnsureEditable(at), shared.ErrEditWindowExpired)
	})

	t.Run("should reject edits past the window", func(t *testing.T) {
		record := newTestRecord(t)
		at := record.CreatedAt.Add(EditWindow + time.Millisecond)

		qty := decimal.NewFromInt(50)
		err := record.Update(at, UpdateFields{QuantityKg: &qty})

		assert.ErrorIs(t, err, shared.ErrEditWindowExpired)
		assert.True(t, record.QuantityKg.Equal(decimal.NewFromInt(100)))
	})
}

func TestSupplyRecord_Update(t *testing.T) {
	t.Run("should recompute total payment when quantity changes", func(t *testing.T) {
		record := newTestRecord(t)
		at := record.CreatedAt.Add(time.Minute)

		qty := decimal.NewFromInt(80)
		err := record.Update(at, UpdateFields{QuantityKg: &qty})

		require.NoError(t, err)
		assert.True(t, record.TotalPayment.Equal(decimal.NewFromFloat(1000)))
	})

	t.Run("should recompute total payment when unit price changes", func(t *testing.T) {
		record := newTestRecord(t)
		at := record.CreatedAt.Add(time.Minute)

		price := decimal.NewFromInt(10)
		err := record.Update(at, UpdateFields{UnitPrice: &price})

		require.NoError(t, err)
		assert.True(t, record.TotalPayment.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("should rebase remaining by the quantity delta", func(t *testing.T) {
		record := newTestRecord(t)
		require.NoError(t, record.Deduct(decimal.NewFromInt(30))) // remaining 70
		at := record.CreatedAt.Add(time.Minute)

		qty := decimal.NewFromInt(120) // delta +20
		err := record.Update(at, UpdateFields{QuantityKg: &qty})

		require.NoError(t, err)
		assert.True(t, record.RemainingKg.Equal(decimal.NewFromInt(90)))
	})

	t.Run("should floor remaining at zero when shrinking below consumption", func(t *testing.T) {
		record := newTestRecord(t)
		require.NoError(t, record.Deduct(decimal.NewFromInt(90))) // remaining 10
		at := record.CreatedAt.Add(time.Minute)

		qty := decimal.NewFromInt(50) // delta -50, remaining would go negative
		err := record.Update(at, UpdateFields{QuantityKg: &qty})

		require.NoError(t, err)
		assert.True(t, record.RemainingKg.Equal(decimal.Zero))
	})

	t.Run("should leave untouched fields alone", func(t *testing.T) {
		record := newTestRecord(t)
		at := record.CreatedAt.Add(time.Minute)

		notes := "second weighing"
		err := record.Update(at, UpdateFields{Notes: &notes})

		require.NoError(t, err)
		assert.Equal(t, "second weighing", record.Notes)
		assert.True(t, record.TotalPayment.Equal(decimal.NewFromFloat(1250)))
	})
}

func TestSupplyRecord_Deduct(t *testing.T) {
	t.Run("should deduct from remaining", func(t *testing.T) {
		record := newTestRecord(t)

		err := record.Deduct(decimal.NewFromInt(40))

		require.NoError(t, err)
		assert.True(t, record.RemainingKg.Equal(decimal.NewFromInt(60)))
		assert.True(t, record.QuantityKg.Equal(decimal.NewFromInt(100)), "original quantity is untouched")
	})

	t.Run("should fail when amount exceeds remaining", func(t *testing.T) {
		record := newTestRecord(t)

		err := record.Deduct(decimal.NewFromInt(101))

		assert.ErrorIs(t, err, shared.ErrInsufficientSupply)
		assert.True(t, record.RemainingKg.Equal(decimal.NewFromInt(100)))
	})

	t.Run("should work after the edit window closes", func(t *testing.T) {
		record := newTestRecord(t)
		record.CreatedAt = record.CreatedAt.Add(-time.Hour)

		err := record.Deduct(decimal.NewFromInt(10))

		assert.NoError(t, err)
	})

	t.Run("should reject non-positive amounts", func(t *testing.T) {
		record := newTestRecord(t)

		assert.Error(t, record.Deduct(decimal.Zero))
		assert.Error(t, record.Deduct(decimal.NewFromInt(-5)))
	})
}

func TestSupplyRecord_SetPaymentStatus(t *testing.T) {
	t.Run("should transition at any time", func(t *testing.T) {
		record := newTestRecord(t)
		record.CreatedAt = record.CreatedAt.Add(-24 * time.Hour)

		err := record.SetPaymentStatus(PaymentStatusPaid)

		require.NoError(t, err)
		assert.True(t, record.IsPaid())
	})

	t.Run("should be a no-op for the same status", func(t *testing.T) {
		record := newTestRecord(t)
		before := record.Version

		require.NoError(t, record.SetPaymentStatus(PaymentStatusUnpaid))

		assert.Equal(t, before, record.Version)
	})

	t.Run("should reject unknown statuses", func(t *testing.T) {
		record := newTestRecord(t)

		assert.Error(t, record.SetPaymentStatus(PaymentStatus("overdue")))
	})
}
