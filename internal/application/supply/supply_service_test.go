package supply

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/partner"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/domain/supply"
)

// memRecordRepo is an in-memory SupplyRecordRepository for service tests
type memRecordRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*supply.SupplyRecord
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: make(map[uuid.UUID]*supply.SupplyRecord)}
}

func (r *memRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*supply.SupplyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *memRecordRepo) FindByRecordNumber(_ context.Context, recordNumber string) (*supply.SupplyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.RecordNumber == recordNumber {
			clone := *record
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memRecordRepo) FindAll(_ context.Context, _ shared.Filter) ([]supply.SupplyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]supply.SupplyRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, *record)
	}
	return out, nil
}

func (r *memRecordRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]supply.SupplyRecord, error) {
	all, _ := r.FindAll(ctx, filter)
	out := make([]supply.SupplyRecord, 0)
	for _, record := range all {
		if record.SupplierID == supplierID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memRecordRepo) FindAvailableFIFO(_ context.Context) ([]supply.SupplyRecord, error) {
	return nil, nil
}

func (r *memRecordRepo) TotalRemaining(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, record := range r.records {
		total = total.Add(record.RemainingKg)
	}
	return total, nil
}

func (r *memRecordRepo) ExistsByRecordNumber(_ context.Context, recordNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.RecordNumber == recordNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRecordRepo) Save(_ context.Context, record *supply.SupplyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *memRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memRecordRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

// memSupplierRepo covers just what SupplyService touches
type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *memSupplierRepo) put(s *partner.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = s
}

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memSupplierRepo) FindByCode(_ context.Context, _ string) (*partner.Supplier, error) {
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Supplier, error) {
	return nil, nil
}

func (r *memSupplierRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.suppliers[id]
	return ok, nil
}

func (r *memSupplierRepo) ExistsByCode(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *memSupplierRepo) MaxCodeNumber(_ context.Context) (int, error) { return 0, nil }

func (r *memSupplierRepo) ResetCodesSequentially(_ context.Context) (int64, error) {
	return 0, nil
}

func (r *memSupplierRepo) BulkDeactivateDormant(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *memSupplierRepo) Save(_ context.Context, s *partner.Supplier) error {
	r.put(s)
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r *memSupplierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) { return 0, nil }

func newTestSupplyService(t *testing.T) (*SupplyService, *memRecordRepo, *partner.Supplier) {
	t.Helper()
	recordRepo := newMemRecordRepo()
	supplierRepo := newMemSupplierRepo()
	supplier, err := partner.NewSupplier("Chen Farm", "", "")
	require.NoError(t, err)
	supplierRepo.put(supplier)
	return NewSupplyService(recordRepo, supplierRepo), recordRepo, supplier
}

func TestSupplyService_Create(t *testing.T) {
	t.Run("should create a record with a generated number", func(t *testing.T) {
		service, _, supplier := newTestSupplyService(t)

		created, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID:    supplier.ID,
			QuantityKg:    100,
			UnitPrice:     12.5,
			PaymentMethod: "spot",
		})

		require.NoError(t, err)
		assert.Regexp(t, `^SUP-\d{8}-\d{4}(-\d{2})?$`, created.RecordNumber)
		assert.True(t, created.TotalPayment.Equal(decimal.NewFromInt(1250)))
		assert.True(t, created.RemainingKg.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "unpaid", created.PaymentStatus)
		assert.True(t, created.Editable)
	})

	t.Run("should reject unknown suppliers", func(t *testing.T) {
		service, _, _ := newTestSupplyService(t)

		_, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID:    uuid.New(),
			QuantityKg:    10,
			UnitPrice:     1,
			PaymentMethod: "spot",
		})

		assert.Error(t, err)
	})

	t.Run("should reject inactive suppliers", func(t *testing.T) {
		service, _, supplier := newTestSupplyService(t)
		require.NoError(t, supplier.Deactivate("test"))

		_, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID:    supplier.ID,
			QuantityKg:    10,
			UnitPrice:     1,
			PaymentMethod: "spot",
		})

		assert.Error(t, err)
	})

	t.Run("should suffix the record number when the minute collides", func(t *testing.T) {
		service, _, supplier := newTestSupplyService(t)

		first, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID: supplier.ID, QuantityKg: 10, UnitPrice: 1, PaymentMethod: "spot",
		})
		require.NoError(t, err)
		second, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID: supplier.ID, QuantityKg: 10, UnitPrice: 1, PaymentMethod: "spot",
		})
		require.NoError(t, err)

		assert.NotEqual(t, first.RecordNumber, second.RecordNumber)
	})
}

func TestSupplyService_Update(t *testing.T) {
	create := func(t *testing.T, service *SupplyService, supplierID uuid.UUID) *SupplyRecordResponse {
		t.Helper()
		created, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID: supplierID, QuantityKg: 100, UnitPrice: 12.5, PaymentMethod: "spot",
		})
		require.NoError(t, err)
		return created
	}

	t.Run("should recompute the total server-side", func(t *testing.T) {
		service, _, supplier := newTestSupplyService(t)
		created := create(t, service, supplier.ID)

		qty := 80.0
		updated, err := service.Update(context.Background(), created.ID, UpdateSupplyRecordRequest{QuantityKg: &qty})

		require.NoError(t, err)
		assert.True(t, updated.TotalPayment.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("should fail outside the edit window", func(t *testing.T) {
		service, recordRepo, supplier := newTestSupplyService(t)
		created := create(t, service, supplier.ID)

		// Age the stored record past the window
		stored, err := recordRepo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		stored.CreatedAt = time.Now().Add(-16 * time.Minute)
		require.NoError(t, recordRepo.Save(context.Background(), stored))

		notes := "late correction"
		_, err = service.Update(context.Background(), created.ID, UpdateSupplyRecordRequest{Notes: &notes})

		assert.ErrorIs(t, err, shared.ErrEditWindowExpired)
	})
}

func TestSupplyService_Delete(t *testing.T) {
	t.Run("should delete inside the window", func(t *testing.T) {
		service, recordRepo, supplier := newTestSupplyService(t)
		created, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID: supplier.ID, QuantityKg: 10, UnitPrice: 1, PaymentMethod: "spot",
		})
		require.NoError(t, err)

		require.NoError(t, service.Delete(context.Background(), created.ID))

		_, err = recordRepo.FindByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("should fail outside the window", func(t *testing.T) {
		service, recordRepo, supplier := newTestSupplyService(t)
		created, err := service.Create(context.Background(), CreateSupplyRecordRequest{
			SupplierID: supplier.ID, QuantityKg: 10, UnitPrice: 1, PaymentMethod: "spot",
		})
		require.NoError(t, err)

		stored, err := recordRepo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		stored.CreatedAt = time.Now().Add(-16 * time.Minute)
		require.NoError(t, recordRepo.Save(context.Background(), stored))

		err = service.Delete(context.Background(), created.ID)

		assert.ErrorIs(t, err, shared.ErrEditWindowExpired)
	})

	t.Run("should return not found for absent records", func(t *testing.T) {
		service, _, _ := newTestSupplyService(t)

		err := service.Delete(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSupplyService_UpdatePaymentStatus(t *testing.T) {
	service, recordRepo, supplier := newTestSupplyService(t)
	created, err := service.Create(context.Background(), CreateSupplyRecordRequest{
		SupplierID: supplier.ID, QuantityKg: 10, UnitPrice: 1, PaymentMethod: "monthly",
	})
	require.NoError(t, err)

	// Age the record; the status path has no window gate
	stored, err := recordRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	stored.CreatedAt = time.Now().Add(-24 * time.Hour)
	require.NoError(t, recordRepo.Save(context.Background(), stored))

	updated, err := service.UpdatePaymentStatus(context.Background(), created.ID, "paid")

	require.NoError(t, err)
	assert.Equal(t, "paid", updated.PaymentStatus)
}
