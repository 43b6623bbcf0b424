package partner

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/identifier"
	"github.com/teasupply/backend/internal/domain/partner"
	"github.com/teasupply/backend/internal/domain/shared"
)

// memSupplierRepo is an in-memory SupplierRepository for service tests
type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
	order     []uuid.UUID
	// conflictOnSave forces the next n saves to fail with ALREADY_EXISTS,
	// simulating the unique index losing a code race
	conflictOnSave int
	// activitySince holds supplier ids with recent supply records, which
	// the dormancy sweep must skip
	activitySince map[uuid.UUID]bool
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{
		suppliers:     make(map[uuid.UUID]*partner.Supplier),
		activitySince: make(map[uuid.UUID]bool),
	}
}

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSupplierRepo) FindByCode(_ context.Context, code string) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.Code == code {
			clone := *s
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSupplierRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.suppliers[id]
	return ok, nil
}

func (r *memSupplierRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSupplierRepo) MaxCodeNumber(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, s := range r.suppliers {
		if n, ok := identifier.ParseSupplierCode(s.Code); ok && n > max {
			max = n
		}
	}
	return max, nil
}

func (r *memSupplierRepo) ResetCodesSequentially(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ordered := make([]uuid.UUID, len(r.order))
	copy(ordered, r.order)
	sort.Slice(ordered, func(i, j int) bool {
		return r.suppliers[ordered[i]].CreatedAt.Before(r.suppliers[ordered[j]].CreatedAt)
	})
	for i, id := range ordered {
		r.suppliers[id].Code = identifier.FormatSupplierCode(i + 1)
	}
	return int64(len(ordered)), nil
}

func (r *memSupplierRepo) BulkDeactivateDormant(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.suppliers {
		if s.Status == partner.StatusActive && s.CreatedAt.Before(cutoff) && !r.activitySince[s.ID] {
			s.Status = partner.StatusInactive
			count++
		}
	}
	return count, nil
}

func (r *memSupplierRepo) Save(_ context.Context, s *partner.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictOnSave > 0 {
		r.conflictOnSave--
		return shared.ErrAlreadyExists
	}
	if _, ok := r.suppliers[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	clone := *s
	r.suppliers[s.ID] = &clone
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r *memSupplierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.suppliers)), nil
}

func newTestSupplierService(t *testing.T) (*SupplierService, *memSupplierRepo) {
	t.Helper()
	repo := newMemSupplierRepo()
	return NewSupplierService(repo), repo
}

func TestSupplierService_Create(t *testing.T) {
	t.Run("should issue codes monotonically", func(t *testing.T) {
		service, _ := newTestSupplierService(t)

		first, err := service.Create(context.Background(), CreateSupplierRequest{Name: "Chen Farm"})
		require.NoError(t, err)
		second, err := service.Create(context.Background(), CreateSupplierRequest{Name: "Wu Estate"})
		require.NoError(t, err)

		assert.Equal(t, "SUP000001", first.Code)
		assert.Equal(t, "SUP000002", second.Code)
	})

	t.Run("should retry code issuance on a lost race", func(t *testing.T) {
		service, repo := newTestSupplierService(t)
		repo.conflictOnSave = 1

		created, err := service.Create(context.Background(), CreateSupplierRequest{Name: "Chen Farm"})

		require.NoError(t, err)
		assert.Equal(t, "SUP000001", created.Code)
	})

	t.Run("should fall back to a timestamp code under sustained contention", func(t *testing.T) {
		service, repo := newTestSupplierService(t)
		repo.conflictOnSave = identifier.ConflictRetryAttempts

		created, err := service.Create(context.Background(), CreateSupplierRequest{Name: "Chen Farm"})

		require.NoError(t, err)
		assert.Regexp(t, `^SUP\d{6}$`, created.Code)
	})

	t.Run("should mask the bank account in the response", func(t *testing.T) {
		service, _ := newTestSupplierService(t)

		created, err := service.Create(context.Background(), CreateSupplierRequest{
			Name:        "Chen Farm",
			BankAccount: "6222021234567894321",
		})

		require.NoError(t, err)
		assert.Equal(t, "***************4321", created.BankAccount)
	})
}

func TestSupplierService_Detail(t *testing.T) {
	service, _ := newTestSupplierService(t)
	created, err := service.Create(context.Background(), CreateSupplierRequest{
		Name:        "Chen Farm",
		BankAccount: "6222021234567894321",
	})
	require.NoError(t, err)

	t.Run("default read masks the account", func(t *testing.T) {
		got, err := service.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "***************4321", got.BankAccount)
	})

	t.Run("full-detail read returns the account in clear", func(t *testing.T) {
		got, err := service.GetDetailByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "6222021234567894321", got.BankAccount)
	})
}

func TestSupplierService_DeactivateDormant(t *testing.T) {
	seed := func(t *testing.T, repo *memSupplierRepo, name string, age time.Duration, active bool, recentSupply bool) *partner.Supplier {
		t.Helper()
		s, err := partner.NewSupplier(name, "", "")
		require.NoError(t, err)
		s.CreatedAt = time.Now().Add(-age)
		if !active {
			s.Status = partner.StatusInactive
		}
		require.NoError(t, repo.Save(context.Background(), s))
		if recentSupply {
			repo.activitySince[s.ID] = true
		}
		return s
	}

	t.Run("should deactivate only dormant old suppliers", func(t *testing.T) {
		service, repo := newTestSupplierService(t)
		dormant := seed(t, repo, "Dormant", 8*30*24*time.Hour, true, false)
		fresh := seed(t, repo, "Fresh", 30*24*time.Hour, true, false)
		activeOld := seed(t, repo, "ActiveOld", 8*30*24*time.Hour, true, true)

		count, err := service.DeactivateDormant(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		got, _ := repo.FindByID(context.Background(), dormant.ID)
		assert.False(t, got.IsActive())
		got, _ = repo.FindByID(context.Background(), fresh.ID)
		assert.True(t, got.IsActive())
		got, _ = repo.FindByID(context.Background(), activeOld.ID)
		assert.True(t, got.IsActive())
	})

	t.Run("should be idempotent across runs", func(t *testing.T) {
		service, repo := newTestSupplierService(t)
		seed(t, repo, "Dormant", 8*30*24*time.Hour, true, false)

		first, err := service.DeactivateDormant(context.Background())
		require.NoError(t, err)
		second, err := service.DeactivateDormant(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Zero(t, second)
	})
}

func TestSupplierService_ResetAllCodes(t *testing.T) {
	t.Run("rewrites codes in creation order", func(t *testing.T) {
		service, repo := newTestSupplierService(t)

		var ids []uuid.UUID
		for _, name := range []string{"First", "Second", "Third"} {
			created, err := service.Create(context.Background(), CreateSupplierRequest{Name: name})
			require.NoError(t, err)
			ids = append(ids, created.ID)
			time.Sleep(time.Millisecond)
		}

		count, err := service.ResetAllCodes(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, count)

		for i, id := range ids {
			got, err := repo.FindByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, identifier.FormatSupplierCode(i+1), got.Code)
		}
	})

	t.Run("reorders codes held against creation order", func(t *testing.T) {
		// The oldest supplier holds SUP000002 while a newer one holds
		// SUP000001. The rewrite must land the oldest on SUP000001 even
		// though another supplier currently owns that code.
		service, repo := newTestSupplierService(t)

		older, err := partner.NewSupplier("Older", "", "")
		require.NoError(t, err)
		older.CreatedAt = time.Now().Add(-time.Hour)
		require.NoError(t, older.AssignCode("SUP000002"))
		require.NoError(t, repo.Save(context.Background(), older))

		newer, err := partner.NewSupplier("Newer", "", "")
		require.NoError(t, err)
		require.NoError(t, newer.AssignCode("SUP000001"))
		require.NoError(t, repo.Save(context.Background(), newer))

		count, err := service.ResetAllCodes(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, count)

		got, err := repo.FindByID(context.Background(), older.ID)
		require.NoError(t, err)
		assert.Equal(t, "SUP000001", got.Code)
		got, err = repo.FindByID(context.Background(), newer.ID)
		require.NoError(t, err)
		assert.Equal(t, "SUP000002", got.Code)
	})
}
