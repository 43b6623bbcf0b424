package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/partner"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSupplierRepository creates a GormSupplierRepository with a mocked SQL connection
func newMockSupplierRepository(t *testing.T) (*GormSupplierRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSupplierRepository(gormDB), mock, mockDB
}

func TestGormSupplierRepository_BulkDeactivateDormant(t *testing.T) {
	t.Run("keeps suppliers with supply activity since the cutoff", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		cutoff := time.Now().AddDate(0, -6, 0)

		// Activity is judged by the supply date, not by when the row was
		// written. A backdated record entered yesterday must not count as
		// recent activity.
		mock.ExpectExec(`UPDATE "suppliers" SET .* WHERE status = \$\d+ AND created_at < \$\d+ AND \(?NOT EXISTS \(SELECT 1 FROM supply_records sr WHERE sr\.supplier_id = suppliers\.id AND sr\.supply_date >= \$\d+\)\)?`).
			WithArgs(partner.StatusInactive, sqlmock.AnyArg(), partner.StatusActive, cutoff, cutoff).
			WillReturnResult(sqlmock.NewResult(0, 2))

		count, err := repo.BulkDeactivateDormant(context.Background(), cutoff)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_ResetCodesSequentially(t *testing.T) {
	t.Run("parks codes on placeholders before the final assignment", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)WITH ranked AS .*SET code = 'TMP' \|\| LPAD\(ranked\.rn::text, 6, '0'\).*`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`(?s)WITH ranked AS .*SET code = 'SUP' \|\| LPAD\(ranked\.rn::text, 6, '0'\).*version = version \+ 1.*`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		count, err := repo.ResetCodesSequentially(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the whole rewrite on failure", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)WITH ranked AS .*SET code = 'TMP' \|\| LPAD\(ranked\.rn::text, 6, '0'\).*`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`(?s)WITH ranked AS .*SET code = 'SUP' \|\| LPAD\(ranked\.rn::text, 6, '0'\).*`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		count, err := repo.ResetCodesSequentially(context.Background())

		assert.Error(t, err)
		assert.Zero(t, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
