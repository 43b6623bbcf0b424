package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSupplyRecordRepository creates a GormSupplyRecordRepository with a mocked SQL connection
func newMockSupplyRecordRepository(t *testing.T) (*GormSupplyRecordRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormSupplyRecordRepository(gormDB), mock, mockDB
}

func TestGormSupplyRecordRepository_FindByID(t *testing.T) {
	t.Run("finds existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplyRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		supplierID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "record_number", "supplier_id", "quantity_kg", "remaining_kg", "unit_price", "total_payment", "payment_method", "payment_status"}).
			AddRow(recordID, "SUP-20260314-0926", supplierID,
				decimal.NewFromInt(100), decimal.NewFromInt(100),
				decimal.NewFromFloat(12.5), decimal.NewFromInt(1250),
				"monthly", "unpaid")

		mock.ExpectQuery(`SELECT \* FROM "supply_records" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(recordID, 1).
			WillReturnRows(rows)

		record, err := repo.FindByID(context.Background(), recordID)

		assert.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, recordID, record.ID)
		assert.Equal(t, "SUP-20260314-0926", record.RecordNumber)
		assert.True(t, record.TotalPayment.Equal(decimal.NewFromInt(1250)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing record", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplyRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "supply_records" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(recordID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		record, err := repo.FindByID(context.Background(), recordID)

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplyRecordRepository_FindAvailableFIFO(t *testing.T) {
	t.Run("locks rows and orders oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplyRecordRepository(t)
		defer mockDB.Close()

		older := uuid.New()
		newer := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "record_number", "remaining_kg"}).
			AddRow(older, "SUP-20260310-0800", decimal.NewFromInt(30)).
			AddRow(newer, "SUP-20260312-0900", decimal.NewFromInt(50))

		mock.ExpectQuery(`SELECT \* FROM "supply_records" WHERE remaining_kg > 0 ORDER BY created_at ASC FOR UPDATE`).
			WillReturnRows(rows)

		records, err := repo.FindAvailableFIFO(context.Background())

		assert.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, older, records[0].ID)
		assert.Equal(t, newer, records[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplyRecordRepository_TotalRemaining(t *testing.T) {
	t.Run("sums remaining quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplyRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(remaining_kg\), 0\) FROM "supply_records"`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("75.5"))

		total, err := repo.TotalRemaining(context.Background())

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromFloat(75.5)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplyRecordRepository_ExistsByRecordNumber(t *testing.T) {
	t.Run("returns true when the number is taken", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplyRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "supply_records" WHERE record_number = \$1`).
			WithArgs("SUP-20260314-0926").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByRecordNumber(context.Background(), "SUP-20260314-0926")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplyRecordRepository_Delete(t *testing.T) {
	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplyRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()

		mock.ExpectExec(`DELETE FROM "supply_records" WHERE id = \$1`).
			WithArgs(recordID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), recordID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
