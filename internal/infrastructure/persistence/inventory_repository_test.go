package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockInventoryDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func TestGormInventoryLotRepository_Count(t *testing.T) {
	t.Run("applies the date filter used by the listing", func(t *testing.T) {
		gormDB, mock, mockDB := newMockInventoryDB(t)
		defer mockDB.Close()
		repo := NewGormInventoryLotRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_lots" WHERE created_at >= \$1`).
			WithArgs("2026-08-01").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"date_from": "2026-08-01"},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies the remaining filter used by the listing", func(t *testing.T) {
		gormDB, mock, mockDB := newMockInventoryDB(t)
		defer mockDB.Close()
		repo := NewGormInventoryLotRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_lots" WHERE remaining_qty > 0`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"has_remaining": true},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductionRecordRepository_Count(t *testing.T) {
	t.Run("applies the date filter used by the listing", func(t *testing.T) {
		gormDB, mock, mockDB := newMockInventoryDB(t)
		defer mockDB.Close()
		repo := NewGormProductionRecordRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "production_records" WHERE created_at <= \$1`).
			WithArgs("2026-08-20").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"date_to": "2026-08-20"},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
