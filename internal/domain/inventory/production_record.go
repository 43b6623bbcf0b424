package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// ProductionRecord represents a manufacturing run that consumed inventory
// lot quantity. Records are immutable once created; there is no edit or
// delete path.
type ProductionRecord struct {
	shared.BaseAggregateRoot
	ProductionNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ProductionDate   time.Time       `gorm:"not null;index"`
	ProductionTime   string          `gorm:"type:varchar(8)"` // Clock time of the run (HH:MM)
}

// TableName returns the table name for GORM
func (ProductionRecord) TableName() string {
	return "production_records"
}

// NewProductionRecord creates a new production record
func NewProductionRecord(productionNumber string, quantity decimal.Decimal, productionDate time.Time, productionTime string) (*ProductionRecord, error) {
	if productionNumber == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCTION_NUMBER", "Production number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if productionDate.IsZero() {
		productionDate = time.Now()
	}
	if productionTime == "" {
		productionTime = time.Now().Format("15:04")
	}

	record := &ProductionRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductionNumber:  productionNumber,
		Quantity:          quantity,
		ProductionDate:    productionDate,
		ProductionTime:    productionTime,
	}

	record.AddDomainEvent(NewProductionRecordCreatedEvent(record))

	return record, nil
}
