package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// EditWindow is how long after creation a lot may be edited.
// The boundary itself counts as expired.
const EditWindow = 15 * time.Minute

// InventoryLot represents a processed stock unit created from available
// supply quantity. Lots are drained FIFO by production runs and are never
// auto-deleted.
type InventoryLot struct {
	shared.BaseAggregateRoot
	LotNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InventoryLot) TableName() string {
	return "inventory_lots"
}

// NewInventoryLot creates a new inventory lot
func NewInventoryLot(lotNumber string, quantity decimal.Decimal) (*InventoryLot, error) {
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Lot number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	lot := &InventoryLot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LotNumber:         lotNumber,
		Quantity:          quantity,
		RemainingQty:      quantity,
	}

	lot.AddDomainEvent(NewInventoryLotCreatedEvent(lot))

	return lot, nil
}

// WithinEditWindow reports whether the lot may still be edited at the
// given instant
func (l *InventoryLot) WithinEditWindow(now time.Time) bool {
	return now.Sub(l.CreatedAt) < EditWindow
}

// EnsureEditable returns EDIT_WINDOW_EXPIRED when the edit window has closed
func (l *InventoryLot) EnsureEditable(now time.Time) error {
	if !l.WithinEditWindow(now) {
		return shared.ErrEditWindowExpired
	}
	return nil
}

// UpdateQuantity changes the lot quantity within the edit window,
// rebasing the remainder by the same delta, floored at zero.
func (l *InventoryLot) UpdateQuantity(now time.Time, quantity decimal.Decimal) error {
	if err := l.EnsureEditable(now); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	delta := quantity.Sub(l.Quantity)
	l.Quantity = quantity
	l.RemainingQty = l.RemainingQty.Add(delta)
	if l.RemainingQty.IsNegative() {
		l.RemainingQty = decimal.Zero
	}
	if l.RemainingQty.GreaterThan(l.Quantity) {
		l.RemainingQty = l.Quantity
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewInventoryLotUpdatedEvent(l))

	return nil
}

// Deduct reduces the remainder through the business-logic path (production
// consumption). Not gated by the edit window.
func (l *InventoryLot) Deduct(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction amount must be positive")
	}
	if amount.GreaterThan(l.RemainingQty) {
		return shared.ErrInsufficientInventory
	}

	l.RemainingQty = l.RemainingQty.Sub(amount)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewInventoryQuantityDeductedEvent(l, amount))

	return nil
}

// HasRemaining reports whether the lot still has quantity available for
// production consumption
func (l *InventoryLot) HasRemaining() bool {
	return l.RemainingQty.GreaterThan(decimal.Zero)
}
