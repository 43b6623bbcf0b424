package supply

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// EditWindow is how long after creation a supply record may be freely
// edited or deleted by its owner. The boundary itself counts as expired.
const EditWindow = 15 * time.Minute

// PaymentMethod represents how a supply delivery is settled
type PaymentMethod string

const (
	PaymentMethodSpot    PaymentMethod = "spot"    // Settled at delivery
	PaymentMethodMonthly PaymentMethod = "monthly" // Settled on the monthly cycle
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodSpot || m == PaymentMethodMonthly
}

// PaymentStatus represents the settlement state of a supply record
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// SupplyRecord represents one delivery of raw tea leaf from a supplier.
// It is the aggregate root of the supply ledger: lot allocation drains
// RemainingKg through the business-logic path, while owner edits go
// through the window-gated path.
type SupplyRecord struct {
	shared.BaseAggregateRoot
	RecordNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityKg    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingKg   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPayment  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;default:'spot'"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	SupplyDate    time.Time       `gorm:"not null;index"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplyRecord) TableName() string {
	return "supply_records"
}

// NewSupplyRecord creates a new supply record. TotalPayment is computed
// here and only ever recomputed through Update.
func NewSupplyRecord(
	recordNumber string,
	supplierID uuid.UUID,
	quantityKg, unitPrice decimal.Decimal,
	method PaymentMethod,
	status PaymentStatus,
	supplyDate time.Time,
	notes string,
) (*SupplyRecord, error) {
	if recordNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECORD_NUMBER", "Record number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID is required")
	}
	if quantityKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be spot or monthly")
	}
	if status == "" {
		status = PaymentStatusUnpaid
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status must be unpaid or paid")
	}
	if supplyDate.IsZero() {
		supplyDate = time.Now()
	}

	record := &SupplyRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RecordNumber:      recordNumber,
		SupplierID:        supplierID,
		QuantityKg:        quantityKg,
		RemainingKg:       quantityKg,
		UnitPrice:         unitPrice,
		TotalPayment:      quantityKg.Mul(unitPrice).Round(2),
		PaymentMethod:     method,
		PaymentStatus:     status,
		SupplyDate:        supplyDate,
		Notes:             notes,
	}

	record.AddDomainEvent(NewSupplyRecordCreatedEvent(record))

	return record, nil
}

// UpdateFields carries the partial field set of an owner edit.
// Nil pointers leave the corresponding field untouched.
type UpdateFields struct {
	QuantityKg    *decimal.Decimal
	UnitPrice     *decimal.Decimal
	PaymentMethod *PaymentMethod
	SupplyDate    *time.Time
	Notes         *string
}

// WithinEditWindow reports whether the record may still be edited or
// deleted at the given instant
func (r *SupplyRecord) WithinEditWindow(now time.Time) bool {
	return now.Sub(r.CreatedAt) < EditWindow
}

// EnsureEditable returns EDIT_WINDOW_EXPIRED when the edit window has closed
func (r *SupplyRecord) EnsureEditable(now time.Time) error {
	if !r.WithinEditWindow(now) {
		return shared.ErrEditWindowExpired
	}
	return nil
}

// Update applies a partial field merge, gated by the edit window.
// TotalPayment is always recomputed server-side when quantity or unit
// price change; a client-supplied total is never trusted. Editing the
// quantity rebases RemainingKg by the same delta, floored at zero.
func (r *SupplyRecord) Update(now time.Time, fields UpdateFields) error {
	if err := r.EnsureEditable(now); err != nil {
		return err
	}

	if fields.QuantityKg != nil {
		if fields.QuantityKg.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		delta := fields.QuantityKg.Sub(r.QuantityKg)
		r.QuantityKg = *fields.QuantityKg
		r.RemainingKg = r.RemainingKg.Add(delta)
		if r.RemainingKg.IsNegative() {
			r.RemainingKg = decimal.Zero
		}
		if r.RemainingKg.GreaterThan(r.QuantityKg) {
			r.RemainingKg = r.QuantityKg
		}
	}
	if fields.UnitPrice != nil {
		if fields.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price must be positive")
		}
		r.UnitPrice = *fields.UnitPrice
	}
	if fields.QuantityKg != nil || fields.UnitPrice != nil {
		r.TotalPayment = r.QuantityKg.Mul(r.UnitPrice).Round(2)
	}
	if fields.PaymentMethod != nil {
		if !fields.PaymentMethod.IsValid() {
			return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be spot or monthly")
		}
		r.PaymentMethod = *fields.PaymentMethod
	}
	if fields.SupplyDate != nil && !fields.SupplyDate.IsZero() {
		r.SupplyDate = *fields.SupplyDate
	}
	if fields.Notes != nil {
		r.Notes = *fields.Notes
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewSupplyRecordUpdatedEvent(r))

	return nil
}

// SetPaymentStatus transitions the settlement state. Not gated by the
// edit window; payment status may change at any time.
func (r *SupplyRecord) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status must be unpaid or paid")
	}
	if r.PaymentStatus == status {
		return nil
	}

	old := r.PaymentStatus
	r.PaymentStatus = status
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewSupplyPaymentStatusChangedEvent(r, old, status))

	return nil
}

// Deduct reduces RemainingKg through the business-logic path. Not gated
// by the edit window. The amount must not exceed the current remainder.
func (r *SupplyRecord) Deduct(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction amount must be positive")
	}
	if amount.GreaterThan(r.RemainingKg) {
		return shared.ErrInsufficientSupply
	}

	r.RemainingKg = r.RemainingKg.Sub(amount)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewSupplyQuantityDeductedEvent(r, amount))

	return nil
}

// HasRemaining reports whether the record still has quantity available
// for lot allocation
func (r *SupplyRecord) HasRemaining() bool {
	return r.RemainingKg.GreaterThan(decimal.Zero)
}

// IsPaid reports whether the record has been settled
func (r *SupplyRecord) IsPaid() bool {
	return r.PaymentStatus == PaymentStatusPaid
}
