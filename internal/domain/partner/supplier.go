package partner

import (
	"strings"
	"time"

	"github.com/teasupply/backend/internal/domain/identifier"
	"github.com/teasupply/backend/internal/domain/shared"
)

// SupplierStatus represents the lifecycle state of a supplier account
type SupplierStatus string

const (
	StatusActive   SupplierStatus = "active"
	StatusInactive SupplierStatus = "inactive"
)

// DormantAfterMonths is the account age and supply-inactivity horizon after
// which the scheduled sweep deactivates a supplier.
const DormantAfterMonths = 6

// Supplier is a partner account with a business code and banking metadata.
// The bank account number is masked on all read paths except explicit
// full-detail reads.
type Supplier struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(20);uniqueIndex"` // SUP + 6 digits
	Name        string         `gorm:"type:varchar(100);not null"`
	Phone       string         `gorm:"type:varchar(30)"`
	Email       string         `gorm:"type:varchar(100)"`
	BankName    string         `gorm:"type:varchar(100)"`
	BankAccount string         `gorm:"type:varchar(50)"`
	Status      SupplierStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name, phone, email string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	s := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Email:             email,
		Status:            StatusActive,
	}

	s.AddDomainEvent(NewSupplierCreatedEvent(s))

	return s, nil
}

// AssignCode sets the supplier business code. The code must match the
// SUP + 6 digits format; persistence-layer uniqueness is the final arbiter.
func (s *Supplier) AssignCode(code string) error {
	if !identifier.SupplierCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_SUPPLIER_CODE", "Supplier code must be SUP followed by 6 digits")
	}

	old := s.Code
	s.Code = code
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierCodeAssignedEvent(s, old))

	return nil
}

// UpdateFields carries the optional fields of a profile update
type UpdateFields struct {
	Name        *string
	Phone       *string
	Email       *string
	BankName    *string
	BankAccount *string
	Notes       *string
}

// UpdateProfile applies a partial field merge
func (s *Supplier) UpdateProfile(fields UpdateFields) error {
	if fields.Name != nil {
		if *fields.Name == "" {
			return shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
		}
		s.Name = *fields.Name
	}
	if fields.Phone != nil {
		s.Phone = *fields.Phone
	}
	if fields.Email != nil {
		s.Email = *fields.Email
	}
	if fields.BankName != nil {
		s.BankName = *fields.BankName
	}
	if fields.BankAccount != nil {
		s.BankAccount = *fields.BankAccount
	}
	if fields.Notes != nil {
		s.Notes = *fields.Notes
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// Deactivate transitions the supplier to inactive
func (s *Supplier) Deactivate(reason string) error {
	if s.Status == StatusInactive {
		return shared.NewDomainError("SUPPLIER_ALREADY_INACTIVE", "Supplier is already inactive")
	}

	s.Status = StatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierDeactivatedEvent(s, reason))

	return nil
}

// Activate transitions the supplier back to active
func (s *Supplier) Activate() error {
	if s.Status == StatusActive {
		return shared.NewDomainError("SUPPLIER_ALREADY_ACTIVE", "Supplier is already active")
	}

	s.Status = StatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsActive reports whether the supplier can submit supply records
func (s *Supplier) IsActive() bool {
	return s.Status == StatusActive
}

// MaskedBankAccount returns the account number with all but the last four
// digits hidden
func (s *Supplier) MaskedBankAccount() string {
	if s.BankAccount == "" {
		return ""
	}
	if len(s.BankAccount) <= 4 {
		return strings.Repeat("*", len(s.BankAccount))
	}
	return strings.Repeat("*", len(s.BankAccount)-4) + s.BankAccount[len(s.BankAccount)-4:]
}
