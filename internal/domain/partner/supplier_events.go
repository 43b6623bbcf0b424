package partner

import (
	"github.com/teasupply/backend/internal/domain/shared"
)

// AggregateTypeSupplier is the aggregate type for supplier events
const AggregateTypeSupplier = "Supplier"

// Event type constants
const (
	EventTypeSupplierCreated      = "SupplierCreated"
	EventTypeSupplierUpdated      = "SupplierUpdated"
	EventTypeSupplierCodeAssigned = "SupplierCodeAssigned"
	EventTypeSupplierDeactivated  = "SupplierDeactivated"
)

// SupplierCreatedEvent is published when a supplier account is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, s.ID),
		Name:            s.Name,
	}
}

// SupplierUpdatedEvent is published when a supplier profile changes
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(s *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, s.ID),
		Name:            s.Name,
	}
}

// SupplierCodeAssignedEvent is published when a business code is issued or
// rewritten
type SupplierCodeAssignedEvent struct {
	shared.BaseDomainEvent
	OldCode string `json:"old_code,omitempty"`
	NewCode string `json:"new_code"`
}

// NewSupplierCodeAssignedEvent creates a new SupplierCodeAssignedEvent
func NewSupplierCodeAssignedEvent(s *Supplier, oldCode string) *SupplierCodeAssignedEvent {
	return &SupplierCodeAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCodeAssigned, AggregateTypeSupplier, s.ID),
		OldCode:         oldCode,
		NewCode:         s.Code,
	}
}

// SupplierDeactivatedEvent is published when a supplier goes inactive,
// whether by hand or by the dormancy sweep
type SupplierDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// NewSupplierDeactivatedEvent creates a new SupplierDeactivatedEvent
func NewSupplierDeactivatedEvent(s *Supplier, reason string) *SupplierDeactivatedEvent {
	return &SupplierDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierDeactivated, AggregateTypeSupplier, s.ID),
		Name:            s.Name,
		Reason:          reason,
	}
}
