package supply

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/identifier"
	"github.com/teasupply/backend/internal/domain/partner"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/domain/supply"
)

// SupplyService handles the supply ledger: record creation, window-gated
// edits and deletes, and payment-status transitions.
type SupplyService struct {
	recordRepo     supply.SupplyRecordRepository
	supplierRepo   partner.SupplierRepository
	generator      *identifier.Generator
	eventPublisher shared.EventPublisher
}

// NewSupplyService creates a new SupplyService
func NewSupplyService(recordRepo supply.SupplyRecordRepository, supplierRepo partner.SupplierRepository) *SupplyService {
	return &SupplyService{
		recordRepo:   recordRepo,
		supplierRepo: supplierRepo,
		generator: identifier.NewGenerator(identifier.ExistenceCheckerFunc(
			func(ctx context.Context, candidate string) (bool, error) {
				return recordRepo.ExistsByRecordNumber(ctx, candidate)
			},
		)),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SupplyService) publishDomainEvents(ctx context.Context, record *supply.SupplyRecord) {
	if s.eventPublisher == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	record.ClearDomainEvents()
}

// Create validates the supplier, issues a record number and persists a new
// supply record. Uniqueness conflicts from the store are retried with a
// fresh identifier.
func (s *SupplyService) Create(ctx context.Context, req CreateSupplyRecordRequest) (*SupplyRecordResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier does not exist")
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is inactive")
	}

	status := supply.PaymentStatus(req.PaymentStatus)
	if req.PaymentStatus == "" {
		status = supply.PaymentStatusUnpaid
	}

	var record *supply.SupplyRecord
	err = identifier.RetryOnConflict(ctx, func(ctx context.Context) error {
		recordNumber, genErr := s.generator.TimestampID(ctx, identifier.PrefixSupply)
		if genErr != nil {
			return genErr
		}

		record, genErr = supply.NewSupplyRecord(
			recordNumber,
			req.SupplierID,
			decimal.NewFromFloat(req.QuantityKg),
			decimal.NewFromFloat(req.UnitPrice),
			supply.PaymentMethod(req.PaymentMethod),
			status,
			req.SupplyDate,
			req.Notes,
		)
		if genErr != nil {
			return genErr
		}

		return s.recordRepo.Save(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)

	response := ToSupplyRecordResponse(record)
	return &response, nil
}

// Update applies a partial edit, gated by the 15-minute window
func (s *SupplyService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplyRecordRequest) (*SupplyRecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := supply.UpdateFields{
		SupplyDate: req.SupplyDate,
		Notes:      req.Notes,
	}
	if req.QuantityKg != nil {
		qty := decimal.NewFromFloat(*req.QuantityKg)
		fields.QuantityKg = &qty
	}
	if req.UnitPrice != nil {
		price := decimal.NewFromFloat(*req.UnitPrice)
		fields.UnitPrice = &price
	}
	if req.PaymentMethod != nil {
		method := supply.PaymentMethod(*req.PaymentMethod)
		fields.PaymentMethod = &method
	}

	if err := record.Update(time.Now(), fields); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)

	response := ToSupplyRecordResponse(record)
	return &response, nil
}

// Delete removes a record, gated by the same 15-minute window as edits
func (s *SupplyService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := record.EnsureEditable(time.Now()); err != nil {
		return err
	}

	if err := s.recordRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, supply.NewSupplyRecordDeletedEvent(record))
	}

	return nil
}

// UpdatePaymentStatus transitions the settlement state. Never gated by the
// edit window.
func (s *SupplyService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*SupplyRecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := record.SetPaymentStatus(supply.PaymentStatus(status)); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)

	response := ToSupplyRecordResponse(record)
	return &response, nil
}

// GetByID retrieves a supply record by internal id
func (s *SupplyService) GetByID(ctx context.Context, id uuid.UUID) (*SupplyRecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplyRecordResponse(record)
	return &response, nil
}

// List retrieves supply records with filtering and pagination
func (s *SupplyService) List(ctx context.Context, filter SupplyRecordListFilter) ([]SupplyRecordResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.PaymentStatus != nil {
		domainFilter.Filters["payment_status"] = *filter.PaymentStatus
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = *filter.DateTo
	}

	records, err := s.recordRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSupplyRecordResponses(records), total, nil
}

// ListBySupplier retrieves the records of one supplier
func (s *SupplyService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, filter SupplyRecordListFilter) ([]SupplyRecordResponse, int64, error) {
	filter.SupplierID = &supplierID
	return s.List(ctx, filter)
}

// TotalRemaining returns the total supply quantity available for lot
// allocation
func (s *SupplyService) TotalRemaining(ctx context.Context) (decimal.Decimal, error) {
	return s.recordRepo.TotalRemaining(ctx)
}
