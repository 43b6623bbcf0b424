package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teasupply/backend/internal/domain/identifier"
	"github.com/teasupply/backend/internal/domain/partner"
	"github.com/teasupply/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles the supplier directory, business-code issuance
// and the dormancy deactivation sweep.
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for sweep and code-issuance reporting
func (s *SupplierService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *SupplierService) publishDomainEvents(ctx context.Context, supplier *partner.Supplier) {
	if s.eventPublisher == nil {
		return
	}
	events := supplier.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	supplier.ClearDomainEvents()
}

// Create registers a supplier and issues the next monotonic business code.
// Two concurrent creations can race to the same number; the unique index
// on the code column is the arbiter, and a conflict re-runs the whole
// issuance against the fresh maximum. If the retry budget runs out the
// code falls back to a timestamp-derived value.
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if req.BankName != "" || req.BankAccount != "" || req.Notes != "" {
		err = supplier.UpdateProfile(partner.UpdateFields{
			BankName:    strPtr(req.BankName),
			BankAccount: strPtr(req.BankAccount),
			Notes:       strPtr(req.Notes),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.issueCode(ctx, supplier); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// issueCode assigns the next sequential code and persists the supplier.
// A lost race against the unique code index re-runs the issuance; when
// the retry budget runs out, a timestamp-derived code is used instead.
func (s *SupplierService) issueCode(ctx context.Context, supplier *partner.Supplier) error {
	err := identifier.RetryOnConflict(ctx, func(ctx context.Context) error {
		max, seqErr := s.supplierRepo.MaxCodeNumber(ctx)
		if seqErr != nil {
			return seqErr
		}
		if seqErr := supplier.AssignCode(identifier.FormatSupplierCode(max + 1)); seqErr != nil {
			return seqErr
		}
		return s.supplierRepo.Save(ctx, supplier)
	})
	if err != nil {
		if !identifier.IsRetryableConflict(err) {
			return err
		}
		// Sustained contention on the sequence. Take the non-monotonic
		// timestamp code rather than failing the registration.
		fallback := identifier.FallbackSupplierCode(time.Now())
		s.logger.Warn("supplier code sequence contended, using fallback",
			zap.String("code", fallback))
		if err := supplier.AssignCode(fallback); err != nil {
			return err
		}
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return err
		}
	}
	return nil
}

// AssignNextCode re-issues a sequential code for one supplier. Used to
// move fallback-coded suppliers back onto the monotonic sequence.
func (s *SupplierService) AssignNextCode(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.issueCode(ctx, supplier); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update applies a partial profile edit
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = supplier.UpdateProfile(partner.UpdateFields{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		BankName:    req.BankName,
		BankAccount: req.BankAccount,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier with the bank account masked
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetDetailByID retrieves a supplier with the full bank account, for the
// explicit full-detail read only
func (s *SupplierService) GetDetailByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierDetailResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination, masked
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
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
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Deactivate manually deactivates a supplier
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID, reason string) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := supplier.Deactivate(reason); err != nil {
		return err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, supplier)
	return nil
}

// Activate reactivates a supplier
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := supplier.Activate(); err != nil {
		return err
	}
	return s.supplierRepo.Save(ctx, supplier)
}

// DeactivateDormant flips every active supplier older than six months with
// no supply activity in the trailing six months to inactive, as a single
// conditional bulk update. Returns the number of suppliers deactivated.
// The sweep re-evaluates current state each run, so it is idempotent.
func (s *SupplierService) DeactivateDormant(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, -partner.DormantAfterMonths, 0)

	count, err := s.supplierRepo.BulkDeactivateDormant(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("dormant suppliers deactivated", zap.Int64("count", count))
	}
	return count, nil
}

// ResetAllCodes rewrites every supplier code in creation order, starting
// from SUP000001. The rewrite is a single atomic operation: reassigning a
// code another supplier currently holds cannot leave the directory half
// rewritten.
func (s *SupplierService) ResetAllCodes(ctx context.Context) (int, error) {
	count, err := s.supplierRepo.ResetCodesSequentially(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("supplier codes rewritten", zap.Int64("count", count))
	return int(count), nil
}

func strPtr(v string) *string {
	return &v
}
