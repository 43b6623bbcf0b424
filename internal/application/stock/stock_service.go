package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/identifier"
	"github.com/teasupply/backend/internal/domain/inventory"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/domain/supply"
	"go.uber.org/zap"
)

// StockService handles the stock pool: lot allocation from supply records
// and production consumption from lots. Both run the same FIFO deduction
// inside one transaction with the availability pre-check, and retry
// internally when a concurrent deduction is detected.
type StockService struct {
	supplyRepo     supply.SupplyRecordRepository
	lotRepo        inventory.InventoryLotRepository
	productionRepo inventory.ProductionRecordRepository
	txScope        TransactionScope
	lotGenerator   *identifier.Generator
	prodGenerator  *identifier.Generator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	supplyRepo supply.SupplyRecordRepository,
	lotRepo inventory.InventoryLotRepository,
	productionRepo inventory.ProductionRecordRepository,
	txScope TransactionScope,
) *StockService {
	return &StockService{
		supplyRepo:     supplyRepo,
		lotRepo:        lotRepo,
		productionRepo: productionRepo,
		txScope:        txScope,
		lotGenerator: identifier.NewGenerator(identifier.ExistenceCheckerFunc(
			func(ctx context.Context, candidate string) (bool, error) {
				return lotRepo.ExistsByLotNumber(ctx, candidate)
			},
		)),
		prodGenerator: identifier.NewGenerator(identifier.ExistenceCheckerFunc(
			func(ctx context.Context, candidate string) (bool, error) {
				return productionRepo.ExistsByProductionNumber(ctx, candidate)
			},
		)),
		logger: zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger used for partial-deduction audit logging
func (s *StockService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *StockService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// CreateInventoryLot allocates a lot by draining supply records FIFO.
// The availability check and every per-record decrement run in one
// transaction over row-locked records; a shortfall discovered after the
// check passed means a concurrent drain and is retried internally.
func (s *StockService) CreateInventoryLot(ctx context.Context, req CreateInventoryLotRequest) (*InventoryLotResponse, error) {
	quantity := decimal.NewFromFloat(req.Quantity)
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	var lot *inventory.InventoryLot
	var takes []inventory.Take

	err := identifier.RetryOnConflict(ctx, func(ctx context.Context) error {
		lotNumber, err := s.lotGenerator.TimestampID(ctx, identifier.PrefixInventory)
		if err != nil {
			return err
		}

		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			records, err := repos.SupplyRepo().FindAvailableFIFO(ctx)
			if err != nil {
				return err
			}

			byID := make(map[uuid.UUID]*supply.SupplyRecord, len(records))
			sources := make([]inventory.SourceRef, 0, len(records))
			for i := range records {
				record := &records[i]
				byID[record.ID] = record
				sources = append(sources, inventory.SourceRef{
					ID:        record.ID,
					Number:    record.RecordNumber,
					Available: record.RemainingKg,
					CreatedAt: record.CreatedAt,
				})
			}

			if inventory.TotalAvailable(sources).LessThan(quantity) {
				return shared.ErrInsufficientSupply
			}

			plan, err := inventory.PlanFIFO(quantity, sources)
			if err != nil {
				return err
			}
			if !plan.FullyFulfilled {
				// The pre-check passed, so another operation drained the
				// records between our read and theirs. Roll back and retry.
				return shared.ErrConcurrencyConflict
			}

			applied := decimal.Zero
			for _, take := range plan.Takes {
				record := byID[take.SourceID]
				if err := record.Deduct(take.Amount); err != nil {
					return err
				}
				if err := repos.SupplyRepo().Save(ctx, record); err != nil {
					s.logger.Error("lot allocation aborted mid-deduction",
						zap.String("lot_number", lotNumber),
						zap.String("record_number", record.RecordNumber),
						zap.String("deducted_before_failure", applied.String()),
						zap.Error(err))
					return err
				}
				applied = applied.Add(take.Amount)
				s.publish(ctx, record.GetDomainEvents()...)
				record.ClearDomainEvents()
			}

			lot, err = inventory.NewInventoryLot(lotNumber, quantity)
			if err != nil {
				return err
			}
			takes = plan.Takes
			return repos.LotRepo().Save(ctx, lot)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, lot.GetDomainEvents()...)
	lot.ClearDomainEvents()

	response := ToInventoryLotResponse(lot)
	for _, take := range takes {
		response.Deductions = append(response.Deductions, DeductionResponse{
			SourceNumber:   take.SourceNumber,
			Amount:         take.Amount,
			RemainingAfter: take.RemainingAfter,
		})
	}
	return &response, nil
}

// UpdateInventoryLot applies a window-gated quantity edit
func (s *StockService) UpdateInventoryLot(ctx context.Context, id uuid.UUID, req UpdateInventoryLotRequest) (*InventoryLotResponse, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := lot.UpdateQuantity(time.Now(), decimal.NewFromFloat(req.Quantity)); err != nil {
		return nil, err
	}

	if err := s.lotRepo.Save(ctx, lot); err != nil {
		return nil, err
	}

	s.publish(ctx, lot.GetDomainEvents()...)
	lot.ClearDomainEvents()

	response := ToInventoryLotResponse(lot)
	return &response, nil
}

// CreateProductionRecord records a production run by draining inventory
// lots FIFO, under the same transactional contract as lot allocation.
func (s *StockService) CreateProductionRecord(ctx context.Context, req CreateProductionRecordRequest) (*ProductionRecordResponse, error) {
	quantity := decimal.NewFromFloat(req.Quantity)
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	var record *inventory.ProductionRecord
	var takes []inventory.Take

	err := identifier.RetryOnConflict(ctx, func(ctx context.Context) error {
		productionNumber, err := s.prodGenerator.TokenID(ctx, identifier.PrefixProduction)
		if err != nil {
			return err
		}

		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			lots, err := repos.LotRepo().FindAvailableFIFO(ctx)
			if err != nil {
				return err
			}

			byID := make(map[uuid.UUID]*inventory.InventoryLot, len(lots))
			sources := make([]inventory.SourceRef, 0, len(lots))
			for i := range lots {
				lot := &lots[i]
				byID[lot.ID] = lot
				sources = append(sources, inventory.SourceRef{
					ID:        lot.ID,
					Number:    lot.LotNumber,
					Available: lot.RemainingQty,
					CreatedAt: lot.CreatedAt,
				})
			}

			if inventory.TotalAvailable(sources).LessThan(quantity) {
				return shared.ErrInsufficientInventory
			}

			plan, err := inventory.PlanFIFO(quantity, sources)
			if err != nil {
				return err
			}
			if !plan.FullyFulfilled {
				return shared.ErrConcurrencyConflict
			}

			applied := decimal.Zero
			for _, take := range plan.Takes {
				lot := byID[take.SourceID]
				if err := lot.Deduct(take.Amount); err != nil {
					return err
				}
				if err := repos.LotRepo().Save(ctx, lot); err != nil {
					s.logger.Error("production aborted mid-deduction",
						zap.String("production_number", productionNumber),
						zap.String("lot_number", lot.LotNumber),
						zap.String("deducted_before_failure", applied.String()),
						zap.Error(err))
					return err
				}
				applied = applied.Add(take.Amount)
				s.publish(ctx, lot.GetDomainEvents()...)
				lot.ClearDomainEvents()
			}

			record, err = inventory.NewProductionRecord(productionNumber, quantity, req.ProductionDate, req.ProductionTime)
			if err != nil {
				return err
			}
			takes = plan.Takes
			return repos.ProductionRepo().Save(ctx, record)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, record.GetDomainEvents()...)
	record.ClearDomainEvents()

	response := ToProductionRecordResponse(record)
	for _, take := range takes {
		response.Deductions = append(response.Deductions, DeductionResponse{
			SourceNumber:   take.SourceNumber,
			Amount:         take.Amount,
			RemainingAfter: take.RemainingAfter,
		})
	}
	return &response, nil
}

// GetInventoryLot retrieves a lot by internal id
func (s *StockService) GetInventoryLot(ctx context.Context, id uuid.UUID) (*InventoryLotResponse, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInventoryLotResponse(lot)
	return &response, nil
}

// ListInventoryLots retrieves lots with pagination
func (s *StockService) ListInventoryLots(ctx context.Context, filter ListFilter) ([]InventoryLotResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	lots, err := s.lotRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lotRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToInventoryLotResponses(lots), total, nil
}

// ListProductionRecords retrieves production records with pagination
func (s *StockService) ListProductionRecords(ctx context.Context, filter ListFilter) ([]ProductionRecordResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	records, err := s.productionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductionRecordResponses(records), total, nil
}

// Summary reports the available totals of both pools
func (s *StockService) Summary(ctx context.Context) (*StockSummaryResponse, error) {
	supplyTotal, err := s.supplyRepo.TotalRemaining(ctx)
	if err != nil {
		return nil, err
	}
	lotTotal, err := s.lotRepo.TotalRemaining(ctx)
	if err != nil {
		return nil, err
	}
	return &StockSummaryResponse{
		SupplyAvailable:    supplyTotal,
		InventoryAvailable: lotTotal,
	}, nil
}

func toDomainFilter(filter ListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
}
