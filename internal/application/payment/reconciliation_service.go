package payment

import (
	"context"

	"github.com/teasupply/backend/internal/domain/payment"
)

// ReconciliationService builds the unified payment view: real payment rows
// plus supply records with no payment row, synthesized as pending entries.
// A supply record never appears on both sides.
type ReconciliationService struct {
	recon payment.ReconciliationRepository
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(recon payment.ReconciliationRepository) *ReconciliationService {
	return &ReconciliationService{recon: recon}
}

// ListPayments returns the merged ledger, newest first, limited after the
// merge so both sides compete for the same window
func (s *ReconciliationService) ListPayments(ctx context.Context, filter ListPaymentsFilter) ([]payment.LedgerEntry, error) {
	domainFilter := toDomainListFilter(filter)

	real, err := s.recon.ListRealPayments(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	synthetic, err := s.recon.ListUnbilledSupplyRecords(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	return payment.MergeEntries(real, synthetic, domainFilter.Limit), nil
}

// Statistics computes the merged aggregates. The average is taken over real
// completed payment rows only.
func (s *ReconciliationService) Statistics(ctx context.Context, filter ListPaymentsFilter) (*payment.Statistics, error) {
	domainFilter := toDomainListFilter(filter)

	paymentSide, err := s.recon.PaymentAggregates(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	supplySide, err := s.recon.SupplyAggregates(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	stats := payment.MergeStatistics(paymentSide, supplySide)
	return &stats, nil
}
