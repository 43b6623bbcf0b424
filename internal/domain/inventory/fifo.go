package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teasupply/backend/internal/domain/shared"
)

// SourceRef is a deduction source as seen by the FIFO planner: a supply
// record during lot allocation, or an inventory lot during production
// consumption.
type SourceRef struct {
	ID        uuid.UUID
	Number    string // Business identifier, for logging and results
	Available decimal.Decimal
	CreatedAt time.Time
}

// Take is one planned deduction against a single source
type Take struct {
	SourceID       uuid.UUID       `json:"source_id"`
	SourceNumber   string          `json:"source_number"`
	Amount         decimal.Decimal `json:"amount"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
	FullyConsumed  bool            `json:"fully_consumed"`
}

// Plan is the complete result of a FIFO planning pass
type Plan struct {
	Takes          []Take          `json:"takes"`
	TotalTaken     decimal.Decimal `json:"total_taken"`
	Unfulfilled    decimal.Decimal `json:"unfulfilled"`
	FullyFulfilled bool            `json:"fully_fulfilled"`
}

// TotalAvailable sums the available quantity across sources
func TotalAvailable(sources []SourceRef) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sources {
		if s.Available.GreaterThan(decimal.Zero) {
			total = total.Add(s.Available)
		}
	}
	return total
}

// PlanFIFO allocates the required amount by draining the oldest sources
// first (created_at ascending). The planner is pure: appliers persist each
// take against the real aggregate inside the enclosing transaction.
//
// An unfulfilled remainder after a passed pre-check means another
// operation drained the sources concurrently; callers surface that as
// CONCURRENCY_CONFLICT and roll back.
func PlanFIFO(required decimal.Decimal, sources []SourceRef) (*Plan, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	sorted := make([]SourceRef, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	takes := make([]Take, 0, len(sorted))
	remaining := required
	totalTaken := decimal.Zero

	for _, src := range sorted {
		if remaining.IsZero() {
			break
		}
		if src.Available.LessThanOrEqual(decimal.Zero) {
			continue
		}

		amount := decimal.Min(remaining, src.Available)
		remainingAfter := src.Available.Sub(amount)

		takes = append(takes, Take{
			SourceID:       src.ID,
			SourceNumber:   src.Number,
			Amount:         amount,
			RemainingAfter: remainingAfter,
			FullyConsumed:  remainingAfter.IsZero(),
		})

		totalTaken = totalTaken.Add(amount)
		remaining = remaining.Sub(amount)
	}

	return &Plan{
		Takes:          takes,
		TotalTaken:     totalTaken,
		Unfulfilled:    remaining,
		FullyFulfilled: remaining.IsZero(),
	}, nil
}
