package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teasupply/backend/internal/domain/shared"
)

// SupplierRepository defines the persistence operations for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// MaxCodeNumber returns the highest numeric suffix among codes matching
	// the SUP + 6 digits format, or zero when none exist
	MaxCodeNumber(ctx context.Context) (int, error)

	// ResetCodesSequentially rewrites every supplier code to the sequential
	// format in creation order, atomically. A failure leaves all codes
	// untouched. Returns the number of suppliers rewritten.
	ResetCodesSequentially(ctx context.Context) (int64, error)

	// BulkDeactivateDormant flips active suppliers created before the cutoff
	// with no supply activity since the cutoff to inactive, as one
	// conditional update. Returns the number of rows changed.
	BulkDeactivateDormant(ctx context.Context, cutoff time.Time) (int64, error)

	Save(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
