package identifier

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/teasupply/backend/internal/domain/shared"
)

// Business identifier prefixes
const (
	PrefixSupply     = "SUP"
	PrefixInventory  = "INV"
	PrefixProduction = "PROD"
	PrefixPayment    = "PAY"
)

// MaxAttempts bounds the collision retry loop. Exceeding it returns
// GENERATION_EXHAUSTED, which signals systemic contention rather than bad luck.
const MaxAttempts = 100

// SupplierCodePattern matches supplier business codes (SUP + 6 digits)
var SupplierCodePattern = regexp.MustCompile(`^SUP(\d{6})$`)

// ExistenceChecker reports whether a candidate business identifier is
// already taken. The storage layer's uniqueness constraint remains the
// final authority; this check only shrinks the collision window.
type ExistenceChecker interface {
	Exists(ctx context.Context, candidate string) (bool, error)
}

// ExistenceCheckerFunc adapts a function to the ExistenceChecker interface
type ExistenceCheckerFunc func(ctx context.Context, candidate string) (bool, error)

// Exists calls the underlying function
func (f ExistenceCheckerFunc) Exists(ctx context.Context, candidate string) (bool, error) {
	return f(ctx, candidate)
}

// Generator produces collision-checked, human-readable business identifiers.
// It is safe for concurrent use.
type Generator struct {
	checker ExistenceChecker
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator backed by the given existence checker
func NewGenerator(checker ExistenceChecker) *Generator {
	return &Generator{
		checker: checker,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock overrides the time source (for tests)
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) randIntn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// TimestampID generates an identifier of the form PREFIX-YYYYMMDD-HHMM,
// appending an incrementing -NN suffix on collision.
// Used for supply record and inventory lot identifiers.
func (g *Generator) TimestampID(ctx context.Context, prefix string) (string, error) {
	base := fmt.Sprintf("%s-%s", prefix, g.now().Format("20060102-1504"))

	candidate := base
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		taken, err := g.checker.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%02d", base, attempt)
	}
	return "", shared.ErrGenerationExhausted
}

// TokenID generates an identifier of the form PREFIX-<base36 unix>-<6 char token>.
// A fresh random token is drawn on every attempt, so collisions resolve by
// re-rolling rather than suffixing. Used for production record identifiers.
func (g *Generator) TokenID(ctx context.Context, prefix string) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%s-%s",
			prefix,
			strconv.FormatInt(g.now().Unix(), 36),
			g.randomToken(6),
		)
		taken, err := g.checker.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", shared.ErrGenerationExhausted
}

// PaymentID generates an identifier of the form PAY_<unix>_<3 digit random>
func (g *Generator) PaymentID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s_%d_%03d", PrefixPayment, g.now().Unix(), g.randIntn(1000))
		taken, err := g.checker.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", shared.ErrGenerationExhausted
}

func (g *Generator) randomToken(length int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[g.randIntn(len(alphabet))])
	}
	return b.String()
}

// FormatSupplierCode renders a numeric sequence value as a supplier code
func FormatSupplierCode(n int) string {
	return fmt.Sprintf("SUP%06d", n)
}

// ParseSupplierCode extracts the numeric sequence value from a supplier code.
// Returns false when the code does not match SUP + 6 digits.
func ParseSupplierCode(code string) (int, bool) {
	m := SupplierCodePattern.FindStringSubmatch(code)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FallbackSupplierCode derives a supplier code from the clock when the
// monotonic sequence cannot be issued. Non-monotonic but unique with very
// high probability.
func FallbackSupplierCode(now time.Time) string {
	ms := now.UnixMilli()
	return fmt.Sprintf("SUP%06d", ms%1000000)
}
