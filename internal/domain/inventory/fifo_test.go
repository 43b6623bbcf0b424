package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func src(number string, available float64, age time.Duration) SourceRef {
	return SourceRef{
		ID:        uuid.New(),
		Number:    number,
		Available: decimal.NewFromFloat(available),
		CreatedAt: time.Now().Add(-age),
	}
}

func TestPlanFIFO(t *testing.T) {
	t.Run("should drain oldest sources first", func(t *testing.T) {
		sources := []SourceRef{
			src("B", 50, 1*time.Hour),
			src("A", 30, 2*time.Hour), // oldest
			src("C", 40, 30*time.Minute),
		}

		plan, err := PlanFIFO(decimal.NewFromInt(60), sources)

		require.NoError(t, err)
		require.Len(t, plan.Takes, 2)
		assert.Equal(t, "A", plan.Takes[0].SourceNumber)
		assert.True(t, plan.Takes[0].Amount.Equal(decimal.NewFromInt(30)))
		assert.True(t, plan.Takes[0].FullyConsumed)
		assert.Equal(t, "B", plan.Takes[1].SourceNumber)
		assert.True(t, plan.Takes[1].Amount.Equal(decimal.NewFromInt(30)))
		assert.False(t, plan.Takes[1].FullyConsumed)
		assert.True(t, plan.FullyFulfilled)
	})

	t.Run("should conserve quantity across takes", func(t *testing.T) {
		sources := []SourceRef{
			src("A", 12.25, 3*time.Hour),
			src("B", 7.5, 2*time.Hour),
			src("C", 100, 1*time.Hour),
		}
		required := decimal.NewFromFloat(42.75)

		plan, err := PlanFIFO(required, sources)

		require.NoError(t, err)
		sum := decimal.Zero
		for _, take := range plan.Takes {
			sum = sum.Add(take.Amount)
		}
		assert.True(t, sum.Equal(required), "sum of takes %s must equal requested %s", sum, required)
		assert.True(t, plan.TotalTaken.Equal(required))
	})

	t.Run("should report the unfulfilled remainder", func(t *testing.T) {
		sources := []SourceRef{
			src("A", 10, 2*time.Hour),
			src("B", 15, 1*time.Hour),
		}

		plan, err := PlanFIFO(decimal.NewFromInt(40), sources)

		require.NoError(t, err)
		assert.False(t, plan.FullyFulfilled)
		assert.True(t, plan.TotalTaken.Equal(decimal.NewFromInt(25)))
		assert.True(t, plan.Unfulfilled.Equal(decimal.NewFromInt(15)))
	})

	t.Run("should skip drained sources", func(t *testing.T) {
		sources := []SourceRef{
			src("A", 0, 3*time.Hour),
			src("B", 20, 2*time.Hour),
		}

		plan, err := PlanFIFO(decimal.NewFromInt(10), sources)

		require.NoError(t, err)
		require.Len(t, plan.Takes, 1)
		assert.Equal(t, "B", plan.Takes[0].SourceNumber)
	})

	t.Run("should not mutate the caller's slice order", func(t *testing.T) {
		sources := []SourceRef{
			src("B", 50, 1*time.Hour),
			src("A", 30, 2*time.Hour),
		}

		_, err := PlanFIFO(decimal.NewFromInt(10), sources)

		require.NoError(t, err)
		assert.Equal(t, "B", sources[0].Number)
	})

	t.Run("should reject non-positive requests", func(t *testing.T) {
		_, err := PlanFIFO(decimal.Zero, nil)
		assert.Error(t, err)
	})
}

func TestTotalAvailable(t *testing.T) {
	sources := []SourceRef{
		src("A", 10, time.Hour),
		src("B", 0, time.Hour),
		src("C", 5.5, time.Hour),
	}

	assert.True(t, TotalAvailable(sources).Equal(decimal.NewFromFloat(15.5)))
	assert.True(t, TotalAvailable(nil).Equal(decimal.Zero))
}
