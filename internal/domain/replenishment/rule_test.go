package replenishment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousely/backend/internal/domain/shared"
)

func TestNewRule(t *testing.T) {
	creator := uuid.New()

	t.Run("creates stock level rule", func(t *testing.T) {
		rule, err := NewRule("low stock", RuleKindStockLevel, RuleParams{
			ThresholdPercent: decimal.NewFromInt(20),
		}, 10, creator)

		require.NoError(t, err)
		assert.Equal(t, "low stock", rule.Name)
		assert.Equal(t, RuleKindStockLevel, rule.Kind)
		assert.True(t, rule.Active)
		assert.Equal(t, 1, rule.Version)
		require.NotNil(t, rule.CreatedBy)
		assert.Equal(t, creator, *rule.CreatedBy)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRule("", RuleKindStockLevel, RuleParams{}, 10, creator)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewRule("bad", RuleKind("WEATHER_BASED"), RuleParams{}, 10, creator)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects missing creator", func(t *testing.T) {
		_, err := NewRule("low stock", RuleKindStockLevel, RuleParams{}, 10, uuid.Nil)
		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
	})

	t.Run("time based rule requires valid trigger day", func(t *testing.T) {
		_, err := NewRule("monthly", RuleKindTimeBased, RuleParams{TriggerDay: 0}, 10, creator)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = NewRule("monthly", RuleKindTimeBased, RuleParams{TriggerDay: 32}, 10, creator)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = NewRule("monthly", RuleKindTimeBased, RuleParams{TriggerDay: 31}, 10, creator)
		assert.NoError(t, err)
	})

	t.Run("category based rule requires categories and a positive threshold", func(t *testing.T) {
		_, err := NewRule("category", RuleKindCategoryBased, RuleParams{
			StockThreshold: decimal.NewFromInt(10),
		}, 10, creator)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = NewRule("category", RuleKindCategoryBased, RuleParams{
			CategoryIDs: []uuid.UUID{uuid.New()},
		}, 10, creator)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = NewRule("category", RuleKindCategoryBased, RuleParams{
			CategoryIDs:    []uuid.UUID{uuid.New()},
			StockThreshold: decimal.NewFromInt(10),
		}, 10, creator)
		assert.NoError(t, err)
	})
}

func TestRule_ActivateDeactivate(t *testing.T) {
	rule, err := NewRule("low stock", RuleKindStockLevel, RuleParams{}, 10, uuid.New())
	require.NoError(t, err)

	rule.Deactivate()
	assert.False(t, rule.Active)
	assert.Equal(t, 2, rule.Version)

	rule.Activate()
	assert.True(t, rule.Active)
	assert.Equal(t, 3, rule.Version)
}

func TestExecution(t *testing.T) {
	ruleID := uuid.New()
	executedAt := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	t.Run("success execution carries the suggestion count", func(t *testing.T) {
		execution := NewSuccessExecution(ruleID, executedAt, 3)

		assert.Equal(t, ruleID, execution.RuleID)
		assert.Equal(t, ExecutionOutcomeSuccess, execution.Outcome)
		assert.Equal(t, 3, execution.SuggestionCount)
		assert.True(t, execution.IsSuccess())
		assert.Empty(t, execution.ErrorMessage)
	})

	t.Run("failed execution carries the error message", func(t *testing.T) {
		execution := NewFailedExecution(ruleID, executedAt, "snapshot unavailable")

		assert.Equal(t, ExecutionOutcomeFailed, execution.Outcome)
		assert.False(t, execution.IsSuccess())
		assert.Equal(t, "snapshot unavailable", execution.ErrorMessage)
		assert.Zero(t, execution.SuggestionCount)
	})

	t.Run("links generated requisitions", func(t *testing.T) {
		execution := NewSuccessExecution(ruleID, executedAt, 2)
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		execution.LinkRequisitions(ids)

		assert.Equal(t, ids, execution.RequisitionIDs)
	})
}
