package transfer

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

func newTestTransferOrder(t *testing.T) *TransferOrder {
	t.Helper()
	order, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriorityNormal, uuid.New(), nil)
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *TransferOrder, name string, requested int64) *TransferItem {
	t.Helper()
	item, err := order.AddItem(uuid.New(), name, decimal.NewFromInt(requested), decimal.NewFromInt(5), "", nil)
	require.NoError(t, err)
	return item
}

func TestNewTransferOrder(t *testing.T) {
	t.Run("creates pending order with creation audit entry", func(t *testing.T) {
		requesterID := uuid.New()
		order, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriorityHigh, requesterID, nil)

		require.NoError(t, err)
		assert.Equal(t, TransferOrderStatusPending, order.Status)
		assert.Equal(t, TransferPriorityHigh, order.Priority)
		assert.Equal(t, requesterID, order.RequesterID)
		require.Len(t, order.AuditLog, 1)
		assert.Equal(t, AuditActionCreated, order.AuditLog[0].Action)
		assert.Equal(t, requesterID, order.AuditLog[0].ActorID)
	})

	t.Run("rejects identical warehouses", func(t *testing.T) {
		warehouseID := uuid.New()
		_, err := NewTransferOrder("TRF-202603-0001", warehouseID, warehouseID, TransferPriorityNormal, uuid.New(), nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects missing warehouses", func(t *testing.T) {
		_, err := NewTransferOrder("TRF-202603-0001", uuid.Nil, uuid.New(), TransferPriorityNormal, uuid.New(), nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		_, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriority("WHENEVER"), uuid.New(), nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects missing requester", func(t *testing.T) {
		_, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriorityNormal, uuid.Nil, nil)
		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
	})
}

func TestTransferOrder_Approve(t *testing.T) {
	t.Run("defaults approved quantity to requested", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		approverID := uuid.New()

		err := order.Approve(approverID, nil, "looks fine")

		require.NoError(t, err)
		assert.Equal(t, TransferOrderStatusApproved, order.Status)
		assert.True(t, order.Items[0].QuantityApproved.Equal(decimal.NewFromInt(10)))
		require.NotNil(t, order.ApproverID)
		assert.Equal(t, approverID, *order.ApproverID)
		require.Len(t, order.AuditLog, 2)
		assert.Equal(t, AuditActionApproved, order.AuditLog[1].Action)
		assert.Equal(t, "looks fine", order.AuditLog[1].Comment)
	})

	t.Run("applies partial approval overrides", func(t *testing.T) {
		order := newTestTransferOrder(t)
		reduced := addTestItem(t, order, "Widget", 10)
		addTestItem(t, order, "Gadget", 4)

		err := order.Approve(uuid.New(), map[uuid.UUID]decimal.Decimal{
			reduced.ID: decimal.NewFromInt(6),
		}, "")

		require.NoError(t, err)
		assert.True(t, order.Items[0].QuantityApproved.Equal(decimal.NewFromInt(6)))
		assert.True(t, order.Items[1].QuantityApproved.Equal(decimal.NewFromInt(4)))
	})

	t.Run("zero approval is allowed", func(t *testing.T) {
		order := newTestTransferOrder(t)
		item := addTestItem(t, order, "Widget", 10)

		err := order.Approve(uuid.New(), map[uuid.UUID]decimal.Decimal{
			item.ID: decimal.Zero,
		}, "")

		require.NoError(t, err)
		assert.True(t, order.Items[0].QuantityApproved.IsZero())
	})

	t.Run("rejects approval above requested quantity", func(t *testing.T) {
		order := newTestTransferOrder(t)
		item := addTestItem(t, order, "Widget", 10)

		err := order.Approve(uuid.New(), map[uuid.UUID]decimal.Decimal{
			item.ID: decimal.NewFromInt(11),
		}, "")

		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, TransferOrderStatusPending, order.Status)
	})

	t.Run("rejects override for unknown line", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)

		err := order.Approve(uuid.New(), map[uuid.UUID]decimal.Decimal{
			uuid.New(): decimal.NewFromInt(1),
		}, "")

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects approval without items", func(t *testing.T) {
		order := newTestTransferOrder(t)
		err := order.Approve(uuid.New(), nil, "")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestTransferOrder_Reject(t *testing.T) {
	t.Run("rejects with mandatory reason", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)

		err := order.Reject(uuid.New(), "Destination has no capacity")

		require.NoError(t, err)
		assert.Equal(t, TransferOrderStatusRejected, order.Status)
		assert.Equal(t, "Destination has no capacity", order.RejectionReason)
		assert.True(t, order.Status.IsTerminal())
	})

	t.Run("requires a reason", func(t *testing.T) {
		order := newTestTransferOrder(t)
		err := order.Reject(uuid.New(), "")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("cannot reject approved order", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))

		err := order.Reject(uuid.New(), "too late")
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestTransferOrder_StartAndComplete(t *testing.T) {
	t.Run("start stamps actual transfer date", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))

		err := order.Start(uuid.New())

		require.NoError(t, err)
		assert.Equal(t, TransferOrderStatusInTransit, order.Status)
		assert.NotNil(t, order.ActualTransferDate)
	})

	t.Run("cannot start pending order", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)

		err := order.Start(uuid.New())
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("complete records transferred quantities", func(t *testing.T) {
		order := newTestTransferOrder(t)
		full := addTestItem(t, order, "Widget", 10)
		partial := addTestItem(t, order, "Gadget", 4)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))
		require.NoError(t, order.Start(uuid.New()))

		err := order.Complete(uuid.New(), map[uuid.UUID]decimal.Decimal{
			full.ID:    decimal.NewFromInt(10),
			partial.ID: decimal.NewFromInt(3),
		})

		require.NoError(t, err)
		assert.Equal(t, TransferOrderStatusCompleted, order.Status)
		assert.True(t, order.Items[0].QuantityTransferred.Equal(decimal.NewFromInt(10)))
		assert.True(t, order.Items[1].QuantityTransferred.Equal(decimal.NewFromInt(3)))
	})

	t.Run("complete rejects quantity above approved", func(t *testing.T) {
		order := newTestTransferOrder(t)
		item := addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Approve(uuid.New(), map[uuid.UUID]decimal.Decimal{
			item.ID: decimal.NewFromInt(6),
		}, ""))
		require.NoError(t, order.Start(uuid.New()))

		err := order.Complete(uuid.New(), map[uuid.UUID]decimal.Decimal{
			item.ID: decimal.NewFromInt(7),
		})

		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, TransferOrderStatusInTransit, order.Status)
	})

	t.Run("cannot complete before transit", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))

		err := order.Complete(uuid.New(), nil)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestTransferOrder_Cancel(t *testing.T) {
	t.Run("cancels pending order and appends reason to notes", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)

		err := order.Cancel(uuid.New(), "No longer needed")

		require.NoError(t, err)
		assert.Equal(t, TransferOrderStatusCancelled, order.Status)
		assert.Equal(t, "No longer needed", order.CancelReason)
		assert.Contains(t, order.Notes, "No longer needed")
	})

	t.Run("cancels approved order", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))

		err := order.Cancel(uuid.New(), "Stock reallocated")
		assert.NoError(t, err)
	})

	t.Run("cannot cancel in transit", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))
		require.NoError(t, order.Start(uuid.New()))

		err := order.Cancel(uuid.New(), "changed my mind")
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("requires a reason", func(t *testing.T) {
		order := newTestTransferOrder(t)
		err := order.Cancel(uuid.New(), "")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestTransferOrder_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 2)

	t.Run("overdue when expected date passed while pending", func(t *testing.T) {
		order, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriorityNormal, uuid.New(), &past)
		require.NoError(t, err)
		assert.True(t, order.IsOverdue(now))
	})

	t.Run("not overdue before expected date", func(t *testing.T) {
		order, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriorityNormal, uuid.New(), &future)
		require.NoError(t, err)
		assert.False(t, order.IsOverdue(now))
	})

	t.Run("not overdue without expected date", func(t *testing.T) {
		order := newTestTransferOrder(t)
		assert.False(t, order.IsOverdue(now))
	})

	t.Run("terminal orders are never overdue", func(t *testing.T) {
		order, err := NewTransferOrder("TRF-202603-0001", uuid.New(), uuid.New(), TransferPriorityNormal, uuid.New(), &past)
		require.NoError(t, err)
		addTestItem(t, order, "Widget", 10)
		require.NoError(t, order.Reject(uuid.New(), "no"))
		assert.False(t, order.IsOverdue(now))
	})
}

func TestTransferOrder_CompletionPercent(t *testing.T) {
	t.Run("zero before approval", func(t *testing.T) {
		order := newTestTransferOrder(t)
		addTestItem(t, order, "Widget", 10)
		assert.True(t, order.CompletionPercent().IsZero())
	})

	t.Run("reflects partial completion", func(t *testing.T) {
		order := newTestTransferOrder(t)
		full := addTestItem(t, order, "Widget", 10)
		partial := addTestItem(t, order, "Gadget", 10)
		require.NoError(t, order.Approve(uuid.New(), nil, ""))
		require.NoError(t, order.Start(uuid.New()))
		require.NoError(t, order.Complete(uuid.New(), map[uuid.UUID]decimal.Decimal{
			full.ID:    decimal.NewFromInt(10),
			partial.ID: decimal.NewFromInt(5),
		}))

		assert.True(t, order.CompletionPercent().Equal(decimal.NewFromInt(75)), "got %s", order.CompletionPercent())
	})
}

func TestTransferOrderStatus_Transitions(t *testing.T) {
	assert.True(t, TransferOrderStatusPending.CanTransitionTo(TransferOrderStatusApproved))
	assert.True(t, TransferOrderStatusPending.CanTransitionTo(TransferOrderStatusRejected))
	assert.True(t, TransferOrderStatusPending.CanTransitionTo(TransferOrderStatusCancelled))
	assert.True(t, TransferOrderStatusApproved.CanTransitionTo(TransferOrderStatusInTransit))
	assert.True(t, TransferOrderStatusApproved.CanTransitionTo(TransferOrderStatusCancelled))
	assert.True(t, TransferOrderStatusInTransit.CanTransitionTo(TransferOrderStatusCompleted))

	assert.False(t, TransferOrderStatusPending.CanTransitionTo(TransferOrderStatusInTransit))
	assert.False(t, TransferOrderStatusApproved.CanTransitionTo(TransferOrderStatusPending))
	assert.False(t, TransferOrderStatusInTransit.CanTransitionTo(TransferOrderStatusCancelled))
	assert.False(t, TransferOrderStatusCompleted.CanTransitionTo(TransferOrderStatusPending))
	assert.False(t, TransferOrderStatusRejected.CanTransitionTo(TransferOrderStatusApproved))
	assert.False(t, TransferOrderStatusCancelled.CanTransitionTo(TransferOrderStatusPending))
}
