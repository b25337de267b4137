package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/procurement"
	"github.com/warehousely/backend/internal/domain/replenishment"
	"github.com/warehousely/backend/internal/domain/shared"
)

type serviceFixture struct {
	requisitionRepo *MockRequisitionRepository
	orderRepo       *MockPurchaseOrderRepository
	users           *MockUserDirectory
	suppliers       *MockSupplierDirectory
	snapshot        *MockSnapshotProvider
	service         *RequisitionService
}

func newServiceFixture(defaultSupplierID uuid.UUID) *serviceFixture {
	requisitionRepo := new(MockRequisitionRepository)
	orderRepo := new(MockPurchaseOrderRepository)
	users := new(MockUserDirectory)
	suppliers := new(MockSupplierDirectory)
	snapshot := new(MockSnapshotProvider)

	scope := NewNoOpTransactionScope(requisitionRepo, orderRepo)
	planner := NewFanOutPlanner(snapshot, suppliers, defaultSupplierID, 7)

	return &serviceFixture{
		requisitionRepo: requisitionRepo,
		orderRepo:       orderRepo,
		users:           users,
		suppliers:       suppliers,
		snapshot:        snapshot,
		service:         NewRequisitionService(scope, users, planner),
	}
}

func TestRequisitionService_CreateManual(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending requisition", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		f.users.On("Exists", ctx, requesterID).Return(true, nil)
		f.requisitionRepo.On("GenerateNumber", ctx).Return("REQ-2026-00001", nil)
		f.requisitionRepo.On("Save", ctx, mock.AnythingOfType("*procurement.Requisition")).Return(nil)

		response, err := f.service.CreateManual(ctx, CreateRequisitionRequest{
			RequesterID: requesterID,
			Items: []RequisitionItemInput{
				{ItemID: uuid.New(), ItemName: "Widget", Quantity: decimal.NewFromInt(10)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "REQ-2026-00001", response.Number)
		assert.Equal(t, "PENDING", response.Status)
		assert.Equal(t, "MANUAL", response.Source)
		assert.Equal(t, 1, response.ItemCount)
		f.requisitionRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown requester", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		f.users.On("Exists", ctx, requesterID).Return(false, nil)

		_, err := f.service.CreateManual(ctx, CreateRequisitionRequest{
			RequesterID: requesterID,
			Items: []RequisitionItemInput{
				{ItemID: uuid.New(), ItemName: "Widget", Quantity: decimal.NewFromInt(10)},
			},
		})

		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
		f.requisitionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing requester without directory lookup", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)

		_, err := f.service.CreateManual(ctx, CreateRequisitionRequest{RequesterID: uuid.Nil})

		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
		f.users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		f.users.On("Exists", ctx, requesterID).Return(true, nil)

		_, err := f.service.CreateManual(ctx, CreateRequisitionRequest{RequesterID: requesterID})

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestRequisitionService_CreateFromSuggestions(t *testing.T) {
	ctx := context.Background()

	newSuggestion := func(itemID uuid.UUID, name string) replenishment.Suggestion {
		return replenishment.Suggestion{
			RuleID:   uuid.New(),
			ItemID:   itemID,
			ItemName: name,
			Quantity: decimal.NewFromInt(30),
			Urgency:  replenishment.UrgencyCritical,
		}
	}

	t.Run("creates one requisition per suggestion", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		first := newSuggestion(uuid.New(), "Widget")
		second := newSuggestion(uuid.New(), "Gadget")

		f.users.On("Exists", ctx, requesterID).Return(true, nil)
		f.requisitionRepo.On("ExistsPendingWithItem", ctx, first.ItemID).Return(false, nil)
		f.requisitionRepo.On("ExistsPendingWithItem", ctx, second.ItemID).Return(false, nil)
		f.requisitionRepo.On("GenerateNumber", ctx).Return("REQ-2026-00002", nil).Once()
		f.requisitionRepo.On("GenerateNumber", ctx).Return("REQ-2026-00003", nil).Once()
		f.requisitionRepo.On("Save", ctx, mock.AnythingOfType("*procurement.Requisition")).Return(nil)

		result, err := f.service.CreateFromSuggestions(ctx, requesterID, []replenishment.Suggestion{first, second})

		require.NoError(t, err)
		assert.Len(t, result.RequisitionIDs, 2)
		assert.Empty(t, result.SkippedItemIDs)
		f.requisitionRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("skips items already pending", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		duplicate := newSuggestion(uuid.New(), "Widget")
		fresh := newSuggestion(uuid.New(), "Gadget")

		f.users.On("Exists", ctx, requesterID).Return(true, nil)
		f.requisitionRepo.On("ExistsPendingWithItem", ctx, duplicate.ItemID).Return(true, nil)
		f.requisitionRepo.On("ExistsPendingWithItem", ctx, fresh.ItemID).Return(false, nil)
		f.requisitionRepo.On("GenerateNumber", ctx).Return("REQ-2026-00004", nil)
		f.requisitionRepo.On("Save", ctx, mock.AnythingOfType("*procurement.Requisition")).Return(nil)

		result, err := f.service.CreateFromSuggestions(ctx, requesterID, []replenishment.Suggestion{duplicate, fresh})

		require.NoError(t, err)
		assert.Len(t, result.RequisitionIDs, 1)
		assert.Equal(t, []uuid.UUID{duplicate.ItemID}, result.SkippedItemIDs)
		f.requisitionRepo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("empty suggestion list creates nothing", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		f.users.On("Exists", ctx, requesterID).Return(true, nil)

		result, err := f.service.CreateFromSuggestions(ctx, requesterID, nil)

		require.NoError(t, err)
		assert.Empty(t, result.RequisitionIDs)
	})

	t.Run("rejects a requester the directory no longer knows", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		requesterID := uuid.New()
		f.users.On("Exists", ctx, requesterID).Return(false, nil)

		_, err := f.service.CreateFromSuggestions(ctx, requesterID, []replenishment.Suggestion{
			newSuggestion(uuid.New(), "Widget"),
		})

		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
		f.requisitionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRequisitionService_Approve(t *testing.T) {
	ctx := context.Background()

	newPendingRequisition := func(t *testing.T, itemID uuid.UUID, itemName string) *procurement.Requisition {
		t.Helper()
		requisition, err := procurement.NewRequisition("REQ-2026-00001", uuid.New(), procurement.RequisitionSourceManual)
		require.NoError(t, err)
		_, err = requisition.AddItem(itemID, itemName, decimal.NewFromInt(10))
		require.NoError(t, err)
		return requisition
	}

	t.Run("approves and fans out one order per supplier", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		supplierA := uuid.New()
		supplierB := uuid.New()
		widgetID := uuid.New()
		gadgetID := uuid.New()

		requisition := newPendingRequisition(t, widgetID, "Widget")
		_, err := requisition.AddItem(gadgetID, "Gadget", decimal.NewFromInt(4))
		require.NoError(t, err)

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)
		f.requisitionRepo.On("Save", ctx, requisition).Return(nil)
		f.snapshot.On("List", ctx, false).Return([]inventory.ItemStock{
			snapshotItem(widgetID, "Widget", &supplierA, decimal.NewFromInt(2)),
			snapshotItem(gadgetID, "Gadget", &supplierB, decimal.NewFromInt(3)),
		}, nil)
		f.orderRepo.On("ExistsOpenForRequisitionAndSupplier", ctx, requisition.ID, supplierA).Return(false, nil)
		f.orderRepo.On("ExistsOpenForRequisitionAndSupplier", ctx, requisition.ID, supplierB).Return(false, nil)
		f.suppliers.On("SupplierName", ctx, supplierA).Return("Acme Supplies", nil)
		f.suppliers.On("SupplierName", ctx, supplierB).Return("Bolt Traders", nil)
		f.orderRepo.On("GenerateNumber", ctx).Return("PO-2026-00001", nil).Once()
		f.orderRepo.On("GenerateNumber", ctx).Return("PO-2026-00002", nil).Once()
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

		result, err := f.service.Approve(ctx, requisition.ID, approverID)

		require.NoError(t, err)
		assert.Equal(t, "INWARD_APPROVED", result.Requisition.Status)
		require.Len(t, result.Orders, 2)
		for _, order := range result.Orders {
			assert.Equal(t, "DRAFT", order.Status)
			require.NotNil(t, order.RequisitionID)
			assert.Equal(t, requisition.ID, *order.RequisitionID)
			assert.Len(t, order.Items, 1)
			assert.NotNil(t, order.ExpectedDeliveryDate)
		}
		f.orderRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("skips suppliers that already have an open order", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		supplierID := uuid.New()
		widgetID := uuid.New()
		requisition := newPendingRequisition(t, widgetID, "Widget")

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)
		f.requisitionRepo.On("Save", ctx, requisition).Return(nil)
		f.snapshot.On("List", ctx, false).Return([]inventory.ItemStock{
			snapshotItem(widgetID, "Widget", &supplierID, decimal.NewFromInt(2)),
		}, nil)
		f.orderRepo.On("ExistsOpenForRequisitionAndSupplier", ctx, requisition.ID, supplierID).Return(true, nil)

		result, err := f.service.Approve(ctx, requisition.ID, approverID)

		require.NoError(t, err)
		assert.Empty(t, result.Orders)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the default supplier", func(t *testing.T) {
		defaultSupplierID := uuid.New()
		f := newServiceFixture(defaultSupplierID)
		approverID := uuid.New()
		widgetID := uuid.New()
		requisition := newPendingRequisition(t, widgetID, "Widget")

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)
		f.requisitionRepo.On("Save", ctx, requisition).Return(nil)
		f.snapshot.On("List", ctx, false).Return([]inventory.ItemStock{
			snapshotItem(widgetID, "Widget", nil, decimal.NewFromInt(2)),
		}, nil)
		f.orderRepo.On("ExistsOpenForRequisitionAndSupplier", ctx, requisition.ID, defaultSupplierID).Return(false, nil)
		f.suppliers.On("SupplierName", ctx, defaultSupplierID).Return("House Supplier", nil)
		f.orderRepo.On("GenerateNumber", ctx).Return("PO-2026-00003", nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

		result, err := f.service.Approve(ctx, requisition.ID, approverID)

		require.NoError(t, err)
		require.Len(t, result.Orders, 1)
		assert.Equal(t, defaultSupplierID, result.Orders[0].SupplierID)
		assert.Equal(t, "House Supplier", result.Orders[0].SupplierName)
	})

	t.Run("fails when an item has no supplier and no default is configured", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		widgetID := uuid.New()
		requisition := newPendingRequisition(t, widgetID, "Widget")

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)
		f.requisitionRepo.On("Save", ctx, requisition).Return(nil)
		f.snapshot.On("List", ctx, false).Return([]inventory.ItemStock{
			snapshotItem(widgetID, "Widget", nil, decimal.NewFromInt(2)),
		}, nil)

		_, err := f.service.Approve(ctx, requisition.ID, approverID)

		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("second approval fails with invalid state", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		requisition := newPendingRequisition(t, uuid.New(), "Widget")
		require.NoError(t, requisition.Approve(uuid.New()))

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)

		_, err := f.service.Approve(ctx, requisition.ID, approverID)

		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		f.requisitionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown approver", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		f.users.On("Exists", ctx, approverID).Return(false, nil)

		_, err := f.service.Approve(ctx, uuid.New(), approverID)

		assert.True(t, errors.Is(err, shared.ErrDependencyFailed))
	})
}

func TestRequisitionService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects pending requisition", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		requisition, err := procurement.NewRequisition("REQ-2026-00001", uuid.New(), procurement.RequisitionSourceManual)
		require.NoError(t, err)
		_, err = requisition.AddItem(uuid.New(), "Widget", decimal.NewFromInt(10))
		require.NoError(t, err)

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)
		f.requisitionRepo.On("Save", ctx, requisition).Return(nil)

		response, err := f.service.Reject(ctx, requisition.ID, approverID, "Budget exceeded")

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", response.Status)
		assert.Equal(t, "Budget exceeded", response.RejectionReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newServiceFixture(uuid.Nil)
		approverID := uuid.New()
		requisition, err := procurement.NewRequisition("REQ-2026-00001", uuid.New(), procurement.RequisitionSourceManual)
		require.NoError(t, err)

		f.users.On("Exists", ctx, approverID).Return(true, nil)
		f.requisitionRepo.On("FindByID", ctx, requisition.ID).Return(requisition, nil)

		_, err = f.service.Reject(ctx, requisition.ID, approverID, "")

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}
