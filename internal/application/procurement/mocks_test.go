package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/procurement"
	"github.com/warehousely/backend/internal/domain/shared"
)

// MockRequisitionRepository is a mock implementation of RequisitionRepository
type MockRequisitionRepository struct {
	mock.Mock
}

func (m *MockRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Requisition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Requisition, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) Save(ctx context.Context, requisition *procurement.Requisition) error {
	args := m.Called(ctx, requisition)
	return args.Error(0)
}

func (m *MockRequisitionRepository) ExistsPendingWithItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequisitionRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) ExistsOpenForRequisitionAndSupplier(ctx context.Context, requisitionID, supplierID uuid.UUID) (bool, error) {
	args := m.Called(ctx, requisitionID, supplierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockUserDirectory is a mock implementation of UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockSupplierDirectory is a mock implementation of SupplierDirectory
type MockSupplierDirectory struct {
	mock.Mock
}

func (m *MockSupplierDirectory) SupplierName(ctx context.Context, supplierID uuid.UUID) (string, error) {
	args := m.Called(ctx, supplierID)
	return args.String(0), args.Error(1)
}

// MockSnapshotProvider is a mock implementation of inventory.SnapshotProvider
type MockSnapshotProvider struct {
	mock.Mock
}

func (m *MockSnapshotProvider) List(ctx context.Context, activeOnly bool) ([]inventory.ItemStock, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ItemStock), args.Error(1)
}

// snapshotItem builds an ItemStock owned by the given supplier
func snapshotItem(id uuid.UUID, name string, supplierID *uuid.UUID, unitCost decimal.Decimal) inventory.ItemStock {
	return inventory.ItemStock{
		ID:           id,
		SKU:          "SKU-" + name,
		Name:         name,
		CategoryID:   uuid.New(),
		CurrentStock: decimal.NewFromInt(5),
		ReorderPoint: decimal.NewFromInt(10),
		UnitCost:     unitCost,
		SupplierID:   supplierID,
		Active:       true,
	}
}
