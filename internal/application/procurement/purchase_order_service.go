package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/warehousely/backend/internal/domain/procurement"
	"github.com/warehousely/backend/internal/domain/shared"
)

// PurchaseOrderService handles purchase order operations outside the
// requisition fan-out path
type PurchaseOrderService struct {
	scope     TransactionScope
	users     UserDirectory
	suppliers SupplierDirectory
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(scope TransactionScope, users UserDirectory, suppliers SupplierDirectory) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:     scope,
		users:     users,
		suppliers: suppliers,
	}
}

// Create creates a draft purchase order without a requisition link
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("NO_ITEMS", "Purchase order requires at least one item")
	}
	supplierName, err := s.suppliers.SupplierName(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	var response PurchaseOrderResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.OrderRepo().GenerateNumber(ctx)
		if err != nil {
			return err
		}
		order, err := procurement.NewPurchaseOrder(number, req.SupplierID, supplierName)
		if err != nil {
			return err
		}
		if req.ExpectedDeliveryDate != nil {
			if err := order.SetExpectedDeliveryDate(*req.ExpectedDeliveryDate); err != nil {
				return err
			}
		}
		for _, item := range req.Items {
			if _, err := order.AddItem(item.ItemID, item.ItemName, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Approve commits a draft order to its supplier
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID, approverID uuid.UUID) (*PurchaseOrderResponse, error) {
	if approverID == uuid.Nil {
		return nil, shared.NewDependencyError("ACTOR_REQUIRED", "Approver must be provided")
	}
	exists, err := s.users.Exists(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDependencyError("APPROVER_NOT_FOUND", "Approver is not a known user")
	}

	var response PurchaseOrderResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Approve(approverID); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Cancel terminally cancels an order with the given reason
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	var response PurchaseOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(reason); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var response PurchaseOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByRequisition retrieves the orders fanned out from a requisition
func (s *PurchaseOrderService) ListByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]PurchaseOrderResponse, error) {
	var responses []PurchaseOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindByRequisition(ctx, requisitionID)
		if err != nil {
			return err
		}
		responses = make([]PurchaseOrderResponse, 0, len(orders))
		for i := range orders {
			responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	var responses []PurchaseOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = make([]PurchaseOrderResponse, 0, len(orders))
		for i := range orders {
			responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
