package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/shared"
	"github.com/warehousely/backend/internal/domain/transfer"
)

// UserDirectory resolves user existence for workflow actors
type UserDirectory interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TransferOrderService handles the warehouse transfer workflow. Completion
// writes the order state and its two ledger movements per line in one
// transaction.
type TransferOrderService struct {
	scope TransactionScope
	users UserDirectory
}

// NewTransferOrderService creates a new TransferOrderService
func NewTransferOrderService(scope TransactionScope, users UserDirectory) *TransferOrderService {
	return &TransferOrderService{
		scope: scope,
		users: users,
	}
}

func (s *TransferOrderService) requireUser(ctx context.Context, userID uuid.UUID, code string) error {
	if userID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Actor must be provided")
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDependencyError(code, "Actor is not a known user")
	}
	return nil
}

// Create creates a pending transfer order
func (s *TransferOrderService) Create(ctx context.Context, req CreateTransferOrderRequest) (*TransferOrderResponse, error) {
	if err := s.requireUser(ctx, req.RequesterID, "REQUESTER_NOT_FOUND"); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("NO_ITEMS", "Transfer order requires at least one item")
	}

	var response TransferOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.OrderRepo().GenerateNumber(ctx, time.Now())
		if err != nil {
			return err
		}
		order, err := transfer.NewTransferOrder(number, req.SourceWarehouseID, req.DestWarehouseID,
			transfer.TransferPriority(req.Priority), req.RequesterID, req.ExpectedTransferDate)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := order.AddItem(item.ItemID, item.ItemName, item.Quantity, item.UnitCost, item.BatchNumber, item.ExpiryDate); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		response = ToTransferOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Approve approves a pending order, optionally reducing per-line quantities
func (s *TransferOrderService) Approve(ctx context.Context, orderID uuid.UUID, req ApproveTransferOrderRequest) (*TransferOrderResponse, error) {
	if err := s.requireUser(ctx, req.ApproverID, "APPROVER_NOT_FOUND"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, orderID, func(order *transfer.TransferOrder) error {
		return order.Approve(req.ApproverID, req.ItemApprovals, req.Comment)
	})
}

// Reject rejects a pending order with the given reason
func (s *TransferOrderService) Reject(ctx context.Context, orderID, approverID uuid.UUID, reason string) (*TransferOrderResponse, error) {
	if err := s.requireUser(ctx, approverID, "APPROVER_NOT_FOUND"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, orderID, func(order *transfer.TransferOrder) error {
		return order.Reject(approverID, reason)
	})
}

// Start marks an approved order as in transit
func (s *TransferOrderService) Start(ctx context.Context, orderID, actorID uuid.UUID) (*TransferOrderResponse, error) {
	if err := s.requireUser(ctx, actorID, "ACTOR_NOT_FOUND"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, orderID, func(order *transfer.TransferOrder) error {
		return order.Start(actorID)
	})
}

// Cancel cancels a pending or approved order with the given reason
func (s *TransferOrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, reason string) (*TransferOrderResponse, error) {
	if err := s.requireUser(ctx, actorID, "ACTOR_NOT_FOUND"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, orderID, func(order *transfer.TransferOrder) error {
		return order.Cancel(actorID, reason)
	})
}

// Complete records the received quantities, completes the order, and appends
// an OUT movement at the source and an IN movement at the destination for
// every line that actually moved. All writes share one transaction.
func (s *TransferOrderService) Complete(ctx context.Context, orderID uuid.UUID, req CompleteTransferOrderRequest) (*TransferOrderResponse, error) {
	if err := s.requireUser(ctx, req.ActorID, "ACTOR_NOT_FOUND"); err != nil {
		return nil, err
	}

	var response TransferOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Complete(req.ActorID, req.ItemCompletions); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		occurredAt := time.Now()
		for i := range order.Items {
			item := &order.Items[i]
			if item.QuantityTransferred.IsZero() {
				continue
			}

			out, err := inventory.NewStockMovement(item.ItemID, item.ItemName, order.SourceWarehouseID,
				inventory.MovementDirectionOut, item.QuantityTransferred, item.UnitCost,
				inventory.MovementSourceTransferOrder, order.ID, occurredAt)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Append(ctx, out); err != nil {
				return err
			}

			in, err := inventory.NewStockMovement(item.ItemID, item.ItemName, order.DestWarehouseID,
				inventory.MovementDirectionIn, item.QuantityTransferred, item.UnitCost,
				inventory.MovementSourceTransferOrder, order.ID, occurredAt)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Append(ctx, in); err != nil {
				return err
			}
		}

		response = ToTransferOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a transfer order by ID
func (s *TransferOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*TransferOrderResponse, error) {
	var response TransferOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		response = ToTransferOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves transfer orders with filtering and pagination
func (s *TransferOrderService) List(ctx context.Context, filter TransferOrderListFilter) ([]TransferOrderResponse, error) {
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
	if filter.SourceWarehouseID != nil {
		domainFilter.Filters["source_warehouse_id"] = *filter.SourceWarehouseID
	}
	if filter.DestWarehouseID != nil {
		domainFilter.Filters["dest_warehouse_id"] = *filter.DestWarehouseID
	}

	var responses []TransferOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = make([]TransferOrderResponse, 0, len(orders))
		for i := range orders {
			responses = append(responses, ToTransferOrderResponse(&orders[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ListOverdue retrieves orders whose expected transfer date has passed while
// still pending or approved
func (s *TransferOrderService) ListOverdue(ctx context.Context) ([]TransferOrderResponse, error) {
	var responses []TransferOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindOverdue(ctx, time.Now())
		if err != nil {
			return err
		}
		responses = make([]TransferOrderResponse, 0, len(orders))
		for i := range orders {
			responses = append(responses, ToTransferOrderResponse(&orders[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// mutate loads the order, applies fn, and saves, all in one transaction
func (s *TransferOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *transfer.TransferOrder) error) (*TransferOrderResponse, error) {
	var response TransferOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		response = ToTransferOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}
