package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warehousely/backend/internal/domain/procurement"
	"github.com/warehousely/backend/internal/domain/replenishment"
	"github.com/warehousely/backend/internal/domain/shared"
)

// UserDirectory resolves user existence. Users are owned by the identity side
// of the system; requisitions only need to know the actor is real.
type UserDirectory interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequisitionService handles the requisition approval workflow. Approval and
// its purchase-order fan-out run inside one transaction scope so a requisition
// can never end up approved without its orders.
type RequisitionService struct {
	scope   TransactionScope
	users   UserDirectory
	planner *FanOutPlanner
}

// NewRequisitionService creates a new RequisitionService
func NewRequisitionService(scope TransactionScope, users UserDirectory, planner *FanOutPlanner) *RequisitionService {
	return &RequisitionService{
		scope:   scope,
		users:   users,
		planner: planner,
	}
}

// CreateManual creates a pending requisition from a hand-entered request
func (s *RequisitionService) CreateManual(ctx context.Context, req CreateRequisitionRequest) (*RequisitionResponse, error) {
	if req.RequesterID == uuid.Nil {
		return nil, shared.NewDependencyError("ACTOR_REQUIRED", "Requester must be provided")
	}
	exists, err := s.users.Exists(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDependencyError("REQUESTER_NOT_FOUND", "Requester is not a known user")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("NO_ITEMS", "Requisition requires at least one item")
	}

	var response RequisitionResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.RequisitionRepo().GenerateNumber(ctx)
		if err != nil {
			return err
		}
		requisition, err := procurement.NewRequisition(number, req.RequesterID, procurement.RequisitionSourceManual)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := requisition.AddItem(item.ItemID, item.ItemName, item.Quantity); err != nil {
				return err
			}
		}
		if err := repos.RequisitionRepo().Save(ctx, requisition); err != nil {
			return err
		}
		response = ToRequisitionResponse(requisition)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateFromSuggestions materializes rule suggestions into pending
// requisitions, one single-item requisition per suggestion. Items that
// already appear on any pending requisition are skipped, and the existence
// check runs inside the same transaction as the insert so concurrent passes
// cannot both create a requisition for the same item.
func (s *RequisitionService) CreateFromSuggestions(ctx context.Context, requesterID uuid.UUID, suggestions []replenishment.Suggestion) (*CreateFromSuggestionsResult, error) {
	if requesterID == uuid.Nil {
		return nil, shared.NewDependencyError("ACTOR_REQUIRED", "Requester must be provided")
	}
	exists, err := s.users.Exists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDependencyError("REQUESTER_NOT_FOUND", "Requester is not a known user")
	}

	result := &CreateFromSuggestionsResult{
		RequisitionIDs: make([]uuid.UUID, 0, len(suggestions)),
		SkippedItemIDs: make([]uuid.UUID, 0),
	}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, suggestion := range suggestions {
			pending, err := repos.RequisitionRepo().ExistsPendingWithItem(ctx, suggestion.ItemID)
			if err != nil {
				return err
			}
			if pending {
				result.SkippedItemIDs = append(result.SkippedItemIDs, suggestion.ItemID)
				continue
			}

			number, err := repos.RequisitionRepo().GenerateNumber(ctx)
			if err != nil {
				return err
			}
			requisition, err := procurement.NewRequisition(number, requesterID, procurement.RequisitionSourceRule)
			if err != nil {
				return err
			}
			if _, err := requisition.AddItem(suggestion.ItemID, suggestion.ItemName, suggestion.Quantity); err != nil {
				return err
			}
			if err := repos.RequisitionRepo().Save(ctx, requisition); err != nil {
				return err
			}
			result.RequisitionIDs = append(result.RequisitionIDs, requisition.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approve approves a pending requisition and fans it out into draft purchase
// orders, one per distinct supplier, all in one transaction
func (s *RequisitionService) Approve(ctx context.Context, requisitionID, approverID uuid.UUID) (*ApproveRequisitionResult, error) {
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

	var result ApproveRequisitionResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		requisition, err := repos.RequisitionRepo().FindByID(ctx, requisitionID)
		if err != nil {
			return err
		}

		approvedAt := time.Now()
		if err := requisition.Approve(approverID); err != nil {
			return err
		}
		if err := repos.RequisitionRepo().Save(ctx, requisition); err != nil {
			return err
		}

		orders, err := s.planner.FanOut(ctx, repos, requisition, approvedAt)
		if err != nil {
			return err
		}

		result.Requisition = ToRequisitionResponse(requisition)
		result.Orders = make([]PurchaseOrderResponse, 0, len(orders))
		for i := range orders {
			result.Orders = append(result.Orders, ToPurchaseOrderResponse(&orders[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Reject rejects a pending requisition with the given reason
func (s *RequisitionService) Reject(ctx context.Context, requisitionID, approverID uuid.UUID, reason string) (*RequisitionResponse, error) {
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

	var response RequisitionResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		requisition, err := repos.RequisitionRepo().FindByID(ctx, requisitionID)
		if err != nil {
			return err
		}
		if err := requisition.Reject(approverID, reason); err != nil {
			return err
		}
		if err := repos.RequisitionRepo().Save(ctx, requisition); err != nil {
			return err
		}
		response = ToRequisitionResponse(requisition)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a requisition by ID
func (s *RequisitionService) GetByID(ctx context.Context, requisitionID uuid.UUID) (*RequisitionResponse, error) {
	var response RequisitionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		requisition, err := repos.RequisitionRepo().FindByID(ctx, requisitionID)
		if err != nil {
			return err
		}
		response = ToRequisitionResponse(requisition)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves requisitions with filtering and pagination
func (s *RequisitionService) List(ctx context.Context, filter RequisitionListFilter) ([]RequisitionResponse, error) {
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
	if filter.Source != nil {
		domainFilter.Filters["source"] = string(*filter.Source)
	}

	var responses []RequisitionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		requisitions, err := repos.RequisitionRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = make([]RequisitionResponse, 0, len(requisitions))
		for i := range requisitions {
			responses = append(responses, ToRequisitionResponse(&requisitions[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
