package procurement

import (
	"context"

	"github.com/warehousely/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to procurement repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the procurement repositories
// within a transaction. All repositories returned share the same underlying
// database transaction, which is what makes approve-and-fan-out atomic.
type TransactionalRepositories interface {
	// RequisitionRepo returns the requisition repository scoped to the current transaction
	RequisitionRepo() procurement.RequisitionRepository
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() procurement.PurchaseOrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	requisitionRepo procurement.RequisitionRepository
	orderRepo       procurement.PurchaseOrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	requisitionRepo procurement.RequisitionRepository,
	orderRepo procurement.PurchaseOrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		requisitionRepo: requisitionRepo,
		orderRepo:       orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RequisitionRepo returns the requisition repository.
func (s *NoOpTransactionScope) RequisitionRepo() procurement.RequisitionRepository {
	return s.requisitionRepo
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() procurement.PurchaseOrderRepository {
	return s.orderRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
