package transfer

import (
	"context"

	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to transfer repositories.
// Completing an order writes the order and its stock movements in one
// transaction, so a completed order can never be missing ledger entries.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the transfer repositories
// within a transaction
type TransactionalRepositories interface {
	// OrderRepo returns the transfer order repository scoped to the current transaction
	OrderRepo() transfer.TransferOrderRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	orderRepo    transfer.TransferOrderRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo transfer.TransferOrderRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the transfer order repository.
func (s *NoOpTransactionScope) OrderRepo() transfer.TransferOrderRepository {
	return s.orderRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
