package persistence

import (
	"context"

	"gorm.io/gorm"

	apptransfer "github.com/warehousely/backend/internal/application/transfer"
	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/transfer"
)

// GormTransferTransactionScope implements the transfer TransactionScope using
// GORM transactions, so completing an order writes the order state and its
// ledger movements atomically.
type GormTransferTransactionScope struct {
	db *gorm.DB
}

// NewGormTransferTransactionScope creates a new GormTransferTransactionScope
func NewGormTransferTransactionScope(db *gorm.DB) *GormTransferTransactionScope {
	return &GormTransferTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransferTransactionScope) Execute(ctx context.Context, fn func(repos apptransfer.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransferRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransferRepositories provides access to the transfer repositories
// within a transaction
type gormTransferRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the transfer order repository scoped to the current transaction
func (r *gormTransferRepositories) OrderRepo() transfer.TransferOrderRepository {
	return NewGormTransferOrderRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransferRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Ensure GormTransferTransactionScope implements TransactionScope
var _ apptransfer.TransactionScope = (*GormTransferTransactionScope)(nil)

// Ensure gormTransferRepositories implements TransactionalRepositories
var _ apptransfer.TransactionalRepositories = (*gormTransferRepositories)(nil)
