package persistence

import (
	"context"

	"gorm.io/gorm"

	appproc "github.com/warehousely/backend/internal/application/procurement"
	"github.com/warehousely/backend/internal/domain/procurement"
)

// GormProcurementTransactionScope implements the procurement TransactionScope
// using GORM transactions, making approve-and-fan-out atomic.
type GormProcurementTransactionScope struct {
	db *gorm.DB
}

// NewGormProcurementTransactionScope creates a new GormProcurementTransactionScope
func NewGormProcurementTransactionScope(db *gorm.DB) *GormProcurementTransactionScope {
	return &GormProcurementTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormProcurementTransactionScope) Execute(ctx context.Context, fn func(repos appproc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormProcurementRepositories{tx: tx}
		return fn(repos)
	})
}

// gormProcurementRepositories provides access to the procurement repositories
// within a transaction
type gormProcurementRepositories struct {
	tx *gorm.DB
}

// RequisitionRepo returns the requisition repository scoped to the current transaction
func (r *gormProcurementRepositories) RequisitionRepo() procurement.RequisitionRepository {
	return NewGormRequisitionRepository(r.tx)
}

// OrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormProcurementRepositories) OrderRepo() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// Ensure GormProcurementTransactionScope implements TransactionScope
var _ appproc.TransactionScope = (*GormProcurementTransactionScope)(nil)

// Ensure gormProcurementRepositories implements TransactionalRepositories
var _ appproc.TransactionalRepositories = (*gormProcurementRepositories)(nil)
