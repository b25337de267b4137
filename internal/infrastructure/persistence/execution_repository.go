package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/replenishment"
	"github.com/warehousely/backend/internal/domain/shared"
)

// GormExecutionRepository implements ExecutionRepository using GORM. Execution
// records are append-only audit data.
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GormExecutionRepository
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// Append writes a new execution record
func (r *GormExecutionRepository) Append(ctx context.Context, execution *replenishment.Execution) error {
	return translateWriteError(r.db.WithContext(ctx).Create(execution).Error)
}

// FindByRule returns execution records for a rule with pagination
func (r *GormExecutionRepository) FindByRule(ctx context.Context, ruleID uuid.UUID, filter shared.Filter) ([]replenishment.Execution, error) {
	var executions []replenishment.Execution

	query := r.db.WithContext(ctx).
		Model(&replenishment.Execution{}).
		Where("rule_id = ?", ruleID)

	for key, value := range filter.Filters {
		if key == "outcome" {
			query = query.Where("outcome = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ExecutionSortFields, "executed_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&executions).Error; err != nil {
		return nil, err
	}
	return executions, nil
}

// CountByRule counts execution records referencing a rule
func (r *GormExecutionRepository) CountByRule(ctx context.Context, ruleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&replenishment.Execution{}).
		Where("rule_id = ?", ruleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormExecutionRepository implements ExecutionRepository
var _ replenishment.ExecutionRepository = (*GormExecutionRepository)(nil)
