package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/replenishment"
	"github.com/warehousely/backend/internal/domain/shared"
)

// GormRuleRepository implements RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByID finds a rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*replenishment.Rule, error) {
	var rule replenishment.Rule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindActive returns active rules ordered by ascending priority
func (r *GormRuleRepository) FindActive(ctx context.Context) ([]replenishment.Rule, error) {
	var rules []replenishment.Rule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority ASC, name ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindAll finds rules with filtering and pagination
func (r *GormRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]replenishment.Rule, error) {
	var rules []replenishment.Rule

	query := r.db.WithContext(ctx).Model(&replenishment.Rule{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, RuleSortFields, "priority")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a rule. A rule that already has execution records
// is part of the audit trail and can no longer be changed.
func (r *GormRuleRepository) Save(ctx context.Context, rule *replenishment.Rule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&replenishment.Rule{}).
			Where("id = ?", rule.ID).
			Count(&exists).Error; err != nil {
			return err
		}

		if exists == 0 {
			return translateWriteError(tx.Create(rule).Error)
		}

		var executions int64
		if err := tx.Model(&replenishment.Execution{}).
			Where("rule_id = ?", rule.ID).
			Count(&executions).Error; err != nil {
			return err
		}
		if executions > 0 {
			return shared.NewInvalidStateError("RULE_REFERENCED", "Rule has execution records and can no longer be modified")
		}

		return translateWriteError(tx.Save(rule).Error)
	})
}

// Ensure GormRuleRepository implements RuleRepository
var _ replenishment.RuleRepository = (*GormRuleRepository)(nil)
