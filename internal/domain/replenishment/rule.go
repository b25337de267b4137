package replenishment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/shared"
)

// RuleKind represents the kind of replenishment rule
type RuleKind string

const (
	// RuleKindStockLevel triggers on items at or below their reorder point
	RuleKindStockLevel RuleKind = "STOCK_LEVEL"
	// RuleKindTimeBased triggers on a configured day of month for items with
	// sufficient trailing usage
	RuleKindTimeBased RuleKind = "TIME_BASED"
	// RuleKindCategoryBased triggers on low-stock items within configured categories
	RuleKindCategoryBased RuleKind = "CATEGORY_BASED"
)

// String returns the string representation of RuleKind
func (k RuleKind) String() string {
	return string(k)
}

// IsValid returns true if the rule kind is valid
func (k RuleKind) IsValid() bool {
	switch k {
	case RuleKindStockLevel, RuleKindTimeBased, RuleKindCategoryBased:
		return true
	}
	return false
}

// RuleParams holds the kind-specific trigger parameters of a rule. Only the
// fields relevant to the rule's kind are used; the rest stay at their zero
// values.
type RuleParams struct {
	// ThresholdPercent is stored for stock-level rules. Evaluation uses each
	// item's own reorder point, so this is informational only.
	ThresholdPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"threshold_percent"`
	// TriggerDay is the day of month (1-31) a time-based rule fires on
	TriggerDay int `gorm:"not null;default:0" json:"trigger_day"`
	// MinimumUsage is the 30-day trailing usage an item must reach before a
	// time-based rule suggests it
	MinimumUsage decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"minimum_usage"`
	// CategoryIDs restricts a category-based rule to these categories
	CategoryIDs []uuid.UUID `gorm:"serializer:json;type:text" json:"category_ids"`
	// StockThreshold is the stock level at or below which a category-based
	// rule suggests an item
	StockThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"stock_threshold"`
}

// Rule is a configured replenishment rule. Rules become immutable once an
// execution record references them; the repository enforces that.
type Rule struct {
	shared.BaseAggregateRoot
	Name     string     `gorm:"type:varchar(100);not null"`
	Kind     RuleKind   `gorm:"type:varchar(20);not null"`
	Params   RuleParams `gorm:"embedded"`
	Priority int        `gorm:"not null;default:100;index"`
	Active   bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Rule) TableName() string {
	return "replenishment_rules"
}

// NewRule creates a new replenishment rule
func NewRule(name string, kind RuleKind, params RuleParams, priority int, createdBy uuid.UUID) (*Rule, error) {
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Rule name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_KIND", "Unknown rule kind")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDependencyError("ACTOR_REQUIRED", "Rule creator must be provided")
	}
	if err := validateParams(kind, params); err != nil {
		return nil, err
	}

	return &Rule{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		Name:              name,
		Kind:              kind,
		Params:            params,
		Priority:          priority,
		Active:            true,
	}, nil
}

func validateParams(kind RuleKind, params RuleParams) error {
	switch kind {
	case RuleKindStockLevel:
		if params.ThresholdPercent.IsNegative() {
			return shared.NewValidationError("INVALID_THRESHOLD", "Threshold percent cannot be negative")
		}
	case RuleKindTimeBased:
		if params.TriggerDay < 1 || params.TriggerDay > 31 {
			return shared.NewValidationError("INVALID_TRIGGER_DAY", "Trigger day must be between 1 and 31")
		}
		if params.MinimumUsage.IsNegative() {
			return shared.NewValidationError("INVALID_MINIMUM_USAGE", "Minimum usage cannot be negative")
		}
	case RuleKindCategoryBased:
		if len(params.CategoryIDs) == 0 {
			return shared.NewValidationError("NO_CATEGORIES", "Category-based rule requires at least one category")
		}
		if params.StockThreshold.LessThanOrEqual(decimal.Zero) {
			return shared.NewValidationError("INVALID_THRESHOLD", "Stock threshold must be positive")
		}
	}
	return nil
}

// Deactivate marks the rule inactive so it is skipped by evaluation
func (r *Rule) Deactivate() {
	r.Active = false
	r.IncrementVersion()
}

// Activate marks the rule active
func (r *Rule) Activate() {
	r.Active = true
	r.IncrementVersion()
}

// RuleRepository persists replenishment rules
type RuleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	// FindActive returns active rules ordered by ascending priority
	FindActive(ctx context.Context) ([]Rule, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Rule, error)
	// Save creates or updates a rule. Updating a rule that already has
	// execution records fails with INVALID_STATE: referenced rules are an
	// append-only audit concern.
	Save(ctx context.Context, rule *Rule) error
}
