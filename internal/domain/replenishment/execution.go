package replenishment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warehousely/backend/internal/domain/shared"
)

// ExecutionOutcome represents the outcome of one rule evaluation pass
type ExecutionOutcome string

const (
	// ExecutionOutcomeSuccess indicates the rule evaluated without error
	ExecutionOutcomeSuccess ExecutionOutcome = "SUCCESS"
	// ExecutionOutcomeFailed indicates the rule evaluation failed
	ExecutionOutcomeFailed ExecutionOutcome = "FAILED"
)

// String returns the string representation of ExecutionOutcome
func (o ExecutionOutcome) String() string {
	return string(o)
}

// IsValid returns true if the outcome is valid
func (o ExecutionOutcome) IsValid() bool {
	switch o {
	case ExecutionOutcomeSuccess, ExecutionOutcomeFailed:
		return true
	}
	return false
}

// Execution is the audit record of a single rule evaluation. Exactly one is
// written per rule per evaluation pass, and records are never mutated after
// being appended.
type Execution struct {
	shared.BaseEntity
	RuleID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	ExecutedAt      time.Time        `gorm:"not null;index"`
	Outcome         ExecutionOutcome `gorm:"type:varchar(10);not null"`
	SuggestionCount int              `gorm:"not null;default:0"`
	RequisitionIDs  []uuid.UUID      `gorm:"serializer:json;type:text"`
	ErrorMessage    string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Execution) TableName() string {
	return "replenishment_rule_executions"
}

// NewSuccessExecution creates a successful execution record
func NewSuccessExecution(ruleID uuid.UUID, executedAt time.Time, suggestionCount int) *Execution {
	return &Execution{
		BaseEntity:      shared.NewBaseEntity(),
		RuleID:          ruleID,
		ExecutedAt:      executedAt,
		Outcome:         ExecutionOutcomeSuccess,
		SuggestionCount: suggestionCount,
	}
}

// NewFailedExecution creates a failed execution record
func NewFailedExecution(ruleID uuid.UUID, executedAt time.Time, errorMessage string) *Execution {
	return &Execution{
		BaseEntity:   shared.NewBaseEntity(),
		RuleID:       ruleID,
		ExecutedAt:   executedAt,
		Outcome:      ExecutionOutcomeFailed,
		ErrorMessage: errorMessage,
	}
}

// LinkRequisitions records the requisitions generated from this execution's
// suggestions. Must be called before the record is appended.
func (e *Execution) LinkRequisitions(ids []uuid.UUID) {
	e.RequisitionIDs = ids
}

// IsSuccess returns true if the execution succeeded
func (e *Execution) IsSuccess() bool {
	return e.Outcome == ExecutionOutcomeSuccess
}

// ExecutionRepository persists rule execution records (append-only)
type ExecutionRepository interface {
	Append(ctx context.Context, execution *Execution) error
	FindByRule(ctx context.Context, ruleID uuid.UUID, filter shared.Filter) ([]Execution, error)
	CountByRule(ctx context.Context, ruleID uuid.UUID) (int64, error)
}
