package replenishment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/replenishment"
)

// CreateRuleRequest represents a request to create a replenishment rule
type CreateRuleRequest struct {
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Priority  int             `json:"priority"`
	CreatedBy uuid.UUID       `json:"created_by"`
	Params    RuleParamsInput `json:"params"`
}

// RuleParamsInput carries the kind-specific rule parameters
type RuleParamsInput struct {
	ThresholdPercent decimal.Decimal `json:"threshold_percent"`
	TriggerDay       int             `json:"trigger_day"`
	MinimumUsage     decimal.Decimal `json:"minimum_usage"`
	CategoryIDs      []uuid.UUID     `json:"category_ids"`
	StockThreshold   decimal.Decimal `json:"stock_threshold"`
}

// RuleResponse represents a rule in API responses
type RuleResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Params    RuleParamsInput `json:"params"`
	Priority  int             `json:"priority"`
	Active    bool            `json:"active"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToRuleResponse converts a rule aggregate to its response DTO
func ToRuleResponse(r *replenishment.Rule) RuleResponse {
	return RuleResponse{
		ID:   r.ID,
		Name: r.Name,
		Kind: r.Kind.String(),
		Params: RuleParamsInput{
			ThresholdPercent: r.Params.ThresholdPercent,
			TriggerDay:       r.Params.TriggerDay,
			MinimumUsage:     r.Params.MinimumUsage,
			CategoryIDs:      r.Params.CategoryIDs,
			StockThreshold:   r.Params.StockThreshold,
		},
		Priority:  r.Priority,
		Active:    r.Active,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ExecutionResponse represents a rule execution record in API responses
type ExecutionResponse struct {
	ID              uuid.UUID   `json:"id"`
	RuleID          uuid.UUID   `json:"rule_id"`
	ExecutedAt      time.Time   `json:"executed_at"`
	Outcome         string      `json:"outcome"`
	SuggestionCount int         `json:"suggestion_count"`
	RequisitionIDs  []uuid.UUID `json:"requisition_ids,omitempty"`
	ErrorMessage    string      `json:"error_message,omitempty"`
}

// ToExecutionResponse converts an execution record to its response DTO
func ToExecutionResponse(e *replenishment.Execution) ExecutionResponse {
	return ExecutionResponse{
		ID:              e.ID,
		RuleID:          e.RuleID,
		ExecutedAt:      e.ExecutedAt,
		Outcome:         e.Outcome.String(),
		SuggestionCount: e.SuggestionCount,
		RequisitionIDs:  e.RequisitionIDs,
		ErrorMessage:    e.ErrorMessage,
	}
}

// EvaluationSummary reports the outcome of one full evaluation pass
type EvaluationSummary struct {
	EvaluatedAt         time.Time   `json:"evaluated_at"`
	RulesEvaluated      int         `json:"rules_evaluated"`
	RulesFailed         int         `json:"rules_failed"`
	SuggestionsEmitted  int         `json:"suggestions_emitted"`
	RequisitionsCreated []uuid.UUID `json:"requisitions_created"`
	ItemsSkipped        []uuid.UUID `json:"items_skipped"`
}
