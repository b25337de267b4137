package replenishment

import (
	"context"

	"github.com/google/uuid"

	"github.com/warehousely/backend/internal/domain/replenishment"
	"github.com/warehousely/backend/internal/domain/shared"
)

// RuleService manages replenishment rule configuration
type RuleService struct {
	ruleRepo      replenishment.RuleRepository
	executionRepo replenishment.ExecutionRepository
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo replenishment.RuleRepository, executionRepo replenishment.ExecutionRepository) *RuleService {
	return &RuleService{
		ruleRepo:      ruleRepo,
		executionRepo: executionRepo,
	}
}

// Create creates a new replenishment rule
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	kind := replenishment.RuleKind(req.Kind)
	params := replenishment.RuleParams{
		ThresholdPercent: req.Params.ThresholdPercent,
		TriggerDay:       req.Params.TriggerDay,
		MinimumUsage:     req.Params.MinimumUsage,
		CategoryIDs:      req.Params.CategoryIDs,
		StockThreshold:   req.Params.StockThreshold,
	}

	rule, err := replenishment.NewRule(req.Name, kind, params, req.Priority, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// SetActive activates or deactivates a rule. Deactivated rules keep their
// execution history but are skipped by evaluation passes.
func (s *RuleService) SetActive(ctx context.Context, ruleID uuid.UUID, active bool) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if rule.Active == active {
		response := ToRuleResponse(rule)
		return &response, nil
	}
	if active {
		rule.Activate()
	} else {
		rule.Deactivate()
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// GetByID retrieves a rule by ID
func (s *RuleService) GetByID(ctx context.Context, ruleID uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}

// List retrieves rules with pagination
func (s *RuleService) List(ctx context.Context, page, pageSize int) ([]RuleResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	rules, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		responses = append(responses, ToRuleResponse(&rules[i]))
	}
	return responses, nil
}

// ListExecutions retrieves the execution history of a rule, most recent first
func (s *RuleService) ListExecutions(ctx context.Context, ruleID uuid.UUID, page, pageSize int) ([]ExecutionResponse, error) {
	if _, err := s.ruleRepo.FindByID(ctx, ruleID); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = "executed_at"
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	executions, err := s.executionRepo.FindByRule(ctx, ruleID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ExecutionResponse, 0, len(executions))
	for i := range executions {
		responses = append(responses, ToExecutionResponse(&executions[i]))
	}
	return responses, nil
}
