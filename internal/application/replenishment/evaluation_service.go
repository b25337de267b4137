package replenishment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	procurementapp "github.com/warehousely/backend/internal/application/procurement"
	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/replenishment"
)

// RequisitionFactory materializes suggestions into pending requisitions
type RequisitionFactory interface {
	CreateFromSuggestions(ctx context.Context, requesterID uuid.UUID, suggestions []replenishment.Suggestion) (*procurementapp.CreateFromSuggestionsResult, error)
}

// EvaluationService runs the replenishment rule engine over the current
// inventory snapshot and materializes the resulting suggestions into
// requisitions. One execution record is appended per evaluated rule whether
// the rule succeeded or failed; a single failing rule never aborts the pass.
type EvaluationService struct {
	ruleRepo      replenishment.RuleRepository
	executionRepo replenishment.ExecutionRepository
	engine        *replenishment.Engine
	snapshot      inventory.SnapshotProvider
	usage         inventory.UsageProvider
	requisitions  RequisitionFactory
	logger        *zap.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(
	ruleRepo replenishment.RuleRepository,
	executionRepo replenishment.ExecutionRepository,
	engine *replenishment.Engine,
	snapshot inventory.SnapshotProvider,
	usage inventory.UsageProvider,
	requisitions RequisitionFactory,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		ruleRepo:      ruleRepo,
		executionRepo: executionRepo,
		engine:        engine,
		snapshot:      snapshot,
		usage:         usage,
		requisitions:  requisitions,
		logger:        logger,
	}
}

// RunOnce performs one full evaluation pass at the given time
func (s *EvaluationService) RunOnce(ctx context.Context, now time.Time) (*EvaluationSummary, error) {
	rules, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	suggestions, executions := s.engine.Evaluate(ctx, rules, s.snapshot, s.usage, now)

	rulesByID := make(map[uuid.UUID]*replenishment.Rule, len(rules))
	for i := range rules {
		rulesByID[rules[i].ID] = &rules[i]
	}
	suggestionsByRule := make(map[uuid.UUID][]replenishment.Suggestion)
	for _, suggestion := range suggestions {
		suggestionsByRule[suggestion.RuleID] = append(suggestionsByRule[suggestion.RuleID], suggestion)
	}

	summary := &EvaluationSummary{
		EvaluatedAt:         now,
		RulesEvaluated:      len(executions),
		SuggestionsEmitted:  len(suggestions),
		RequisitionsCreated: make([]uuid.UUID, 0),
		ItemsSkipped:        make([]uuid.UUID, 0),
	}

	for i := range executions {
		execution := &executions[i]
		if execution.IsSuccess() {
			s.materialize(ctx, rulesByID[execution.RuleID], execution, suggestionsByRule[execution.RuleID], summary)
		}
		if !execution.IsSuccess() {
			summary.RulesFailed++
			s.logger.Warn("replenishment rule evaluation failed",
				zap.String("rule_id", execution.RuleID.String()),
				zap.String("error", execution.ErrorMessage))
		}
		if err := s.executionRepo.Append(ctx, execution); err != nil {
			s.logger.Error("failed to append rule execution record",
				zap.String("rule_id", execution.RuleID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("replenishment evaluation pass completed",
		zap.Int("rules_evaluated", summary.RulesEvaluated),
		zap.Int("rules_failed", summary.RulesFailed),
		zap.Int("suggestions", summary.SuggestionsEmitted),
		zap.Int("requisitions_created", len(summary.RequisitionsCreated)))

	return summary, nil
}

// materialize turns one rule's suggestions into requisitions and links them to
// the execution record. A materialization failure converts the execution into
// a failed one so the audit trail reflects what actually happened.
func (s *EvaluationService) materialize(ctx context.Context, rule *replenishment.Rule, execution *replenishment.Execution, suggestions []replenishment.Suggestion, summary *EvaluationSummary) {
	if len(suggestions) == 0 {
		return
	}
	if rule == nil || rule.CreatedBy == nil || *rule.CreatedBy == uuid.Nil {
		*execution = *replenishment.NewFailedExecution(execution.RuleID, execution.ExecutedAt, "rule has no creator to act as requester")
		return
	}

	result, err := s.requisitions.CreateFromSuggestions(ctx, *rule.CreatedBy, suggestions)
	if err != nil {
		*execution = *replenishment.NewFailedExecution(execution.RuleID, execution.ExecutedAt, err.Error())
		return
	}

	execution.LinkRequisitions(result.RequisitionIDs)
	summary.RequisitionsCreated = append(summary.RequisitionsCreated, result.RequisitionIDs...)
	summary.ItemsSkipped = append(summary.ItemsSkipped, result.SkippedItemIDs...)
}
