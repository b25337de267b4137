package replenishment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/inventory"
)

const (
	// usageWindowDays is the trailing demand window for time-based rules
	usageWindowDays = 30
	// timeBasedItemCap limits time-based suggestions to the heaviest movers
	timeBasedItemCap = 10
)

// usageSafetyMargin is the 50% buffer applied over trailing demand
var usageSafetyMargin = decimal.RequireFromString("1.5")

// Engine evaluates replenishment rules against an inventory snapshot and
// emits suggestions. The engine itself is read-only: materializing
// suggestions into requisitions is the caller's concern.
type Engine struct{}

// NewEngine creates a new rule evaluation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs the given rules in ascending priority order and returns the
// emitted suggestions together with exactly one execution record per
// evaluated rule. A failing rule produces a failed execution and does not
// abort evaluation of the remaining rules. Inactive rules are skipped
// entirely.
func (e *Engine) Evaluate(ctx context.Context, rules []Rule, snapshot inventory.SnapshotProvider, usage inventory.UsageProvider, now time.Time) ([]Suggestion, []Execution) {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	var suggestions []Suggestion
	executions := make([]Execution, 0, len(ordered))

	for i := range ordered {
		rule := &ordered[i]
		if !rule.Active {
			continue
		}

		ruleSuggestions, err := e.evaluateRule(ctx, rule, snapshot, usage, now)
		if err != nil {
			executions = append(executions, *NewFailedExecution(rule.ID, now, err.Error()))
			continue
		}

		suggestions = append(suggestions, ruleSuggestions...)
		executions = append(executions, *NewSuccessExecution(rule.ID, now, len(ruleSuggestions)))
	}

	return suggestions, executions
}

// evaluateRule dispatches on the rule kind. A panic inside a single rule is
// converted into that rule's failure so the pass as a whole survives.
func (e *Engine) evaluateRule(ctx context.Context, rule *Rule, snapshot inventory.SnapshotProvider, usage inventory.UsageProvider, now time.Time) (result []Suggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("rule evaluation panicked: %v", r)
		}
	}()

	switch rule.Kind {
	case RuleKindStockLevel:
		return e.evaluateStockLevel(ctx, rule, snapshot)
	case RuleKindTimeBased:
		return e.evaluateTimeBased(ctx, rule, snapshot, usage, now)
	case RuleKindCategoryBased:
		return e.evaluateCategoryBased(ctx, rule, snapshot)
	default:
		return nil, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
}

// evaluateStockLevel suggests every active item that is out of stock or at or
// below its reorder point. Suggested quantity is reorder point + safety
// stock, never less than one. Out-of-stock items sort before merely-low
// items, then alphabetically by name.
func (e *Engine) evaluateStockLevel(ctx context.Context, rule *Rule, snapshot inventory.SnapshotProvider) ([]Suggestion, error) {
	items, err := snapshot.List(ctx, true)
	if err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	var suggestions []Suggestion
	for i := range items {
		item := &items[i]
		if !item.IsOutOfStock() && !item.IsBelowReorderPoint() {
			continue
		}

		quantity := decimal.Max(item.ReorderPoint.Add(item.SafetyStock), one)
		reason := fmt.Sprintf("Stock %s at or below reorder point %s", item.CurrentStock, item.ReorderPoint)
		if item.IsOutOfStock() {
			reason = "Out of stock"
		}

		suggestions = append(suggestions, Suggestion{
			RuleID:   rule.ID,
			ItemID:   item.ID,
			SKU:      item.SKU,
			ItemName: item.Name,
			Quantity: quantity,
			Reason:   reason,
			Urgency:  urgencyFor(item),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		ci := suggestions[i].Urgency == UrgencyCritical
		cj := suggestions[j].Urgency == UrgencyCritical
		if ci != cj {
			return ci
		}
		return suggestions[i].ItemName < suggestions[j].ItemName
	})

	return suggestions, nil
}

// evaluateTimeBased fires only on the rule's configured day of month. It
// selects items whose trailing 30-day usage meets the configured minimum and
// suggests 150% of that usage, keeping only the top movers.
func (e *Engine) evaluateTimeBased(ctx context.Context, rule *Rule, snapshot inventory.SnapshotProvider, usage inventory.UsageProvider, now time.Time) ([]Suggestion, error) {
	if now.Day() != rule.Params.TriggerDay {
		return nil, nil
	}

	items, err := snapshot.List(ctx, true)
	if err != nil {
		return nil, err
	}
	usageByItem, err := usage.TrailingUsage(ctx, now.AddDate(0, 0, -usageWindowDays), now)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		item  *inventory.ItemStock
		usage decimal.Decimal
	}
	var candidates []candidate
	for i := range items {
		itemUsage, ok := usageByItem[items[i].ID]
		if !ok || itemUsage.LessThan(rule.Params.MinimumUsage) {
			continue
		}
		candidates = append(candidates, candidate{item: &items[i], usage: itemUsage})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].usage.Equal(candidates[j].usage) {
			return candidates[i].usage.GreaterThan(candidates[j].usage)
		}
		return candidates[i].item.Name < candidates[j].item.Name
	})
	if len(candidates) > timeBasedItemCap {
		candidates = candidates[:timeBasedItemCap]
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, Suggestion{
			RuleID:   rule.ID,
			ItemID:   c.item.ID,
			SKU:      c.item.SKU,
			ItemName: c.item.Name,
			Quantity: c.usage.Mul(usageSafetyMargin).Ceil(),
			Reason:   fmt.Sprintf("30-day usage %s meets scheduled replenishment minimum %s", c.usage, rule.Params.MinimumUsage),
			Urgency:  urgencyFor(c.item),
		})
	}

	return suggestions, nil
}

// evaluateCategoryBased suggests items within the configured categories whose
// stock is at or below the configured threshold. Suggested quantity tops the
// item back up to the threshold, never less than one.
func (e *Engine) evaluateCategoryBased(ctx context.Context, rule *Rule, snapshot inventory.SnapshotProvider) ([]Suggestion, error) {
	items, err := snapshot.List(ctx, true)
	if err != nil {
		return nil, err
	}

	categories := make(map[uuid.UUID]struct{}, len(rule.Params.CategoryIDs))
	for _, id := range rule.Params.CategoryIDs {
		categories[id] = struct{}{}
	}

	one := decimal.NewFromInt(1)
	var suggestions []Suggestion
	for i := range items {
		item := &items[i]
		if _, ok := categories[item.CategoryID]; !ok {
			continue
		}
		if item.CurrentStock.GreaterThan(rule.Params.StockThreshold) {
			continue
		}

		quantity := decimal.Max(rule.Params.StockThreshold.Sub(item.CurrentStock), one)
		suggestions = append(suggestions, Suggestion{
			RuleID:   rule.ID,
			ItemID:   item.ID,
			SKU:      item.SKU,
			ItemName: item.Name,
			Quantity: quantity,
			Reason:   fmt.Sprintf("Category stock %s at or below threshold %s", item.CurrentStock, rule.Params.StockThreshold),
			Urgency:  urgencyFor(item),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].ItemName < suggestions[j].ItemName
	})

	return suggestions, nil
}

// urgencyFor derives the urgency tier from the item's current position
func urgencyFor(item *inventory.ItemStock) Urgency {
	switch {
	case item.IsOutOfStock():
		return UrgencyCritical
	case item.IsBelowReorderPoint():
		return UrgencyHigh
	default:
		return UrgencyNormal
	}
}
