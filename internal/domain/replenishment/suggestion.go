package replenishment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Urgency tags a suggestion with how pressing the underlying shortage is
type Urgency string

const (
	// UrgencyCritical means the item is completely out of stock
	UrgencyCritical Urgency = "CRITICAL"
	// UrgencyHigh means the item is at or below its reorder point
	UrgencyHigh Urgency = "HIGH"
	// UrgencyNormal means the suggestion is driven by demand or category
	// policy rather than an immediate shortage
	UrgencyNormal Urgency = "NORMAL"
)

// String returns the string representation of Urgency
func (u Urgency) String() string {
	return string(u)
}

// Suggestion is a proposed replenishment for a single item, produced by rule
// evaluation. Suggestions are values; they only become durable once
// materialized into a requisition.
type Suggestion struct {
	RuleID   uuid.UUID       `json:"rule_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	SKU      string          `json:"sku"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
	Urgency  Urgency         `json:"urgency"`
}
