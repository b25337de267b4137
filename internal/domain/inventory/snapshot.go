package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStock is a read-only snapshot of one inventory item's replenishment
// parameters and current position. It is supplied by the stock-keeping side
// of the system, which owns the authoritative item records.
type ItemStock struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	LeadTimeDays int             `json:"lead_time_days"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	Active       bool            `json:"active"`
}

// IsOutOfStock returns true when the item has no stock at all
func (s *ItemStock) IsOutOfStock() bool {
	return s.CurrentStock.LessThanOrEqual(decimal.Zero)
}

// IsBelowReorderPoint returns true when current stock is at or below the
// reorder point
func (s *ItemStock) IsBelowReorderPoint() bool {
	return s.CurrentStock.LessThanOrEqual(s.ReorderPoint)
}

// SnapshotProvider supplies the current inventory position for rule
// evaluation and supplier resolution.
type SnapshotProvider interface {
	// List returns item stock snapshots, restricted to active items when
	// activeOnly is set
	List(ctx context.Context, activeOnly bool) ([]ItemStock, error)
}

// UsageProvider supplies trailing consumption per item, summed over outbound
// movements in the given window.
type UsageProvider interface {
	TrailingUsage(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)
}
