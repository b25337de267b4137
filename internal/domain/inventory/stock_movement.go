package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/shared"
)

// MovementDirection represents the direction of a stock movement
type MovementDirection string

const (
	// MovementDirectionIn represents stock arriving at a warehouse
	MovementDirectionIn MovementDirection = "IN"
	// MovementDirectionOut represents stock leaving a warehouse
	MovementDirectionOut MovementDirection = "OUT"
)

// String returns the string representation of MovementDirection
func (d MovementDirection) String() string {
	return string(d)
}

// IsValid returns true if the direction is valid
func (d MovementDirection) IsValid() bool {
	switch d {
	case MovementDirectionIn, MovementDirectionOut:
		return true
	}
	return false
}

// MovementSourceType represents the source document type for a movement
type MovementSourceType string

const (
	// MovementSourceTransferOrder is a warehouse-to-warehouse transfer order
	MovementSourceTransferOrder MovementSourceType = "TRANSFER_ORDER"
)

// StockMovement is an append-only ledger entry recording a quantity change at
// a specific warehouse. Movements are never mutated or deleted once written.
type StockMovement struct {
	shared.BaseEntity
	ItemID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ItemName    string             `gorm:"type:varchar(200);not null"`
	WarehouseID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Direction   MovementDirection  `gorm:"type:varchar(10);not null"`
	Quantity    decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	SourceType  MovementSourceType `gorm:"type:varchar(30);not null;index:idx_stock_movement_source"`
	SourceID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_stock_movement_source"`
	OccurredAt  time.Time          `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement ledger entry
func NewStockMovement(itemID uuid.UUID, itemName string, warehouseID uuid.UUID, direction MovementDirection, quantity, unitCost decimal.Decimal, sourceType MovementSourceType, sourceID uuid.UUID, occurredAt time.Time) (*StockMovement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("INVALID_DIRECTION", "Movement direction must be IN or OUT")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SOURCE", "Source document ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:  shared.NewBaseEntity(),
		ItemID:      itemID,
		ItemName:    itemName,
		WarehouseID: warehouseID,
		Direction:   direction,
		Quantity:    quantity,
		UnitCost:    unitCost,
		SourceType:  sourceType,
		SourceID:    sourceID,
		OccurredAt:  occurredAt,
	}, nil
}

// MovementRepository persists stock movement ledger entries. The ledger is
// append-only; there is no update or delete.
type MovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindBySource(ctx context.Context, sourceType MovementSourceType, sourceID uuid.UUID) ([]StockMovement, error)
	FindByItem(ctx context.Context, itemID uuid.UUID, from, to time.Time) ([]StockMovement, error)
}
