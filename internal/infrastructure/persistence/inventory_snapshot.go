package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/inventory"
)

// ItemStockModel is the persistence model behind the inventory snapshot. The
// stock-keeping side of the system owns these rows; the workflow side only
// reads them.
type ItemStockModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	SKU          string          `gorm:"type:varchar(100);not null;uniqueIndex;column:sku"`
	Name         string          `gorm:"type:varchar(200);not null"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SafetyStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LeadTimeDays int             `gorm:"not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index"`
	Active       bool            `gorm:"not null;default:true;index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemStockModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to the read-only snapshot type
func (m *ItemStockModel) ToDomain() inventory.ItemStock {
	return inventory.ItemStock{
		ID:           m.ID,
		SKU:          m.SKU,
		Name:         m.Name,
		CategoryID:   m.CategoryID,
		CurrentStock: m.CurrentStock,
		ReorderPoint: m.ReorderPoint,
		SafetyStock:  m.SafetyStock,
		LeadTimeDays: m.LeadTimeDays,
		UnitCost:     m.UnitCost,
		SupplierID:   m.SupplierID,
		Active:       m.Active,
	}
}

// GormSnapshotProvider implements SnapshotProvider over the inventory_items table
type GormSnapshotProvider struct {
	db *gorm.DB
}

// NewGormSnapshotProvider creates a new GormSnapshotProvider
func NewGormSnapshotProvider(db *gorm.DB) *GormSnapshotProvider {
	return &GormSnapshotProvider{db: db}
}

// List returns item stock snapshots, restricted to active items when
// activeOnly is set
func (p *GormSnapshotProvider) List(ctx context.Context, activeOnly bool) ([]inventory.ItemStock, error) {
	var models []ItemStockModel

	query := p.db.WithContext(ctx).Model(&ItemStockModel{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]inventory.ItemStock, len(models))
	for i := range models {
		items[i] = models[i].ToDomain()
	}
	return items, nil
}

// GormUsageProvider implements UsageProvider by summing outbound ledger
// movements per item over the requested window
type GormUsageProvider struct {
	db *gorm.DB
}

// NewGormUsageProvider creates a new GormUsageProvider
func NewGormUsageProvider(db *gorm.DB) *GormUsageProvider {
	return &GormUsageProvider{db: db}
}

// TrailingUsage returns total outbound quantity per item between from and to
func (p *GormUsageProvider) TrailingUsage(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	type usageRow struct {
		ItemID uuid.UUID
		Total  decimal.Decimal
	}

	var rows []usageRow
	if err := p.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("item_id, SUM(quantity) AS total").
		Where("direction = ? AND occurred_at >= ? AND occurred_at <= ?",
			inventory.MovementDirectionOut, from, to).
		Group("item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	usage := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		usage[row.ItemID] = row.Total
	}
	return usage, nil
}

// Ensure providers implement the domain interfaces
var _ inventory.SnapshotProvider = (*GormSnapshotProvider)(nil)
var _ inventory.UsageProvider = (*GormUsageProvider)(nil)
