package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/inventory"
)

// GormMovementRepository implements MovementRepository using GORM. The ledger
// is append-only; there is no update or delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append writes a new ledger entry
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return translateWriteError(r.db.WithContext(ctx).Create(movement).Error)
}

// FindBySource returns all movements recorded against a source document
func (r *GormMovementRepository) FindBySource(ctx context.Context, sourceType inventory.MovementSourceType, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("occurred_at ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByItem returns all movements of an item within the given window
func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID uuid.UUID, from, to time.Time) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND occurred_at >= ? AND occurred_at <= ?", itemID, from, to).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
