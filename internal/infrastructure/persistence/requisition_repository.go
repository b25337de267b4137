package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/procurement"
	"github.com/warehousely/backend/internal/domain/shared"
)

// GormRequisitionRepository implements RequisitionRepository using GORM
type GormRequisitionRepository struct {
	db *gorm.DB
}

// NewGormRequisitionRepository creates a new GormRequisitionRepository
func NewGormRequisitionRepository(db *gorm.DB) *GormRequisitionRepository {
	return &GormRequisitionRepository{db: db}
}

// FindByID finds a requisition by its ID
func (r *GormRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Requisition, error) {
	var requisition procurement.Requisition
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&requisition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &requisition, nil
}

// FindAll finds requisitions with filtering and pagination
func (r *GormRequisitionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Requisition, error) {
	var requisitions []procurement.Requisition

	query := r.db.WithContext(ctx).Model(&procurement.Requisition{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

// Save creates or updates a requisition together with its items atomically.
// The domain bumps Version on every state change, so an update requires the
// stored row to still hold the previous version.
func (r *GormRequisitionRepository) Save(ctx context.Context, requisition *procurement.Requisition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		err := tx.Model(&procurement.Requisition{}).
			Select("version").
			Where("id = ?", requisition.ID).
			Take(&current).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return translateWriteError(tx.Create(requisition).Error)
		}
		if err != nil {
			return err
		}

		expected := requisition.Version - 1
		result := tx.Model(&procurement.Requisition{}).
			Where("id = ? AND version = ?", requisition.ID, expected).
			Updates(map[string]interface{}{
				"status":           requisition.Status,
				"approver_id":      requisition.ApproverID,
				"decided_at":       requisition.DecidedAt,
				"rejection_reason": requisition.RejectionReason,
				"version":          requisition.Version,
				"updated_at":       requisition.UpdatedAt,
			})
		if result.Error != nil {
			return translateWriteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range requisition.Items {
			requisition.Items[i].RequisitionID = requisition.ID
			if err := tx.Save(&requisition.Items[i]).Error; err != nil {
				return translateWriteError(err)
			}
		}
		return nil
	})
}

// ExistsPendingWithItem reports whether any pending requisition already
// references the given item
func (r *GormRequisitionRepository) ExistsPendingWithItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("purchase_requisition_items").
		Joins("JOIN purchase_requisitions ON purchase_requisitions.id = purchase_requisition_items.requisition_id").
		Where("purchase_requisitions.status = ? AND purchase_requisition_items.item_id = ?",
			procurement.RequisitionStatusPending, itemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateNumber generates the next requisition number.
// Format: REQ-YYYY-NNNNN (e.g., REQ-2026-00001)
func (r *GormRequisitionRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("REQ-%d-", year)

	var last procurement.Requisition
	err := r.db.WithContext(ctx).
		Model(&procurement.Requisition{}).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.Number != "" {
		parts := strings.Split(last.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormRequisitionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "requester_id":
			query = query.Where("requester_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, RequisitionSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// Ensure GormRequisitionRepository implements RequisitionRepository
var _ procurement.RequisitionRepository = (*GormRequisitionRepository)(nil)
