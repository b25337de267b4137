package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/shared"
	"github.com/warehousely/backend/internal/domain/transfer"
)

// GormTransferOrderRepository implements TransferOrderRepository using GORM
type GormTransferOrderRepository struct {
	db *gorm.DB
}

// NewGormTransferOrderRepository creates a new GormTransferOrderRepository
func NewGormTransferOrderRepository(db *gorm.DB) *GormTransferOrderRepository {
	return &GormTransferOrderRepository{db: db}
}

// FindByID finds a transfer order by its ID
func (r *GormTransferOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.TransferOrder, error) {
	var order transfer.TransferOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("AuditLog", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds transfer orders with filtering and pagination
func (r *GormTransferOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.TransferOrder, error) {
	var orders []transfer.TransferOrder

	query := r.db.WithContext(ctx).Model(&transfer.TransferOrder{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOverdue returns orders whose expected date has passed while still
// pending or approved
func (r *GormTransferOrderRepository) FindOverdue(ctx context.Context, now time.Time) ([]transfer.TransferOrder, error) {
	var orders []transfer.TransferOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("expected_transfer_date IS NOT NULL AND expected_transfer_date < ? AND status IN ?", now,
			[]transfer.TransferOrderStatus{
				transfer.TransferOrderStatusPending,
				transfer.TransferOrderStatusApproved,
			}).
		Order("expected_transfer_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order with its items and audit entries
// atomically. Updates require the stored row to still hold the previous
// version.
func (r *GormTransferOrderRepository) Save(ctx context.Context, order *transfer.TransferOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		err := tx.Model(&transfer.TransferOrder{}).
			Select("version").
			Where("id = ?", order.ID).
			Take(&current).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return translateWriteError(tx.Create(order).Error)
		}
		if err != nil {
			return err
		}

		expected := order.Version - 1
		result := tx.Model(&transfer.TransferOrder{}).
			Where("id = ? AND version = ?", order.ID, expected).
			Updates(map[string]interface{}{
				"status":                 order.Status,
				"priority":               order.Priority,
				"approver_id":            order.ApproverID,
				"expected_transfer_date": order.ExpectedTransferDate,
				"actual_transfer_date":   order.ActualTransferDate,
				"rejection_reason":       order.RejectionReason,
				"cancel_reason":          order.CancelReason,
				"notes":                  order.Notes,
				"version":                order.Version,
				"updated_at":             order.UpdatedAt,
			})
		if result.Error != nil {
			return translateWriteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return translateWriteError(err)
			}
		}
		for i := range order.AuditLog {
			order.AuditLog[i].OrderID = order.ID
			if err := tx.Save(&order.AuditLog[i]).Error; err != nil {
				return translateWriteError(err)
			}
		}
		return nil
	})
}

// GenerateNumber generates the next order number scoped to the period of now.
// Format: TRF-YYYYMM-NNNN (e.g., TRF-202608-0001)
func (r *GormTransferOrderRepository) GenerateNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("TRF-%s-", now.Format("200601"))

	var last transfer.TransferOrder
	err := r.db.WithContext(ctx).
		Model(&transfer.TransferOrder{}).
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

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormTransferOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "source_warehouse_id":
			query = query.Where("source_warehouse_id = ?", value)
		case "dest_warehouse_id":
			query = query.Where("dest_warehouse_id = ?", value)
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

	sortField := ValidateSortField(filter.OrderBy, TransferOrderSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// Ensure GormTransferOrderRepository implements TransferOrderRepository
var _ transfer.TransferOrderRepository = (*GormTransferOrderRepository)(nil)
