package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/shared"
)

func TestGormPurchaseOrderRepository_ExistsOpenForRequisitionAndSupplier(t *testing.T) {
	t.Run("returns true when an open order exists for the pair", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPurchaseOrderRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_orders" WHERE requisition_id = \$1 AND supplier_id = \$2 AND status IN`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsOpenForRequisitionAndSupplier(context.Background(), uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when only cancelled orders exist for the pair", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPurchaseOrderRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_orders" WHERE requisition_id = \$1 AND supplier_id = \$2 AND status IN`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsOpenForRequisitionAndSupplier(context.Background(), uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_FindByID(t *testing.T) {
	t.Run("returns not found for missing order", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPurchaseOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "purchase_orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_FindByRequisition(t *testing.T) {
	t.Run("returns orders linked to the requisition", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPurchaseOrderRepository(db)

		requisitionID := uuid.New()
		firstID := uuid.New()
		secondID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "number", "status", "supplier_id", "supplier_name", "requisition_id", "version"}).
			AddRow(firstID, "PO-2026-00001", "DRAFT", uuid.New(), "Acme Medical", requisitionID, 1).
			AddRow(secondID, "PO-2026-00002", "DRAFT", uuid.New(), "Globex Supplies", requisitionID, 1)
		mock.ExpectQuery(`SELECT \* FROM "purchase_orders" WHERE requisition_id = \$1 ORDER BY number ASC`).
			WithArgs(requisitionID).
			WillReturnRows(rows)

		itemRows := sqlmock.NewRows([]string{"id", "order_id", "item_id", "item_name"})
		mock.ExpectQuery(`SELECT \* FROM "purchase_order_items" WHERE "purchase_order_items"\."order_id" IN`).
			WillReturnRows(itemRows)

		orders, err := repo.FindByRequisition(context.Background(), requisitionID)

		assert.NoError(t, err)
		assert.Len(t, orders, 2)
		assert.Equal(t, "PO-2026-00001", orders[0].Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_GenerateNumber(t *testing.T) {
	year := time.Now().Year()

	t.Run("starts at one for an empty year", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPurchaseOrderRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "purchase_orders" WHERE number LIKE \$1 ORDER BY number DESC`).
			WillReturnError(gorm.ErrRecordNotFound)

		number, err := repo.GenerateNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%d-00001", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments the highest existing number", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPurchaseOrderRepository(db)

		rows := sqlmock.NewRows([]string{"id", "number"}).
			AddRow(uuid.New(), fmt.Sprintf("PO-%d-00009", year))
		mock.ExpectQuery(`SELECT \* FROM "purchase_orders" WHERE number LIKE \$1 ORDER BY number DESC`).
			WillReturnRows(rows)

		number, err := repo.GenerateNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%d-00010", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
