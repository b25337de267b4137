package procurement

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/inventory"
	"github.com/warehousely/backend/internal/domain/procurement"
	"github.com/warehousely/backend/internal/domain/shared"
)

// defaultDeliveryOffsetDays is used when no delivery offset is configured
const defaultDeliveryOffsetDays = 7

// SupplierDirectory resolves supplier display names. Suppliers are owned by
// the partner-management side of the system.
type SupplierDirectory interface {
	// SupplierName returns the display name for the supplier, or a not-found
	// error when the supplier does not exist
	SupplierName(ctx context.Context, supplierID uuid.UUID) (string, error)
}

// FanOutPlanner turns an approved requisition into draft purchase orders, one
// per distinct supplier. Items resolve their supplier from the inventory
// snapshot, falling back to the configured default supplier when the item has
// none.
type FanOutPlanner struct {
	snapshot          inventory.SnapshotProvider
	suppliers         SupplierDirectory
	defaultSupplierID uuid.UUID
	deliveryOffset    int
}

// NewFanOutPlanner creates a fan-out planner. A zero defaultSupplierID means
// items without a supplier fail the fan-out instead of falling back.
func NewFanOutPlanner(snapshot inventory.SnapshotProvider, suppliers SupplierDirectory, defaultSupplierID uuid.UUID, deliveryOffsetDays int) *FanOutPlanner {
	if deliveryOffsetDays <= 0 {
		deliveryOffsetDays = defaultDeliveryOffsetDays
	}
	return &FanOutPlanner{
		snapshot:          snapshot,
		suppliers:         suppliers,
		defaultSupplierID: defaultSupplierID,
		deliveryOffset:    deliveryOffsetDays,
	}
}

type supplierGroup struct {
	supplierID uuid.UUID
	items      []procurement.RequisitionItem
}

// FanOut creates one draft purchase order per distinct supplier referenced by
// the requisition's items. Supplier pairs that already have an open order for
// this requisition are skipped, which makes the whole operation safe to rerun
// after a partial failure. All writes go through the given transactional
// repositories so the caller controls atomicity.
func (p *FanOutPlanner) FanOut(ctx context.Context, repos TransactionalRepositories, requisition *procurement.Requisition, approvedAt time.Time) ([]procurement.PurchaseOrder, error) {
	items, err := p.snapshot.List(ctx, false)
	if err != nil {
		return nil, shared.NewDependencyError("SNAPSHOT_UNAVAILABLE", "Inventory snapshot could not be loaded: "+err.Error())
	}
	byID := make(map[uuid.UUID]*inventory.ItemStock, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	groups, err := p.groupBySupplier(requisition, byID)
	if err != nil {
		return nil, err
	}

	deliveryDate := approvedAt.AddDate(0, 0, p.deliveryOffset)
	var orders []procurement.PurchaseOrder
	for _, group := range groups {
		exists, err := repos.OrderRepo().ExistsOpenForRequisitionAndSupplier(ctx, requisition.ID, group.supplierID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		supplierName, err := p.suppliers.SupplierName(ctx, group.supplierID)
		if err != nil {
			return nil, err
		}

		number, err := repos.OrderRepo().GenerateNumber(ctx)
		if err != nil {
			return nil, err
		}
		order, err := procurement.NewPurchaseOrderForRequisition(number, group.supplierID, supplierName, requisition.ID)
		if err != nil {
			return nil, err
		}
		if err := order.SetExpectedDeliveryDate(deliveryDate); err != nil {
			return nil, err
		}

		for _, reqItem := range group.items {
			unitPrice := snapshotUnitCost(byID[reqItem.ItemID])
			if _, err := order.AddItem(reqItem.ItemID, reqItem.ItemName, reqItem.Quantity, unitPrice); err != nil {
				return nil, err
			}
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

// groupBySupplier buckets requisition items by their resolved supplier,
// ordered by supplier ID so fan-out output is deterministic
func (p *FanOutPlanner) groupBySupplier(requisition *procurement.Requisition, byID map[uuid.UUID]*inventory.ItemStock) ([]supplierGroup, error) {
	grouped := make(map[uuid.UUID][]procurement.RequisitionItem)
	for _, item := range requisition.Items {
		supplierID := p.defaultSupplierID
		if stock, ok := byID[item.ItemID]; ok && stock.SupplierID != nil && *stock.SupplierID != uuid.Nil {
			supplierID = *stock.SupplierID
		}
		if supplierID == uuid.Nil {
			return nil, shared.NewDependencyError("NO_SUPPLIER", "Item "+item.ItemName+" has no supplier and no default supplier is configured")
		}
		grouped[supplierID] = append(grouped[supplierID], item)
	}

	groups := make([]supplierGroup, 0, len(grouped))
	for supplierID, items := range grouped {
		groups = append(groups, supplierGroup{supplierID: supplierID, items: items})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].supplierID.String() < groups[j].supplierID.String()
	})

	return groups, nil
}

// snapshotUnitCost defaults the order line price to the item's snapshot unit
// cost, or zero when the item is unknown to the snapshot
func snapshotUnitCost(stock *inventory.ItemStock) decimal.Decimal {
	if stock == nil {
		return decimal.Zero
	}
	return stock.UnitCost
}
