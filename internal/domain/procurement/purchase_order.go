package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	// PurchaseOrderStatusDraft is a newly created, not yet committed order
	PurchaseOrderStatusDraft PurchaseOrderStatus = "DRAFT"
	// PurchaseOrderStatusApproved is an order committed to the supplier
	PurchaseOrderStatusApproved PurchaseOrderStatus = "APPROVED"
	// PurchaseOrderStatusCancelled is a terminally cancelled order
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusApproved, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusCancelled:
		return false
	}
	return false
}

// IsOpen returns true for statuses that count against the one-open-order-per
// requisition-and-supplier invariant
func (s PurchaseOrderStatus) IsOpen() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusApproved
}

// DisplayText returns the human-readable status text
func (s PurchaseOrderStatus) DisplayText() string {
	switch s {
	case PurchaseOrderStatusDraft:
		return "Draft"
	case PurchaseOrderStatusApproved:
		return "Approved"
	case PurchaseOrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName  string          `gorm:"type:varchar(200);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrder is a commitment to a specific supplier for specific
// quantities. Orders are created manually or by requisition fan-out; at most
// one draft or approved order may exist per (requisition, supplier) pair.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	Number               string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status               PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index:idx_purchase_order_req_supplier"`
	SupplierName         string              `gorm:"type:varchar(200);not null"`
	RequisitionID        *uuid.UUID          `gorm:"type:uuid;index:idx_purchase_order_req_supplier"`
	ApproverID           *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt           *time.Time
	ExpectedDeliveryDate *time.Time
	CancelReason         string              `gorm:"type:varchar(500)"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new draft purchase order without a requisition
// link (manual entry)
func NewPurchaseOrder(number string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	return newPurchaseOrder(number, supplierID, supplierName, nil)
}

// NewPurchaseOrderForRequisition creates a new draft purchase order linked to
// its originating requisition
func NewPurchaseOrderForRequisition(number string, supplierID uuid.UUID, supplierName string, requisitionID uuid.UUID) (*PurchaseOrder, error) {
	if requisitionID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_REQUISITION", "Requisition ID cannot be empty")
	}
	return newPurchaseOrder(number, supplierID, supplierName, &requisitionID)
}

func newPurchaseOrder(number string, supplierID uuid.UUID, supplierName string, requisitionID *uuid.UUID) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewValidationError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Status:            PurchaseOrderStatusDraft,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		RequisitionID:     requisitionID,
		TotalAmount:       decimal.Zero,
		Items:             make([]PurchaseOrderItem, 0),
	}, nil
}

// SetExpectedDeliveryDate sets the expected delivery date. Only allowed while
// the order is a draft.
func (o *PurchaseOrder) SetExpectedDeliveryDate(date time.Time) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewInvalidStateError("INVALID_STATE", "Cannot change delivery date of a non-draft order")
	}
	o.ExpectedDeliveryDate = &date
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem adds a line item. Only allowed in draft status, and an item may
// appear at most once per order.
func (o *PurchaseOrder) AddItem(itemID uuid.UUID, itemName string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewInvalidStateError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	for _, item := range o.Items {
		if item.ItemID == itemID {
			return nil, shared.NewValidationError("DUPLICATE_ITEM", "Item already exists on this order")
		}
	}

	now := time.Now()
	item := PurchaseOrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ItemID:    itemID,
		ItemName:  itemName,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    quantity.Mul(unitPrice),
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.Items = append(o.Items, item)
	o.recalculateTotal()
	o.UpdatedAt = now

	return &o.Items[len(o.Items)-1], nil
}

// Approve commits the order to its supplier
func (o *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if approverID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Approver must be provided")
	}
	if !o.Status.CanTransitionTo(PurchaseOrderStatusApproved) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot approve order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApproverID = &approverID
	o.ApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel terminally cancels the order. A reason is mandatory.
func (o *PurchaseOrder) Cancel(reason string) error {
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

// IsDraft returns true if the order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	// Save creates or updates an order together with its items atomically,
	// with an optimistic version check on updates
	Save(ctx context.Context, order *PurchaseOrder) error
	// ExistsOpenForRequisitionAndSupplier reports whether a draft or approved
	// order already exists for the (requisition, supplier) pair
	ExistsOpenForRequisitionAndSupplier(ctx context.Context, requisitionID, supplierID uuid.UUID) (bool, error)
	// GenerateNumber produces the next order number (PO-YYYY-NNNNN)
	GenerateNumber(ctx context.Context) (string, error)
}
