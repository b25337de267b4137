package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/shared"
)

// TransferOrderStatus represents the status of a transfer order
type TransferOrderStatus string

const (
	// TransferOrderStatusPending awaits an approval decision
	TransferOrderStatusPending TransferOrderStatus = "PENDING"
	// TransferOrderStatusApproved is approved and ready to ship
	TransferOrderStatusApproved TransferOrderStatus = "APPROVED"
	// TransferOrderStatusRejected is a terminal rejection
	TransferOrderStatusRejected TransferOrderStatus = "REJECTED"
	// TransferOrderStatusInTransit is physically on the move
	TransferOrderStatusInTransit TransferOrderStatus = "IN_TRANSIT"
	// TransferOrderStatusCompleted has arrived and been booked in
	TransferOrderStatusCompleted TransferOrderStatus = "COMPLETED"
	// TransferOrderStatusCancelled was cancelled before transit
	TransferOrderStatusCancelled TransferOrderStatus = "CANCELLED"
)

// String returns the string representation of TransferOrderStatus
func (s TransferOrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid TransferOrderStatus
func (s TransferOrderStatus) IsValid() bool {
	switch s {
	case TransferOrderStatusPending, TransferOrderStatusApproved, TransferOrderStatusRejected,
		TransferOrderStatusInTransit, TransferOrderStatusCompleted, TransferOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// Cancellation is allowed from either pre-transit state.
func (s TransferOrderStatus) CanTransitionTo(target TransferOrderStatus) bool {
	switch s {
	case TransferOrderStatusPending:
		return target == TransferOrderStatusApproved || target == TransferOrderStatusRejected || target == TransferOrderStatusCancelled
	case TransferOrderStatusApproved:
		return target == TransferOrderStatusInTransit || target == TransferOrderStatusCancelled
	case TransferOrderStatusInTransit:
		return target == TransferOrderStatusCompleted
	case TransferOrderStatusRejected, TransferOrderStatusCompleted, TransferOrderStatusCancelled:
		return false
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions
func (s TransferOrderStatus) IsTerminal() bool {
	switch s {
	case TransferOrderStatusRejected, TransferOrderStatusCompleted, TransferOrderStatusCancelled:
		return true
	}
	return false
}

// DisplayText returns the human-readable status text
func (s TransferOrderStatus) DisplayText() string {
	switch s {
	case TransferOrderStatusPending:
		return "Pending approval"
	case TransferOrderStatusApproved:
		return "Approved"
	case TransferOrderStatusRejected:
		return "Rejected"
	case TransferOrderStatusInTransit:
		return "In transit"
	case TransferOrderStatusCompleted:
		return "Completed"
	case TransferOrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// TransferPriority represents the urgency of a transfer order
type TransferPriority string

const (
	TransferPriorityLow    TransferPriority = "LOW"
	TransferPriorityNormal TransferPriority = "NORMAL"
	TransferPriorityHigh   TransferPriority = "HIGH"
	TransferPriorityUrgent TransferPriority = "URGENT"
)

// String returns the string representation of TransferPriority
func (p TransferPriority) String() string {
	return string(p)
}

// IsValid returns true if the priority is valid
func (p TransferPriority) IsValid() bool {
	switch p {
	case TransferPriorityLow, TransferPriorityNormal, TransferPriorityHigh, TransferPriorityUrgent:
		return true
	}
	return false
}

// TransferItem represents a line item on a transfer order. The quantity
// chain 0 <= transferred <= approved <= requested holds at all times.
type TransferItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID              uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName            string          `gorm:"type:varchar(200);not null"`
	QuantityRequested   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityApproved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityTransferred decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BatchNumber         string          `gorm:"type:varchar(100)"`
	ExpiryDate          *time.Time
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "transfer_order_items"
}

// approveQuantity records the approved quantity for this line
func (i *TransferItem) approveQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Approved quantity cannot be negative")
	}
	if quantity.GreaterThan(i.QuantityRequested) {
		return shared.NewValidationError("QUANTITY_EXCEEDED", fmt.Sprintf("Cannot approve %s, only %s requested", quantity, i.QuantityRequested))
	}
	i.QuantityApproved = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// recordTransferred records the quantity actually moved for this line
func (i *TransferItem) recordTransferred(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Transferred quantity cannot be negative")
	}
	if quantity.GreaterThan(i.QuantityApproved) {
		return shared.NewValidationError("QUANTITY_EXCEEDED", fmt.Sprintf("Cannot transfer %s, only %s approved", quantity, i.QuantityApproved))
	}
	i.QuantityTransferred = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// AuditAction identifies a recorded workflow action
type AuditAction string

const (
	AuditActionCreated   AuditAction = "CREATED"
	AuditActionApproved  AuditAction = "APPROVED"
	AuditActionRejected  AuditAction = "REJECTED"
	AuditActionStarted   AuditAction = "STARTED"
	AuditActionCompleted AuditAction = "COMPLETED"
	AuditActionCancelled AuditAction = "CANCELLED"
)

// AuditEntry records a workflow decision on a transfer order
type AuditEntry struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Action    AuditAction `gorm:"type:varchar(20);not null"`
	ActorID   uuid.UUID   `gorm:"type:uuid;not null"`
	Comment   string      `gorm:"type:varchar(500)"`
	CreatedAt time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "transfer_order_audit_entries"
}

// TransferOrder moves stock between two warehouses through an approval and
// fulfillment workflow with per-line partial quantities.
type TransferOrder struct {
	shared.BaseAggregateRoot
	Number               string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status               TransferOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	SourceWarehouseID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	DestWarehouseID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Priority             TransferPriority    `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	RequesterID          uuid.UUID           `gorm:"type:uuid;not null"`
	ApproverID           *uuid.UUID          `gorm:"type:uuid"`
	ExpectedTransferDate *time.Time          `gorm:"index"`
	ActualTransferDate   *time.Time
	RejectionReason      string         `gorm:"type:varchar(500)"`
	CancelReason         string         `gorm:"type:varchar(500)"`
	Notes                string         `gorm:"type:text"`
	Items                []TransferItem `gorm:"foreignKey:OrderID;references:ID"`
	AuditLog             []AuditEntry   `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (TransferOrder) TableName() string {
	return "transfer_orders"
}

// NewTransferOrder creates a new pending transfer order
func NewTransferOrder(number string, sourceWarehouseID, destWarehouseID uuid.UUID, priority TransferPriority, requesterID uuid.UUID, expectedDate *time.Time) (*TransferOrder, error) {
	if number == "" {
		return nil, shared.NewValidationError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if sourceWarehouseID == uuid.Nil || destWarehouseID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_WAREHOUSE", "Source and destination warehouses are required")
	}
	if sourceWarehouseID == destWarehouseID {
		return nil, shared.NewValidationError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if !priority.IsValid() {
		return nil, shared.NewValidationError("INVALID_PRIORITY", "Unknown transfer priority")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewDependencyError("ACTOR_REQUIRED", "Requester must be provided")
	}

	order := &TransferOrder{
		BaseAggregateRoot:    shared.NewBaseAggregateRootWithCreator(requesterID),
		Number:               number,
		Status:               TransferOrderStatusPending,
		SourceWarehouseID:    sourceWarehouseID,
		DestWarehouseID:      destWarehouseID,
		Priority:             priority,
		RequesterID:          requesterID,
		ExpectedTransferDate: expectedDate,
		Items:                make([]TransferItem, 0),
		AuditLog:             make([]AuditEntry, 0),
	}
	order.appendAudit(AuditActionCreated, requesterID, "")

	return order, nil
}

// AddItem adds a line item. Only allowed while pending.
func (o *TransferOrder) AddItem(itemID uuid.UUID, itemName string, quantityRequested, unitCost decimal.Decimal, batchNumber string, expiryDate *time.Time) (*TransferItem, error) {
	if o.Status != TransferOrderStatusPending {
		return nil, shared.NewInvalidStateError("INVALID_STATE", "Cannot add items to a decided transfer order")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantityRequested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	item := TransferItem{
		ID:                  uuid.New(),
		OrderID:             o.ID,
		ItemID:              itemID,
		ItemName:            itemName,
		QuantityRequested:   quantityRequested,
		QuantityApproved:    decimal.Zero,
		QuantityTransferred: decimal.Zero,
		UnitCost:            unitCost,
		BatchNumber:         batchNumber,
		ExpiryDate:          expiryDate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = now

	return &o.Items[len(o.Items)-1], nil
}

// Approve transitions the order to approved. When itemApprovals is nil every
// line's approved quantity defaults to its requested quantity; otherwise each
// override is keyed by line item ID and must satisfy 0 <= approved <=
// requested. Lines without an override still default to full approval.
func (o *TransferOrder) Approve(approverID uuid.UUID, itemApprovals map[uuid.UUID]decimal.Decimal, comment string) error {
	if approverID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Approver must be provided")
	}
	if !o.Status.CanTransitionTo(TransferOrderStatusApproved) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot approve transfer order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot approve transfer order without items")
	}
	for id := range itemApprovals {
		if o.findItem(id) == nil {
			return shared.NewValidationError("ITEM_NOT_FOUND", fmt.Sprintf("No transfer item %s on this order", id))
		}
	}

	for idx := range o.Items {
		quantity := o.Items[idx].QuantityRequested
		if override, ok := itemApprovals[o.Items[idx].ID]; ok {
			quantity = override
		}
		if err := o.Items[idx].approveQuantity(quantity); err != nil {
			return err
		}
	}

	now := time.Now()
	o.Status = TransferOrderStatusApproved
	o.ApproverID = &approverID
	o.UpdatedAt = now
	o.IncrementVersion()
	o.appendAudit(AuditActionApproved, approverID, comment)

	return nil
}

// Reject transitions the order to rejected. A reason is mandatory.
func (o *TransferOrder) Reject(approverID uuid.UUID, reason string) error {
	if approverID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Approver must be provided")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Rejection reason is required")
	}
	if !o.Status.CanTransitionTo(TransferOrderStatusRejected) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot reject transfer order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = TransferOrderStatusRejected
	o.ApproverID = &approverID
	o.RejectionReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()
	o.appendAudit(AuditActionRejected, approverID, reason)

	return nil
}

// Start marks the approved order as in transit and stamps the actual
// transfer date
func (o *TransferOrder) Start(actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Actor must be provided")
	}
	if !o.Status.CanTransitionTo(TransferOrderStatusInTransit) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot start transfer order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = TransferOrderStatusInTransit
	o.ActualTransferDate = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.appendAudit(AuditActionStarted, actorID, "")

	return nil
}

// Complete records the transferred quantity per line (keyed by line item ID;
// lines without an entry complete at zero) and transitions the order to
// completed. Stock-movement emission is the caller's concern so it can share
// the same transaction.
func (o *TransferOrder) Complete(actorID uuid.UUID, itemCompletions map[uuid.UUID]decimal.Decimal) error {
	if actorID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Actor must be provided")
	}
	if !o.Status.CanTransitionTo(TransferOrderStatusCompleted) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot complete transfer order in %s status", o.Status))
	}
	for id := range itemCompletions {
		if o.findItem(id) == nil {
			return shared.NewValidationError("ITEM_NOT_FOUND", fmt.Sprintf("No transfer item %s on this order", id))
		}
	}

	for idx := range o.Items {
		quantity := decimal.Zero
		if transferred, ok := itemCompletions[o.Items[idx].ID]; ok {
			quantity = transferred
		}
		if err := o.Items[idx].recordTransferred(quantity); err != nil {
			return err
		}
	}

	now := time.Now()
	o.Status = TransferOrderStatusCompleted
	o.UpdatedAt = now
	o.IncrementVersion()
	o.appendAudit(AuditActionCompleted, actorID, "")

	return nil
}

// Cancel cancels the order from either pre-transit state. A reason is
// mandatory and is appended to the order notes.
func (o *TransferOrder) Cancel(actorID uuid.UUID, reason string) error {
	if actorID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Actor must be provided")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}
	if !o.Status.CanTransitionTo(TransferOrderStatusCancelled) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot cancel transfer order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = TransferOrderStatusCancelled
	o.CancelReason = reason
	if o.Notes != "" {
		o.Notes += "\n"
	}
	o.Notes += "Cancelled: " + reason
	o.UpdatedAt = now
	o.IncrementVersion()
	o.appendAudit(AuditActionCancelled, actorID, reason)

	return nil
}

// IsOverdue reports whether the expected transfer date has passed while the
// order is still waiting to move
func (o *TransferOrder) IsOverdue(now time.Time) bool {
	if o.ExpectedTransferDate == nil {
		return false
	}
	if o.Status != TransferOrderStatusPending && o.Status != TransferOrderStatusApproved {
		return false
	}
	return o.ExpectedTransferDate.Before(now)
}

// CompletionPercent returns transferred over approved quantity as a
// percentage (0-100)
func (o *TransferOrder) CompletionPercent() decimal.Decimal {
	totalApproved := decimal.Zero
	totalTransferred := decimal.Zero
	for _, item := range o.Items {
		totalApproved = totalApproved.Add(item.QuantityApproved)
		totalTransferred = totalTransferred.Add(item.QuantityTransferred)
	}
	if totalApproved.IsZero() {
		return decimal.Zero
	}
	return totalTransferred.Div(totalApproved).Mul(decimal.NewFromInt(100)).Round(2)
}

// GetItem returns a line item by its ID
func (o *TransferOrder) GetItem(itemID uuid.UUID) *TransferItem {
	return o.findItem(itemID)
}

func (o *TransferOrder) findItem(id uuid.UUID) *TransferItem {
	for idx := range o.Items {
		if o.Items[idx].ID == id {
			return &o.Items[idx]
		}
	}
	return nil
}

func (o *TransferOrder) appendAudit(action AuditAction, actorID uuid.UUID, comment string) {
	o.AuditLog = append(o.AuditLog, AuditEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Action:    action,
		ActorID:   actorID,
		Comment:   comment,
		CreatedAt: time.Now(),
	})
}

// ItemCount returns the number of line items
func (o *TransferOrder) ItemCount() int {
	return len(o.Items)
}

// TransferOrderRepository persists transfer orders
type TransferOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TransferOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]TransferOrder, error)
	// FindOverdue returns orders whose expected date has passed while still
	// pending or approved
	FindOverdue(ctx context.Context, now time.Time) ([]TransferOrder, error)
	// Save creates or updates an order with its items and audit entries
	// atomically, with an optimistic version check on updates
	Save(ctx context.Context, order *TransferOrder) error
	// GenerateNumber produces the next order number scoped to the period of
	// now (TRF-YYYYMM-NNNN)
	GenerateNumber(ctx context.Context, now time.Time) (string, error)
}
