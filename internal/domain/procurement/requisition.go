package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/shared"
)

// RequisitionStatus represents the status of a purchase requisition
type RequisitionStatus string

const (
	// RequisitionStatusPending means the requisition awaits a decision
	RequisitionStatusPending RequisitionStatus = "PENDING"
	// RequisitionStatusInwardApproved means the requisition was approved and
	// fanned out into purchase orders
	RequisitionStatusInwardApproved RequisitionStatus = "INWARD_APPROVED"
	// RequisitionStatusRejected means the requisition was rejected
	RequisitionStatusRejected RequisitionStatus = "REJECTED"
)

// String returns the string representation of RequisitionStatus
func (s RequisitionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid RequisitionStatus
func (s RequisitionStatus) IsValid() bool {
	switch s {
	case RequisitionStatusPending, RequisitionStatusInwardApproved, RequisitionStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// Both decided states are terminal.
func (s RequisitionStatus) CanTransitionTo(target RequisitionStatus) bool {
	switch s {
	case RequisitionStatusPending:
		return target == RequisitionStatusInwardApproved || target == RequisitionStatusRejected
	case RequisitionStatusInwardApproved, RequisitionStatusRejected:
		return false
	}
	return false
}

// DisplayText returns the human-readable status text
func (s RequisitionStatus) DisplayText() string {
	switch s {
	case RequisitionStatusPending:
		return "Pending approval"
	case RequisitionStatusInwardApproved:
		return "Approved"
	case RequisitionStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// RequisitionSource records how a requisition came to exist
type RequisitionSource string

const (
	// RequisitionSourceManual is a hand-entered request
	RequisitionSourceManual RequisitionSource = "MANUAL"
	// RequisitionSourceRule is a request generated by rule evaluation
	RequisitionSourceRule RequisitionSource = "RULE"
)

// RequisitionItem represents a line item in a purchase requisition
type RequisitionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	RequisitionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RequisitionItem) TableName() string {
	return "purchase_requisition_items"
}

// Requisition is an internal request to acquire inventory, the predecessor
// to one or more purchase orders. It is mutated only through its approval
// workflow and never physically deleted while undecided or approved.
type Requisition struct {
	shared.BaseAggregateRoot
	Number          string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status          RequisitionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Source          RequisitionSource `gorm:"type:varchar(10);not null;default:'MANUAL'"`
	RequesterID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ApproverID      *uuid.UUID        `gorm:"type:uuid"`
	DecidedAt       *time.Time
	RejectionReason string            `gorm:"type:varchar(500)"`
	Items           []RequisitionItem `gorm:"foreignKey:RequisitionID;references:ID"`
}

// TableName returns the table name for GORM
func (Requisition) TableName() string {
	return "purchase_requisitions"
}

// NewRequisition creates a new pending requisition
func NewRequisition(number string, requesterID uuid.UUID, source RequisitionSource) (*Requisition, error) {
	if number == "" {
		return nil, shared.NewValidationError("INVALID_NUMBER", "Requisition number cannot be empty")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewDependencyError("ACTOR_REQUIRED", "Requester must be provided")
	}

	return &Requisition{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(requesterID),
		Number:            number,
		Status:            RequisitionStatusPending,
		Source:            source,
		RequesterID:       requesterID,
		Items:             make([]RequisitionItem, 0),
	}, nil
}

// AddItem adds a line item. Only allowed while the requisition is pending,
// and an item may appear at most once.
func (r *Requisition) AddItem(itemID uuid.UUID, itemName string, quantity decimal.Decimal) (*RequisitionItem, error) {
	if r.Status != RequisitionStatusPending {
		return nil, shared.NewInvalidStateError("INVALID_STATE", "Cannot add items to a decided requisition")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for _, item := range r.Items {
		if item.ItemID == itemID {
			return nil, shared.NewValidationError("DUPLICATE_ITEM", "Item already requested on this requisition")
		}
	}

	now := time.Now()
	item := RequisitionItem{
		ID:            uuid.New(),
		RequisitionID: r.ID,
		ItemID:        itemID,
		ItemName:      itemName,
		Quantity:      quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.Items = append(r.Items, item)
	r.UpdatedAt = now

	return &r.Items[len(r.Items)-1], nil
}

// Approve transitions the requisition to inward-approved. Only legal from
// pending; repeated approval fails so callers can never trigger a second
// fan-out by retrying.
func (r *Requisition) Approve(approverID uuid.UUID) error {
	if approverID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Approver must be provided")
	}
	if !r.Status.CanTransitionTo(RequisitionStatusInwardApproved) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot approve requisition in %s status", r.Status))
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot approve requisition without items")
	}

	now := time.Now()
	r.Status = RequisitionStatusInwardApproved
	r.ApproverID = &approverID
	r.DecidedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Reject transitions the requisition to rejected. A reason is mandatory and
// is stored verbatim.
func (r *Requisition) Reject(approverID uuid.UUID, reason string) error {
	if approverID == uuid.Nil {
		return shared.NewDependencyError("ACTOR_REQUIRED", "Approver must be provided")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Rejection reason is required")
	}
	if !r.Status.CanTransitionTo(RequisitionStatusRejected) {
		return shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot reject requisition in %s status", r.Status))
	}

	now := time.Now()
	r.Status = RequisitionStatusRejected
	r.ApproverID = &approverID
	r.DecidedAt = &now
	r.RejectionReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// ContainsItem returns true if the requisition references the given item
func (r *Requisition) ContainsItem(itemID uuid.UUID) bool {
	for _, item := range r.Items {
		if item.ItemID == itemID {
			return true
		}
	}
	return false
}

// IsPending returns true if the requisition awaits a decision
func (r *Requisition) IsPending() bool {
	return r.Status == RequisitionStatusPending
}

// IsApproved returns true if the requisition was approved
func (r *Requisition) IsApproved() bool {
	return r.Status == RequisitionStatusInwardApproved
}

// ItemCount returns the number of line items
func (r *Requisition) ItemCount() int {
	return len(r.Items)
}

// RequisitionRepository persists purchase requisitions
type RequisitionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Requisition, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Requisition, error)
	// Save creates or updates a requisition together with its items
	// atomically. Updates of existing requisitions check the aggregate
	// version and fail with CONCURRENT_MODIFICATION on a mismatch. A number
	// collision surfaces as a conflict error.
	Save(ctx context.Context, requisition *Requisition) error
	// ExistsPendingWithItem reports whether any pending requisition already
	// references the given item
	ExistsPendingWithItem(ctx context.Context, itemID uuid.UUID) (bool, error)
	// GenerateNumber produces the next requisition number (REQ-YYYY-NNNNN)
	GenerateNumber(ctx context.Context) (string, error)
}
