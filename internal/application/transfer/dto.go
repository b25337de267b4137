package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/transfer"
)

// CreateTransferOrderRequest represents a request to create a transfer order
type CreateTransferOrderRequest struct {
	SourceWarehouseID    uuid.UUID                `json:"source_warehouse_id"`
	DestWarehouseID      uuid.UUID                `json:"dest_warehouse_id"`
	Priority             string                   `json:"priority"`
	RequesterID          uuid.UUID                `json:"requester_id"`
	ExpectedTransferDate *time.Time               `json:"expected_transfer_date"`
	Items                []TransferOrderItemInput `json:"items"`
}

// TransferOrderItemInput represents an item in the create transfer request
type TransferOrderItemInput struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// ApproveTransferOrderRequest represents an approval decision with optional
// per-line quantity overrides keyed by line item ID
type ApproveTransferOrderRequest struct {
	ApproverID    uuid.UUID                     `json:"approver_id"`
	ItemApprovals map[uuid.UUID]decimal.Decimal `json:"item_approvals"`
	Comment       string                        `json:"comment"`
}

// CompleteTransferOrderRequest records what actually arrived, keyed by line item ID
type CompleteTransferOrderRequest struct {
	ActorID         uuid.UUID                     `json:"actor_id"`
	ItemCompletions map[uuid.UUID]decimal.Decimal `json:"item_completions"`
}

// TransferOrderListFilter represents filter options for the transfer order list
type TransferOrderListFilter struct {
	Status            *transfer.TransferOrderStatus `json:"status"`
	SourceWarehouseID *uuid.UUID                    `json:"source_warehouse_id"`
	DestWarehouseID   *uuid.UUID                    `json:"dest_warehouse_id"`
	Page              int                           `json:"page"`
	PageSize          int                           `json:"page_size"`
}

// TransferOrderResponse represents a transfer order in API responses
type TransferOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	Number               string                      `json:"number"`
	Status               string                      `json:"status"`
	StatusText           string                      `json:"status_text"`
	SourceWarehouseID    uuid.UUID                   `json:"source_warehouse_id"`
	DestWarehouseID      uuid.UUID                   `json:"dest_warehouse_id"`
	Priority             string                      `json:"priority"`
	RequesterID          uuid.UUID                   `json:"requester_id"`
	ApproverID           *uuid.UUID                  `json:"approver_id,omitempty"`
	ExpectedTransferDate *time.Time                  `json:"expected_transfer_date,omitempty"`
	ActualTransferDate   *time.Time                  `json:"actual_transfer_date,omitempty"`
	RejectionReason      string                      `json:"rejection_reason,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	Notes                string                      `json:"notes,omitempty"`
	CompletionPercent    decimal.Decimal             `json:"completion_percent"`
	Items                []TransferOrderItemResponse `json:"items"`
	AuditLog             []AuditEntryResponse        `json:"audit_log"`
	Version              int                         `json:"version"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// TransferOrderItemResponse represents a transfer line item in API responses
type TransferOrderItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ItemID              uuid.UUID       `json:"item_id"`
	ItemName            string          `json:"item_name"`
	QuantityRequested   decimal.Decimal `json:"quantity_requested"`
	QuantityApproved    decimal.Decimal `json:"quantity_approved"`
	QuantityTransferred decimal.Decimal `json:"quantity_transferred"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	BatchNumber         string          `json:"batch_number,omitempty"`
	ExpiryDate          *time.Time      `json:"expiry_date,omitempty"`
}

// AuditEntryResponse represents a workflow audit entry in API responses
type AuditEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor_id"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToTransferOrderResponse converts a transfer order aggregate to its response DTO
func ToTransferOrderResponse(o *transfer.TransferOrder) TransferOrderResponse {
	items := make([]TransferOrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, TransferOrderItemResponse{
			ID:                  item.ID,
			ItemID:              item.ItemID,
			ItemName:            item.ItemName,
			QuantityRequested:   item.QuantityRequested,
			QuantityApproved:    item.QuantityApproved,
			QuantityTransferred: item.QuantityTransferred,
			UnitCost:            item.UnitCost,
			BatchNumber:         item.BatchNumber,
			ExpiryDate:          item.ExpiryDate,
		})
	}
	auditLog := make([]AuditEntryResponse, 0, len(o.AuditLog))
	for _, entry := range o.AuditLog {
		auditLog = append(auditLog, AuditEntryResponse{
			ID:        entry.ID,
			Action:    string(entry.Action),
			ActorID:   entry.ActorID,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt,
		})
	}

	return TransferOrderResponse{
		ID:                   o.ID,
		Number:               o.Number,
		Status:               o.Status.String(),
		StatusText:           o.Status.DisplayText(),
		SourceWarehouseID:    o.SourceWarehouseID,
		DestWarehouseID:      o.DestWarehouseID,
		Priority:             o.Priority.String(),
		RequesterID:          o.RequesterID,
		ApproverID:           o.ApproverID,
		ExpectedTransferDate: o.ExpectedTransferDate,
		ActualTransferDate:   o.ActualTransferDate,
		RejectionReason:      o.RejectionReason,
		CancelReason:         o.CancelReason,
		Notes:                o.Notes,
		CompletionPercent:    o.CompletionPercent(),
		Items:                items,
		AuditLog:             auditLog,
		Version:              o.Version,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
