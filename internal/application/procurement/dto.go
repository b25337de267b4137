package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehousely/backend/internal/domain/procurement"
)

// ==================== Requisition DTOs ====================

// CreateRequisitionRequest represents a request to create a purchase requisition
type CreateRequisitionRequest struct {
	RequesterID uuid.UUID              `json:"requester_id"`
	Items       []RequisitionItemInput `json:"items"`
}

// RequisitionItemInput represents an item in the create requisition request
type RequisitionItemInput struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RequisitionListFilter represents filter options for the requisition list
type RequisitionListFilter struct {
	Status   *procurement.RequisitionStatus `json:"status"`
	Source   *procurement.RequisitionSource `json:"source"`
	Page     int                            `json:"page"`
	PageSize int                            `json:"page_size"`
}

// RequisitionResponse represents a requisition in API responses
type RequisitionResponse struct {
	ID              uuid.UUID                 `json:"id"`
	Number          string                    `json:"number"`
	Status          string                    `json:"status"`
	StatusText      string                    `json:"status_text"`
	Source          string                    `json:"source"`
	RequesterID     uuid.UUID                 `json:"requester_id"`
	ApproverID      *uuid.UUID                `json:"approver_id,omitempty"`
	DecidedAt       *time.Time                `json:"decided_at,omitempty"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
	Items           []RequisitionItemResponse `json:"items"`
	ItemCount       int                       `json:"item_count"`
	Version         int                       `json:"version"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// RequisitionItemResponse represents a requisition line item in API responses
type RequisitionItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ToRequisitionResponse converts a requisition aggregate to its response DTO
func ToRequisitionResponse(r *procurement.Requisition) RequisitionResponse {
	items := make([]RequisitionItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, RequisitionItemResponse{
			ID:       item.ID,
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Quantity: item.Quantity,
		})
	}

	return RequisitionResponse{
		ID:              r.ID,
		Number:          r.Number,
		Status:          r.Status.String(),
		StatusText:      r.Status.DisplayText(),
		Source:          string(r.Source),
		RequesterID:     r.RequesterID,
		ApproverID:      r.ApproverID,
		DecidedAt:       r.DecidedAt,
		RejectionReason: r.RejectionReason,
		Items:           items,
		ItemCount:       len(items),
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ApproveRequisitionResult carries the approved requisition together with the
// purchase orders its fan-out produced
type ApproveRequisitionResult struct {
	Requisition RequisitionResponse     `json:"requisition"`
	Orders      []PurchaseOrderResponse `json:"orders"`
}

// CreateFromSuggestionsResult reports which requisitions a materialization
// pass created and which items it skipped as already pending
type CreateFromSuggestionsResult struct {
	RequisitionIDs []uuid.UUID `json:"requisition_ids"`
	SkippedItemIDs []uuid.UUID `json:"skipped_item_ids"`
}

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order manually
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID                      `json:"supplier_id"`
	ExpectedDeliveryDate *time.Time                     `json:"expected_delivery_date"`
	Items                []CreatePurchaseOrderItemInput `json:"items"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderListFilter represents filter options for the purchase order list
type PurchaseOrderListFilter struct {
	Status     *procurement.PurchaseOrderStatus `json:"status"`
	SupplierID *uuid.UUID                       `json:"supplier_id"`
	Page       int                              `json:"page"`
	PageSize   int                              `json:"page_size"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	Number               string                      `json:"number"`
	Status               string                      `json:"status"`
	StatusText           string                      `json:"status_text"`
	SupplierID           uuid.UUID                   `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name"`
	RequisitionID        *uuid.UUID                  `json:"requisition_id,omitempty"`
	ApproverID           *uuid.UUID                  `json:"approver_id,omitempty"`
	ApprovedAt           *time.Time                  `json:"approved_at,omitempty"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	ItemCount            int                         `json:"item_count"`
	Version              int                         `json:"version"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// PurchaseOrderItemResponse represents a purchase order line item in API responses
type PurchaseOrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToPurchaseOrderResponse converts a purchase order aggregate to its response DTO
func ToPurchaseOrderResponse(o *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:        item.ID,
			ItemID:    item.ItemID,
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}

	return PurchaseOrderResponse{
		ID:                   o.ID,
		Number:               o.Number,
		Status:               o.Status.String(),
		StatusText:           o.Status.DisplayText(),
		SupplierID:           o.SupplierID,
		SupplierName:         o.SupplierName,
		RequisitionID:        o.RequisitionID,
		ApproverID:           o.ApproverID,
		ApprovedAt:           o.ApprovedAt,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		CancelReason:         o.CancelReason,
		TotalAmount:          o.TotalAmount,
		Items:                items,
		ItemCount:            len(items),
		Version:              o.Version,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
