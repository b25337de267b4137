package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// RequisitionSortFields contains allowed sort fields for purchase requisitions
var RequisitionSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"status":       true,
	"source":       true,
	"requester_id": true,
	"decided_at":   true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"number":                 true,
	"status":                 true,
	"supplier_id":            true,
	"supplier_name":          true,
	"total_amount":           true,
	"approved_at":            true,
	"expected_delivery_date": true,
}

// TransferOrderSortFields contains allowed sort fields for transfer orders
var TransferOrderSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"number":                 true,
	"status":                 true,
	"priority":               true,
	"source_warehouse_id":    true,
	"dest_warehouse_id":      true,
	"expected_transfer_date": true,
	"actual_transfer_date":   true,
}

// RuleSortFields contains allowed sort fields for replenishment rules
var RuleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
	"priority":   true,
	"active":     true,
}

// ExecutionSortFields contains allowed sort fields for rule executions
var ExecutionSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"executed_at": true,
	"outcome":     true,
}
