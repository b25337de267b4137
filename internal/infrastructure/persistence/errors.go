package persistence

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/warehousely/backend/internal/domain/shared"
)

// pq error code for unique constraint violations
const uniqueViolationCode = "23505"

// translateWriteError maps driver-level write failures onto domain errors.
// Unique violations (duplicate document numbers) become conflicts so callers
// can branch on shared.ErrConflict.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError("DUPLICATE_NUMBER", "Document number already exists")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return shared.NewConflictError("DUPLICATE_NUMBER", "Document number already exists")
	}
	return err
}
