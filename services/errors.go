package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrEventFull        = errors.New("event is full")
	ErrAlreadyInvited   = errors.New("user is already invited")
	ErrConflict         = errors.New("conflict with current state")
)

// lockForUpdate takes a row-level lock inside a transaction. SQLite (used by
// the test suite) has no SELECT ... FOR UPDATE; its transactions already
// serialize writers.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
