package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate applies a row-level lock on dialects that support it. The SQLite
// dialect used by the test suite serializes writers on its own and rejects
// FOR UPDATE syntax.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
