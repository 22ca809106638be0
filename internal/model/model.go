// Package model holds the catalog records, the filters used to
// search them, and the form inputs used to create or change them.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the fields every stored record has.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsNew reports whether the record has not been stored yet.
func (b Base) IsNew() bool {
	return b.ID == uuid.Nil
}
