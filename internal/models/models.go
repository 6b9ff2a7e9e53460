package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeLayout is the encoding used for every timestamp column.
const TimeLayout = time.RFC3339

// Now returns the current UTC time in TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// All returns one value of every entity, parents before children, for
// migrations and schema description.
func All() []interface{} {
	return []interface{}{
		&Collection{},
		&Product{},
		&ProductImage{},
		&ProductVariant{},
		&VariantOption{},
		&ProductCollection{},
		&Order{},
		&OrderItem{},
		&Address{},
	}
}

// NotDeleted is a gorm scope that hides soft-deleted rows.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// touch refreshes updated_at on every save.
func touch(updatedAt *string) {
	*updatedAt = Now()
}

// created fills created_at on insert unless the caller supplied one.
func created(createdAt *string, updatedAt string) {
	if *createdAt != "" {
		return
	}
	if updatedAt != "" {
		*createdAt = updatedAt
		return
	}
	*createdAt = Now()
}
