package events

import (
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"strings"

	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"

	"storefront/internal/models"
)

// Operations reported in a Change.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Publisher delivers an encoded change under a routing key.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// Change describes one successful write statement.
type Change struct {
	Table        string   `json:"table"`
	Operation    string   `json:"operation"`
	Keys         []string `json:"keys,omitempty"`
	RowsAffected int64    `json:"rows_affected"`
	At           string   `json:"at"`
}

// RoutingKey is "<table>.<operation>".
func (c Change) RoutingKey() string {
	return c.Table + "." + c.Operation
}

// ChangeFeed is a gorm plugin that publishes a Change after every create,
// update and delete statement that touched at least one row.
//
// Changes are published from the statement callbacks, which run inside the
// surrounding transaction before it commits. A write that is later rolled
// back, such as a nested create whose child insert fails, may still have
// published its earlier statements. Consumers should treat a Change as a hint
// to re-read the row, not as proof that it exists.
type ChangeFeed struct {
	publisher Publisher
}

// NewChangeFeed creates a ChangeFeed publishing through p.
func NewChangeFeed(p Publisher) *ChangeFeed {
	return &ChangeFeed{publisher: p}
}

// Name implements gorm.Plugin.
func (f *ChangeFeed) Name() string {
	return "storefront:changefeed"
}

// Initialize implements gorm.Plugin.
func (f *ChangeFeed) Initialize(db *gorm.DB) error {
	callbacks := db.Callback()
	if err := callbacks.Create().After("gorm:after_create").Register("storefront:changefeed_create", f.emit(OpCreate)); err != nil {
		return fmt.Errorf("failed to register create callback: %w", err)
	}
	if err := callbacks.Update().After("gorm:after_update").Register("storefront:changefeed_update", f.emit(OpUpdate)); err != nil {
		return fmt.Errorf("failed to register update callback: %w", err)
	}
	if err := callbacks.Delete().After("gorm:after_delete").Register("storefront:changefeed_delete", f.emit(OpDelete)); err != nil {
		return fmt.Errorf("failed to register delete callback: %w", err)
	}
	return nil
}

func (f *ChangeFeed) emit(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Schema == nil || tx.RowsAffected == 0 {
			return
		}

		change := Change{
			Table:        tx.Statement.Table,
			Operation:    op,
			Keys:         primaryKeys(tx),
			RowsAffected: tx.RowsAffected,
			At:           models.Now(),
		}
		body, err := json.Marshal(change)
		if err != nil {
			log.Printf("Failed to marshal change for %s: %v", change.RoutingKey(), err)
			return
		}
		// The write has already succeeded; a lost notification must not undo it.
		if err := f.publisher.Publish(change.RoutingKey(), body); err != nil {
			log.Printf("Warning: Failed to publish change %s: %v", change.RoutingKey(), err)
		}
	}
}

// primaryKeys collects the primary key of every row the statement carried.
// Composite keys are joined with ":".
func primaryKeys(tx *gorm.DB) []string {
	s := tx.Statement.Schema
	if len(s.PrimaryFields) == 0 {
		return nil
	}

	rv := tx.Statement.ReflectValue
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array && tx.Statement.Model != nil {
		rv = reflect.Indirect(reflect.ValueOf(tx.Statement.Model))
	}

	var keys []string
	collect := func(row reflect.Value) {
		row = reflect.Indirect(row)
		if row.Kind() != reflect.Struct {
			return
		}
		if key, ok := rowKey(tx, s.PrimaryFields, row); ok {
			keys = append(keys, key)
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			collect(rv.Index(i))
		}
	case reflect.Struct:
		collect(rv)
	}
	return keys
}

func rowKey(tx *gorm.DB, fields []*gormschema.Field, row reflect.Value) (string, bool) {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		value, zero := field.ValueOf(tx.Statement.Context, row)
		if zero {
			return "", false
		}
		parts = append(parts, fmt.Sprint(value))
	}
	return strings.Join(parts, ":"), true
}
