// Package database provides the storage adapters that load generated
// records into real tables. Each provider implements the same lean
// Adapter surface; the importer never sees provider-specific SQL.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// ColumnSpec describes one table column derived from an entity field.
// Name is the final column identifier, already case-transformed by the
// caller.
type ColumnSpec struct {
	Name       string
	Kind       schema.TypeKind
	MaxLength  int
	Required   bool
	PrimaryKey bool
}

// Adapter is the storage surface the importer drives.
type Adapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
	Provider() string

	// Exec runs a statement that returns no rows, such as transaction
	// control.
	Exec(ctx context.Context, query string) error

	EnsureTable(ctx context.Context, table string, columns []ColumnSpec) error
	Truncate(ctx context.Context, table string) error

	// InsertRecords inserts rows in order and returns the assigned
	// identifiers, one per record.
	InsertRecords(ctx context.Context, table string, columns []string, records []map[string]any) ([]any, error)
}

// prepareValue converts a record value into something every driver
// accepts: composite values are stored as JSON text.
func prepareValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode composite value: %w", err)
		}
		return string(data), nil
	default:
		return value, nil
	}
}

// rowValues projects a record onto the column order.
func rowValues(columns []string, record map[string]any) ([]any, error) {
	values := make([]any, len(columns))
	for i, column := range columns {
		prepared, err := prepareValue(record[column])
		if err != nil {
			return nil, err
		}
		values[i] = prepared
	}
	return values, nil
}
