package ports

import (
	"context"

	"datalens/domain/table"
)

// DataAccessor provides read-only access to tabular data. The analysis core
// only consumes this; it never constructs or interprets query syntax. The
// filter predicate is opaque and pre-applied by the implementation. Row
// order is stable and caller-defined; the core must not reorder it.
type DataAccessor interface {
	// GetRows returns the ordered rows for the given columns. An empty
	// column list selects all columns.
	GetRows(ctx context.Context, tableName string, columns []string, filter string) ([]table.Row, error)

	// GetColumnInfo returns the typed column definitions for a table.
	GetColumnInfo(ctx context.Context, tableName string) ([]table.Column, error)

	// ListTables enumerates the available tables.
	ListTables(ctx context.Context) ([]string, error)
}
