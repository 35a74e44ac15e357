// Package postgres implements the DataAccessor port over a PostgreSQL
// database. The filter predicate is treated as an opaque, pre-built WHERE
// fragment owned by the caller; the analysis core never sees query syntax.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

type accessor struct {
	db      *sqlx.DB
	orderBy string
}

// NewAccessor creates a postgres-backed DataAccessor. orderBy names the
// column that gives snapshots their stable order; it must exist in every
// queried table.
func NewAccessor(db *sqlx.DB, orderBy string) ports.DataAccessor {
	if orderBy == "" {
		orderBy = "id"
	}
	return &accessor{db: db, orderBy: orderBy}
}

// GetRows returns the ordered rows for the selected columns.
func (a *accessor) GetRows(ctx context.Context, tableName string, columns []string, filter string) ([]table.Row, error) {
	selection := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = pq.QuoteIdentifier(c)
		}
		selection = strings.Join(quoted, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s", selection, pq.QuoteIdentifier(tableName))
	if strings.TrimSpace(filter) != "" {
		query += " WHERE " + filter
	}
	query += fmt.Sprintf(" ORDER BY %s", pq.QuoteIdentifier(a.orderBy))

	rows, err := a.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query table %s", tableName)
	}
	defer rows.Close()

	var out []table.Row
	for rows.Next() {
		raw := map[string]interface{}{}
		if err := rows.MapScan(raw); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		row := make(table.Row, len(raw))
		for col, v := range raw {
			row[col] = table.FromAny(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "row iteration failed for table %s", tableName)
	}
	return out, nil
}

// GetColumnInfo maps information_schema types onto the semantic column model.
func (a *accessor) GetColumnInfo(ctx context.Context, tableName string) ([]table.Column, error) {
	query := `SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`

	rows, err := a.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read columns for table %s", tableName)
	}
	defer rows.Close()

	var columns []table.Column
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, errors.Wrap(err, "failed to scan column info")
		}
		columns = append(columns, table.Column{Name: name, Type: mapDataType(dataType)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "column iteration failed")
	}
	if len(columns) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("table %s", tableName))
	}
	return columns, nil
}

// ListTables enumerates the public schema.
func (a *accessor) ListTables(ctx context.Context) ([]string, error) {
	query := `SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	var tables []string
	if err := a.db.SelectContext(ctx, &tables, query); err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	return tables, nil
}

func mapDataType(dataType string) table.ColumnType {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint", "decimal", "numeric", "real", "double precision", "money":
		return table.TypeNumeric
	case "boolean":
		return table.TypeBoolean
	case "date", "timestamp", "timestamp without time zone", "timestamp with time zone", "time":
		return table.TypeDate
	default:
		return table.TypeText
	}
}
