// Package excel implements the DataAccessor port over .xlsx workbooks and
// .csv files. Each worksheet is exposed as one table; a CSV file is a
// single table named after the file. Column types are inferred from the
// data once at read time so the analysis core always sees typed values.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// typeInferenceSample bounds how many rows feed column type inference.
const typeInferenceSample = 200

type accessor struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewAccessor creates a file-backed DataAccessor for an .xlsx or .csv path.
func NewAccessor(filePath string) ports.DataAccessor {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &accessor{filePath: filePath, fileType: fileType}
}

// GetRows returns the ordered, typed rows of one table. The file accessor
// has no query layer, so a non-empty filter is rejected.
func (a *accessor) GetRows(ctx context.Context, tableName string, columns []string, filter string) ([]table.Row, error) {
	if strings.TrimSpace(filter) != "" {
		return nil, fmt.Errorf("file accessor does not support filter predicates")
	}
	header, records, err := a.readTable(tableName)
	if err != nil {
		return nil, err
	}
	types := inferColumnTypes(header, records)

	selected := header
	if len(columns) > 0 {
		selected = columns
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}

	rows := make([]table.Row, 0, len(records))
	for _, record := range records {
		row := make(table.Row, len(selected))
		for _, name := range selected {
			idx, ok := colIndex[name]
			if !ok {
				return nil, errors.NotFound(fmt.Sprintf("column %s", name))
			}
			if idx >= len(record) {
				row[name] = table.Absent()
				continue
			}
			row[name] = coerceCell(record[idx], types[idx])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetColumnInfo infers the typed column definitions from the data.
func (a *accessor) GetColumnInfo(ctx context.Context, tableName string) ([]table.Column, error) {
	header, records, err := a.readTable(tableName)
	if err != nil {
		return nil, err
	}
	types := inferColumnTypes(header, records)
	columns := make([]table.Column, len(header))
	for i, name := range header {
		columns[i] = table.Column{Name: name, Type: types[i]}
	}
	return columns, nil
}

// ListTables returns the worksheet names, or the file stem for CSV.
func (a *accessor) ListTables(ctx context.Context) ([]string, error) {
	if a.fileType == "csv" {
		base := filepath.Base(a.filePath)
		return []string{strings.TrimSuffix(base, filepath.Ext(base))}, nil
	}
	f, err := excelize.OpenFile(a.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", a.filePath)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// readTable loads the raw header and records for one table.
func (a *accessor) readTable(tableName string) ([]string, [][]string, error) {
	if _, err := os.Stat(a.filePath); os.IsNotExist(err) {
		return nil, nil, errors.NotFound(fmt.Sprintf("data file %s", a.filePath))
	}
	if a.fileType == "csv" {
		return a.readCSV()
	}
	return a.readSheet(tableName)
}

func (a *accessor) readCSV() ([]string, [][]string, error) {
	f, err := os.Open(a.filePath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open CSV file %s", a.filePath)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse CSV")
	}
	if len(records) == 0 {
		return nil, nil, errors.EmptyInput("CSV file has no rows")
	}
	return records[0], records[1:], nil
}

func (a *accessor) readSheet(sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(a.filePath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open workbook %s", a.filePath)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, nil, errors.EmptyInput(fmt.Sprintf("sheet %s has no rows", sheet))
	}
	return rows[0], rows[1:], nil
}

// inferColumnTypes samples each column and picks the narrowest type every
// sampled non-empty cell satisfies.
func inferColumnTypes(header []string, records [][]string) []table.ColumnType {
	types := make([]table.ColumnType, len(header))
	for col := range header {
		isNumeric, isBool, isDate := true, true, true
		seen := 0
		for _, record := range records {
			if seen >= typeInferenceSample {
				break
			}
			if col >= len(record) || strings.TrimSpace(record[col]) == "" {
				continue
			}
			cell := strings.TrimSpace(record[col])
			seen++
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isNumeric = false
			}
			if !isBoolCell(cell) {
				isBool = false
			}
			if _, ok := parseDateCell(cell); !ok {
				isDate = false
			}
		}
		switch {
		case seen == 0:
			types[col] = table.TypeText
		case isBool:
			types[col] = table.TypeBoolean
		case isNumeric:
			types[col] = table.TypeNumeric
		case isDate:
			types[col] = table.TypeDate
		default:
			types[col] = table.TypeText
		}
	}
	return types
}

func isBoolCell(cell string) bool {
	switch strings.ToLower(cell) {
	case "true", "false":
		return true
	}
	return false
}

func parseDateCell(cell string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceCell converts a raw cell into a tagged value per the inferred
// column type. Empty cells become null so the missing-data detector sees
// them; for text columns the empty string is preserved.
func coerceCell(cell string, colType table.ColumnType) table.Value {
	trimmed := strings.TrimSpace(cell)
	switch colType {
	case table.TypeNumeric:
		if trimmed == "" {
			return table.Null()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return table.Null()
		}
		return table.NumberValue(f)
	case table.TypeBoolean:
		if trimmed == "" {
			return table.Null()
		}
		return table.BoolValue(strings.EqualFold(trimmed, "true"))
	case table.TypeDate:
		if trimmed == "" {
			return table.Null()
		}
		if t, ok := parseDateCell(trimmed); ok {
			return table.TimeValue(t)
		}
		return table.Null()
	default:
		return table.TextValue(cell)
	}
}
