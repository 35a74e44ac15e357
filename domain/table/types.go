package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType defines the semantic type of a column. The type determines
// which analyses accept the column.
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeText    ColumnType = "text"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// Column describes one column of a table
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// ValueKind tags the runtime shape of a cell value
type ValueKind int

const (
	// KindNull is an explicit null from the source.
	KindNull ValueKind = iota
	// KindAbsent means the column is not present in the row at all.
	KindAbsent
	KindNumber
	KindText
	KindBool
	KindTime
)

// Value is the tagged cell model. Every engine assumes typed access through
// Value instead of untyped dictionaries; adapters validate once at ingestion.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	Bool   bool
	Time   time.Time
}

// Constructors

func Null() Value { return Value{Kind: KindNull} }

func Absent() Value { return Value{Kind: KindAbsent} }

func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }

func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// FromAny coerces a dynamically typed source value (database scan, JSON,
// spreadsheet cell) into a tagged Value.
func FromAny(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case float64:
		return NumberValue(x)
	case float32:
		return NumberValue(float64(x))
	case int:
		return NumberValue(float64(x))
	case int32:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case bool:
		return BoolValue(x)
	case time.Time:
		return TimeValue(x)
	case []byte:
		return TextValue(string(x))
	case string:
		return TextValue(x)
	default:
		return TextValue(fmt.Sprintf("%v", x))
	}
}

// MissingPolicy defines which value shapes count as missing during
// detection. Null and absent values are always missing; zero and empty
// string are missing only when the respective flag is set.
type MissingPolicy struct {
	IncludeZero  bool `json:"include_zero"`
	IncludeEmpty bool `json:"include_empty"`
}

// DefaultMissingPolicy treats only null/absent as missing.
func DefaultMissingPolicy() MissingPolicy {
	return MissingPolicy{}
}

// IsMissing reports whether the value counts as missing under the policy.
func (v Value) IsMissing(p MissingPolicy) bool {
	switch v.Kind {
	case KindNull, KindAbsent:
		return true
	case KindText:
		return p.IncludeEmpty && strings.TrimSpace(v.Text) == ""
	case KindNumber:
		if math.IsNaN(v.Number) {
			return true
		}
		return p.IncludeZero && v.Number == 0
	default:
		return false
	}
}

// AsFloat returns the numeric interpretation of the value. Booleans map to
// 0/1 and dates to their unix timestamp so that boolean and date columns
// can serve as x-axes; text is numeric only if it parses.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindTime:
		return float64(v.Time.Unix()), true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsString returns the textual interpretation of the value.
func (v Value) AsString() (string, bool) {
	switch v.Kind {
	case KindText:
		return v.Text, true
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.Bool), true
	case KindTime:
		return v.Time.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// AsTime returns the temporal interpretation of the value.
func (v Value) AsTime() (time.Time, bool) {
	switch v.Kind {
	case KindTime:
		return v.Time, true
	case KindText:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(v.Text)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case KindNumber:
		return time.Unix(int64(v.Number), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// MarshalJSON renders the value as its plain JSON shape
// (number | string | boolean | null).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Number)
	case KindText:
		return json.Marshal(v.Text)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindTime:
		return json.Marshal(v.Time.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the plain JSON shapes produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// Row maps column name to value. Columns absent from the map are treated
// as KindAbsent.
type Row map[string]Value

// Get returns the value for a column, Absent when the row has no entry.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Absent()
}

// Snapshot is one ordered dataset as returned by a DataAccessor call. Row
// order is significant for time-series, change-point and missing-data
// analyses and must never be reordered by the core.
type Snapshot struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// ColumnByName looks up a column definition.
func (s *Snapshot) ColumnByName(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Len returns the row count.
func (s *Snapshot) Len() int { return len(s.Rows) }
