package table

import (
	"sort"
	"strconv"
)

// ValueType defines the storage type for cell values
type ValueType string

const (
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeText    ValueType = "text"
	ValueTypeMissing ValueType = "missing"
)

// Value represents a typed cell value. Every cell is exactly one of
// numeric, text, or missing - there is no implicit coercion between them.
type Value struct {
	Type       ValueType `json:"type"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
	TextVal    *string   `json:"text_val,omitempty"`
	IsMissing  bool      `json:"is_missing"`
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewTextValue creates a text value. The empty string is a legal text
// value: whether "" means "missing" is decided by the sentinel set, not here.
func NewTextValue(s string) Value {
	return Value{Type: ValueTypeText, TextVal: &s}
}

// NewMissingValue creates a missing-marker value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// IsNumeric returns true if the value holds a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsText returns true if the value holds text
func (v Value) IsText() bool {
	return v.Type == ValueTypeText && v.TextVal != nil
}

// AsFloat64 returns the numeric value, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	return 0.0
}

// AsText returns the text value, or empty string if not text
func (v Value) AsText() string {
	if v.TextVal != nil {
		return *v.TextVal
	}
	return ""
}

// String returns a display representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return strconv.FormatFloat(*v.NumericVal, 'g', -1, 64)
		}
	case ValueTypeText:
		if v.TextVal != nil {
			return *v.TextVal
		}
	case ValueTypeMissing:
		return "<missing>"
	}
	return "<invalid>"
}

// ColumnKind is the inferred representation of a whole column
type ColumnKind string

const (
	ColumnNumeric ColumnKind = "numeric"
	ColumnText    ColumnKind = "text"
)

// Column is an ordered sequence of typed values drawn from one raw column
type Column struct {
	Name   string     `json:"name"`
	Kind   ColumnKind `json:"kind"`
	Values []Value    `json:"values"`
}

// MissingCount returns the number of missing-markers in the column
func (c Column) MissingCount() int {
	count := 0
	for _, v := range c.Values {
		if v.IsMissing {
			count++
		}
	}
	return count
}

// NumericValues returns the non-missing numeric values in order
func (c Column) NumericValues() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.IsNumeric() {
			out = append(out, *v.NumericVal)
		}
	}
	return out
}

// Categories returns occurrence counts per distinct text value. For a text
// column every distinct value acts as its own category downstream, which is
// exactly how one stray sentinel string inflates a factor's level count.
func (c Column) Categories() map[string]int {
	counts := make(map[string]int)
	for _, v := range c.Values {
		if v.IsText() {
			counts[*v.TextVal]++
		}
	}
	return counts
}

// RawStrings renders the column back to raw cell text, with missing-markers
// written as missingAs. Numeric values use the shortest round-trip format,
// so re-inferring the result with the same sentinel set is lossless.
func (c Column) RawStrings(missingAs string) []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		if v.IsMissing {
			out[i] = missingAs
			continue
		}
		out[i] = v.String()
	}
	return out
}

// RawRow maps header name to the raw cell text for one row
type RawRow map[string]string

// RawTable holds a sheet as read from disk: trimmed headers plus string
// cells. Cells carry no type at this layer.
type RawTable struct {
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// Column extracts one raw column by header name, in row order. Rows that
// are short of the header are read as empty cells.
func (t RawTable) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// Table is the typed result of inferring every column of a RawTable
type Table struct {
	Headers []string          `json:"headers"`
	Columns map[string]Column `json:"columns"`
}

// Column returns the typed column for a header name
func (t Table) Column(name string) (Column, bool) {
	col, ok := t.Columns[name]
	return col, ok
}

// RowCount returns the number of data rows in the table
func (t Table) RowCount() int {
	for _, col := range t.Columns {
		return len(col.Values)
	}
	return 0
}

// SentinelSet is the set of raw strings that mean "value absent" rather
// than literal data. It is required configuration: nothing is inferred, and
// an empty set special-cases no string at all.
type SentinelSet map[string]struct{}

// NewSentinelSet builds a sentinel set from the given strings
func NewSentinelSet(values ...string) SentinelSet {
	s := make(SentinelSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// CommonSentinels returns the conventional markers seen in exported
// spreadsheets. Callers must opt in; it is never applied implicitly.
func CommonSentinels() SentinelSet {
	return NewSentinelSet("", "NA", "N/A", "NULL", "null", "-", "#N/A")
}

// Contains reports whether raw is designated as missing
func (s SentinelSet) Contains(raw string) bool {
	_, ok := s[raw]
	return ok
}

// Values returns the sentinels in sorted order
func (s SentinelSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
