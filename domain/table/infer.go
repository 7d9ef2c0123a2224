package table

import (
	"math"
	"strconv"
	"strings"
)

// InferColumn decides whether one raw column is numeric or textual under
// the given sentinel set.
//
// Each raw value is resolved in order: a sentinel member becomes a
// missing-marker, anything else is tried as a number. If every non-missing
// value parses, the column is numeric. A single failure demotes the whole
// column to text - the conservative fallback - and every failing cell is
// recorded as a diagnostic so the caller can tell mixed data apart from an
// unrecognized sentinel.
func InferColumn(name string, raw []string, sentinels SentinelSet) (Column, []Diagnostic) {
	values := make([]Value, len(raw))
	var diags []Diagnostic

	numeric := true
	for i, cell := range raw {
		if sentinels.Contains(cell) {
			values[i] = NewMissingValue()
			continue
		}
		if n, ok := ParseNumeric(cell); ok {
			values[i] = NewNumericValue(n)
			continue
		}
		numeric = false
		values[i] = NewTextValue(cell)
		diags = append(diags, Diagnostic{
			Column: name,
			Row:    i,
			Value:  cell,
			Reason: "expected numeric, got unparseable text",
		})
	}

	if numeric {
		return Column{Name: name, Kind: ColumnNumeric, Values: values}, diags
	}

	// Demote cells that did parse back to their original text so the
	// column keeps its raw categories. Missing-markers stay missing.
	for i, cell := range raw {
		if values[i].IsMissing {
			continue
		}
		values[i] = NewTextValue(cell)
	}
	return Column{Name: name, Kind: ColumnText, Values: values}, diags
}

// InferTable runs InferColumn over every header of a raw table in one pass,
// accumulating diagnostics across columns
func InferTable(raw RawTable, sentinels SentinelSet) (Table, DiagnosticSet) {
	columns := make(map[string]Column, len(raw.Headers))
	var diags DiagnosticSet

	for _, header := range raw.Headers {
		col, colDiags := InferColumn(header, raw.Column(header), sentinels)
		columns[header] = col
		diags = append(diags, colDiags...)
	}

	return Table{Headers: raw.Headers, Columns: columns}, diags
}

// ParseNumeric attempts a strict numeric parse of one raw cell. It tolerates
// the decorations spreadsheets put on numbers - surrounding whitespace,
// currency symbols, percent signs, thousands separators, and accounting-style
// parenthesized negatives - but rejects anything else, including NaN and
// infinities.
func ParseNumeric(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}

	// Accounting format: (123) means -123
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}

	// Thousands separators
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if negative {
		cleaned = "-" + cleaned
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
