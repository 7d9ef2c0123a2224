package table

import (
	"fmt"
	"sort"
)

// Diagnostic records a single cell that failed numeric parsing and was not
// covered by the sentinel set. Diagnostics are accumulated, never raised:
// a whole file loads in one pass despite isolated bad cells.
type Diagnostic struct {
	Column string `json:"column"`
	Row    int    `json:"row"` // zero-based data row index (header excluded)
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("column %q row %d: %s (value %q)", d.Column, d.Row, d.Reason, d.Value)
}

// DiagnosticSet is the ordered accumulation of per-cell diagnostics from
// one inference pass
type DiagnosticSet []Diagnostic

// ByColumn groups diagnostics by column name, preserving row order. This is
// the view that tells a caller whether a column fell back to text because of
// genuinely mixed data or because of one unrecognized missing-value marker.
func (ds DiagnosticSet) ByColumn() map[string][]Diagnostic {
	grouped := make(map[string][]Diagnostic)
	for _, d := range ds {
		grouped[d.Column] = append(grouped[d.Column], d)
	}
	return grouped
}

// Columns returns the affected column names in sorted order
func (ds DiagnosticSet) Columns() []string {
	seen := make(map[string]struct{})
	for _, d := range ds {
		seen[d.Column] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CountForColumn returns how many diagnostics a column produced
func (ds DiagnosticSet) CountForColumn(name string) int {
	count := 0
	for _, d := range ds {
		if d.Column == name {
			count++
		}
	}
	return count
}
