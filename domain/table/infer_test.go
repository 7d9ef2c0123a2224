package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumn(t *testing.T) {
	tests := []struct {
		name          string
		raw           []string
		sentinels     SentinelSet
		expectedKind  ColumnKind
		expectedDiags int
	}{
		{
			name:          "numeric with recognized sentinel",
			raw:           []string{"1", "NA", "3.5"},
			sentinels:     NewSentinelSet("NA"),
			expectedKind:  ColumnNumeric,
			expectedDiags: 0,
		},
		{
			name:          "mixed text forces textual column",
			raw:           []string{"1", "two", "3"},
			sentinels:     NewSentinelSet(),
			expectedKind:  ColumnText,
			expectedDiags: 1,
		},
		{
			name:          "empty sentinel set special-cases nothing",
			raw:           []string{"", "NA", "5", "6"},
			sentinels:     NewSentinelSet(),
			expectedKind:  ColumnText,
			expectedDiags: 2,
		},
		{
			name:          "both sentinels recognized",
			raw:           []string{"", "NA", "5", "6"},
			sentinels:     NewSentinelSet("", "NA"),
			expectedKind:  ColumnNumeric,
			expectedDiags: 0,
		},
		{
			name:          "currency and thousands separators parse",
			raw:           []string{"$1,200", "3 400", "(500)"},
			sentinels:     NewSentinelSet(),
			expectedKind:  ColumnNumeric,
			expectedDiags: 0,
		},
		{
			name:          "all sentinels yields numeric column of markers",
			raw:           []string{"NA", "NA"},
			sentinels:     NewSentinelSet("NA"),
			expectedKind:  ColumnNumeric,
			expectedDiags: 0,
		},
		{
			name:          "NaN and Inf text rejected as numbers",
			raw:           []string{"1", "NaN", "Inf"},
			sentinels:     NewSentinelSet(),
			expectedKind:  ColumnText,
			expectedDiags: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, diags := InferColumn("col", tt.raw, tt.sentinels)
			assert.Equal(t, tt.expectedKind, col.Kind)
			assert.Len(t, diags, tt.expectedDiags)
			assert.Len(t, col.Values, len(tt.raw))
		})
	}
}

func TestInferColumnNumericPositions(t *testing.T) {
	col, diags := InferColumn("score", []string{"1", "NA", "3.5"}, NewSentinelSet("NA"))

	require.Equal(t, ColumnNumeric, col.Kind)
	require.Empty(t, diags)

	require.True(t, col.Values[0].IsNumeric())
	assert.Equal(t, 1.0, col.Values[0].AsFloat64())
	assert.True(t, col.Values[1].IsMissing)
	require.True(t, col.Values[2].IsNumeric())
	assert.Equal(t, 3.5, col.Values[2].AsFloat64())
}

func TestInferColumnEndToEndSentinels(t *testing.T) {
	raw := []string{"", "NA", "5", "6"}

	// Recognized sentinels: numeric column, markers in place, no diagnostics
	col, diags := InferColumn("income", raw, NewSentinelSet("", "NA"))
	require.Equal(t, ColumnNumeric, col.Kind)
	require.Empty(t, diags)
	assert.True(t, col.Values[0].IsMissing)
	assert.True(t, col.Values[1].IsMissing)
	assert.Equal(t, 5.0, col.Values[2].AsFloat64())
	assert.Equal(t, 6.0, col.Values[3].AsFloat64())

	// Same data, empty sentinel set: text column, one diagnostic per bad cell
	col, diags = InferColumn("income", raw, NewSentinelSet())
	require.Equal(t, ColumnText, col.Kind)
	require.Len(t, diags, 2)
	assert.Equal(t, "", diags[0].Value)
	assert.Equal(t, 0, diags[0].Row)
	assert.Equal(t, "NA", diags[1].Value)
	assert.Equal(t, 1, diags[1].Row)
}

func TestInferColumnTextKeepsRawCategories(t *testing.T) {
	// Numbers in a demoted column stay as their raw text, so "5" and "6"
	// become two more categories rather than values
	col, _ := InferColumn("region", []string{"North", "5", "6", "NA"}, NewSentinelSet("NA"))

	require.Equal(t, ColumnText, col.Kind)
	assert.True(t, col.Values[3].IsMissing, "sentinels stay missing even in text columns")

	categories := col.Categories()
	assert.Equal(t, map[string]int{"North": 1, "5": 1, "6": 1}, categories)
}

func TestInferColumnDiagnosticDetail(t *testing.T) {
	_, diags := InferColumn("age", []string{"1", "two", "3"}, NewSentinelSet())

	require.Len(t, diags, 1)
	assert.Equal(t, "age", diags[0].Column)
	assert.Equal(t, 1, diags[0].Row)
	assert.Equal(t, "two", diags[0].Value)
}

func TestInferColumnIdempotent(t *testing.T) {
	raw := []string{"1", "NA", "3.5", "1200"}
	sentinels := NewSentinelSet("NA")

	first, diags := InferColumn("v", raw, sentinels)
	require.Empty(t, diags)

	second, diags := InferColumn("v", first.RawStrings("NA"), sentinels)
	require.Empty(t, diags)
	require.Equal(t, first.Kind, second.Kind)
	require.Len(t, second.Values, len(first.Values))
	for i := range first.Values {
		assert.Equal(t, first.Values[i].IsMissing, second.Values[i].IsMissing, "row %d", i)
		if first.Values[i].IsNumeric() {
			assert.Equal(t, first.Values[i].AsFloat64(), second.Values[i].AsFloat64(), "row %d", i)
		}
	}
}

func TestAddingSentinelNeverDemotes(t *testing.T) {
	// Holding raw data fixed, enlarging the sentinel set can move a column
	// text -> numeric but never the reverse
	columns := [][]string{
		{"1", "2", "3"},
		{"1", "NA", "3"},
		{"a", "b", "c"},
		{"", "NA", "5"},
	}

	for _, raw := range columns {
		before, _ := InferColumn("c", raw, NewSentinelSet())
		after, _ := InferColumn("c", raw, NewSentinelSet("", "NA"))
		if before.Kind == ColumnNumeric {
			assert.Equal(t, ColumnNumeric, after.Kind, "raw %v", raw)
		}
	}
}

func TestInferTable(t *testing.T) {
	raw := RawTable{
		Headers: []string{"id", "income", "region"},
		Rows: []RawRow{
			{"id": "1", "income": "50000", "region": "North"},
			{"id": "2", "income": "NA", "region": "South"},
			{"id": "3", "income": "61000", "region": "North"},
		},
	}

	tbl, diags := InferTable(raw, NewSentinelSet("NA"))

	require.Empty(t, diags)
	assert.Equal(t, 3, tbl.RowCount())

	income, ok := tbl.Column("income")
	require.True(t, ok)
	assert.Equal(t, ColumnNumeric, income.Kind)
	assert.Equal(t, 1, income.MissingCount())

	region, ok := tbl.Column("region")
	require.True(t, ok)
	assert.Equal(t, ColumnText, region.Kind)
	assert.Len(t, region.Categories(), 2)
}

func TestInferTableAccumulatesAcrossColumns(t *testing.T) {
	raw := RawTable{
		Headers: []string{"a", "b"},
		Rows: []RawRow{
			{"a": "1", "b": "x"},
			{"a": "oops", "b": "2"},
		},
	}

	_, diags := InferTable(raw, NewSentinelSet())

	require.Len(t, diags, 2)
	grouped := diags.ByColumn()
	assert.Len(t, grouped["a"], 1)
	assert.Len(t, grouped["b"], 1)
	assert.Equal(t, []string{"a", "b"}, diags.Columns())
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"42", 42, true},
		{" 3.5 ", 3.5, true},
		{"$1,200.50", 1200.50, true},
		{"(500)", -500, true},
		{"85%", 85, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"NA", 0, false},
		{"two", 0, false},
		{"NaN", 0, false},
		{"-Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			n, ok := ParseNumeric(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, n)
			}
		})
	}
}
