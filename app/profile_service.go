package app

import (
	"math"
	"sort"

	"sheetlint/domain/table"
	"sheetlint/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ProfileService computes per-column summary statistics over a typed table.
// This is where the cost of a misparsed column becomes visible: a numeric
// column that fell back to text contributes no summary row and no
// correlations, only a pile of categories.
type ProfileService struct{}

// NewProfileService creates a profile service
func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// CategoryCount is one distinct text value and its occurrence count
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// NumericSummary holds the summary statistics of a numeric column
type NumericSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// ColumnProfile describes one column of a typed table
type ColumnProfile struct {
	Name         string           `json:"name"`
	Kind         table.ColumnKind `json:"kind"`
	RowCount     int              `json:"row_count"`
	MissingCount int              `json:"missing_count"`

	// Numeric columns only
	Summary *NumericSummary `json:"summary,omitempty"`

	// Text columns only
	UniqueCount   int             `json:"unique_count,omitempty"`
	TopCategories []CategoryCount `json:"top_categories,omitempty"`
}

// CorrelationMatrix holds Pearson correlations between numeric columns,
// computed over rows where both columns are non-missing
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// TableProfile is the profile of a whole typed table
type TableProfile struct {
	Columns      []ColumnProfile    `json:"columns"`
	Correlations *CorrelationMatrix `json:"correlations,omitempty"`
}

// topCategoryLimit caps how many distinct text values a profile reports
const topCategoryLimit = 10

// Profile summarizes every column of the table, in header order
func (s *ProfileService) Profile(tbl table.Table) (*TableProfile, error) {
	profile := &TableProfile{
		Columns: make([]ColumnProfile, 0, len(tbl.Headers)),
	}

	for _, header := range tbl.Headers {
		col := tbl.Columns[header]
		colProfile, err := s.profileColumn(col)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to profile column %q", header)
		}
		profile.Columns = append(profile.Columns, colProfile)
	}

	corr := correlations(tbl)
	if corr != nil {
		profile.Correlations = corr
	}
	return profile, nil
}

func (s *ProfileService) profileColumn(col table.Column) (ColumnProfile, error) {
	profile := ColumnProfile{
		Name:         col.Name,
		Kind:         col.Kind,
		RowCount:     len(col.Values),
		MissingCount: col.MissingCount(),
	}

	if col.Kind == table.ColumnText {
		categories := col.Categories()
		profile.UniqueCount = len(categories)
		profile.TopCategories = topCategories(categories, topCategoryLimit)
		return profile, nil
	}

	data := col.NumericValues()
	if len(data) == 0 {
		// All-missing numeric column has no summary
		return profile, nil
	}

	summary, err := summarize(data)
	if err != nil {
		return profile, err
	}
	profile.Summary = summary
	return profile, nil
}

// summarize computes the numeric summary via the stats library
func summarize(data []float64) (*NumericSummary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	q25, err := stats.Percentile(data, 25)
	if err != nil {
		// Percentile needs more than one sample; degrade to the median
		q25 = median
	}
	q75, err := stats.Percentile(data, 75)
	if err != nil {
		q75 = median
	}

	return &NumericSummary{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Q25:    q25,
		Q75:    q75,
	}, nil
}

// correlations builds the pairwise Pearson matrix over numeric columns.
// Each pair uses only rows where both values are present.
func correlations(tbl table.Table) *CorrelationMatrix {
	var numericCols []string
	for _, header := range tbl.Headers {
		if tbl.Columns[header].Kind == table.ColumnNumeric {
			numericCols = append(numericCols, header)
		}
	}
	if len(numericCols) < 2 {
		return nil
	}

	matrix := &CorrelationMatrix{
		Columns: numericCols,
		Values:  make([][]float64, len(numericCols)),
	}
	for i := range matrix.Values {
		matrix.Values[i] = make([]float64, len(numericCols))
		matrix.Values[i][i] = 1.0
	}

	for i := 0; i < len(numericCols); i++ {
		for j := i + 1; j < len(numericCols); j++ {
			x, y := pairwiseComplete(tbl.Columns[numericCols[i]], tbl.Columns[numericCols[j]])
			r := 0.0
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
				// Undefined when either side has zero variance; report 0
				// so the matrix stays JSON-encodable
				if math.IsNaN(r) {
					r = 0
				}
			}
			matrix.Values[i][j] = r
			matrix.Values[j][i] = r
		}
	}
	return matrix
}

// pairwiseComplete aligns two columns on rows where both are non-missing
func pairwiseComplete(a, b table.Column) ([]float64, []float64) {
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	var x, y []float64
	for i := 0; i < n; i++ {
		if a.Values[i].IsNumeric() && b.Values[i].IsNumeric() {
			x = append(x, a.Values[i].AsFloat64())
			y = append(y, b.Values[i].AsFloat64())
		}
	}
	return x, y
}

// topCategories returns the most frequent categories, count-descending with
// value as tiebreak for determinism
func topCategories(categories map[string]int, limit int) []CategoryCount {
	out := make([]CategoryCount, 0, len(categories))
	for value, count := range categories {
		out = append(out, CategoryCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
