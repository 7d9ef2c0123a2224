package app

import (
	"log"

	"sheetlint/domain/table"
	"sheetlint/internal/errors"
)

// KindChange records a column whose inferred representation differs
// between two sentinel configurations
type KindChange struct {
	Column string           `json:"column"`
	Before table.ColumnKind `json:"before"`
	After  table.ColumnKind `json:"after"`
}

// ProfileComparison is the result of inferring the same raw table under
// two sentinel sets. The canonical use is before/after adding a missing
// marker the first pass did not know about.
type ProfileComparison struct {
	BeforeSentinels  []string      `json:"before_sentinels"`
	AfterSentinels   []string      `json:"after_sentinels"`
	Before           *TableProfile `json:"before"`
	After            *TableProfile `json:"after"`
	KindChanges      []KindChange  `json:"kind_changes"`
	BeforeDiagnostic int           `json:"before_diagnostics"`
	AfterDiagnostic  int           `json:"after_diagnostics"`
}

// Compare infers raw twice - once per sentinel set - and profiles both
// results. Holding the raw data fixed, a richer sentinel set can only move
// columns from text to numeric, so KindChanges reads as what the first
// configuration got wrong.
func (s *ProfileService) Compare(raw table.RawTable, before, after table.SentinelSet) (*ProfileComparison, error) {
	beforeTable, beforeDiags := table.InferTable(raw, before)
	afterTable, afterDiags := table.InferTable(raw, after)

	beforeProfile, err := s.Profile(beforeTable)
	if err != nil {
		return nil, errors.Wrap(err, "failed to profile table under first sentinel set")
	}
	afterProfile, err := s.Profile(afterTable)
	if err != nil {
		return nil, errors.Wrap(err, "failed to profile table under second sentinel set")
	}

	var changes []KindChange
	for _, header := range raw.Headers {
		beforeKind := beforeTable.Columns[header].Kind
		afterKind := afterTable.Columns[header].Kind
		if beforeKind != afterKind {
			changes = append(changes, KindChange{
				Column: header,
				Before: beforeKind,
				After:  afterKind,
			})
		}
	}

	log.Printf("[ProfileService] Compared sentinel sets: %d column(s) changed kind, diagnostics %d -> %d",
		len(changes), len(beforeDiags), len(afterDiags))

	return &ProfileComparison{
		BeforeSentinels:  before.Values(),
		AfterSentinels:   after.Values(),
		Before:           beforeProfile,
		After:            afterProfile,
		KindChanges:      changes,
		BeforeDiagnostic: len(beforeDiags),
		AfterDiagnostic:  len(afterDiags),
	}, nil
}
