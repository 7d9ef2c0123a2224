package ports

import (
	"sheetlint/domain/table"
)

// SourceReader reads one tabular source into raw string cells. Adapters
// decide the format (xlsx sheet, csv); callers see only the raw table.
type SourceReader interface {
	ReadData() (*table.RawTable, error)
}

// ReaderFactory builds a SourceReader for a file path and sheet name
type ReaderFactory func(path, sheetName string) SourceReader
