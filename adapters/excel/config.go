package excel

// ReaderConfig defines how a tabular source is read
type ReaderConfig struct {
	// SheetName is the sheet to read from xlsx files. Ignored for CSV.
	SheetName string
}

// DefaultReaderConfig returns sensible defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		SheetName: "Sheet1",
	}
}
