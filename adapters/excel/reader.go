package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sheetlint/domain/core"
	"sheetlint/domain/table"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into a raw string table
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
}

// NewDataReader creates a reader that handles both Excel and CSV files,
// dispatching on the file extension
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, config: config}
}

// ReadData reads the source into a RawTable. Cells come back as trimmed
// text; typing happens later in the inference pass. A missing file or sheet
// is fatal here - there is nothing sensible to load.
func (r *DataReader) ReadData() (*table.RawTable, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", core.ErrNotTabular, r.fileType)
	}
}

// readExcelData reads the configured sheet into a RawTable
func (r *DataReader) readExcelData() (*table.RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrNotTabular, err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := r.config.SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrSheetNotFound, sheet, r.filePath)
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q needs at least a header row and one data row", core.ErrNotTabular, sheet)
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into a RawTable
func (r *DataReader) readCSVData() (*table.RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows read as short, padded later

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV file: %v", core.ErrNotTabular, err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: CSV file needs at least a header row and one data row", core.ErrNotTabular)
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into a RawTable
func (r *DataReader) processRows(rows [][]string) (*table.RawTable, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]table.RawRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(table.RawRow, len(headers))
		for j, header := range headers {
			if j < len(rows[i]) {
				rowData[header] = strings.TrimSpace(rows[i][j])
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &table.RawTable{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
