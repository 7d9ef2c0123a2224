package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeXLSXWithSheet(t *testing.T, sheet string, cells [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range cells {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr(sheet, ref, cell))
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCompareUsesConfiguredSheet(t *testing.T) {
	// The file's only sheet is "Responses"; without the SHEETLINT_SHEET
	// fallback compare would look for Sheet1 and fail
	path := writeXLSXWithSheet(t, "Responses", [][]string{
		{"score"},
		{"7"},
		{"NA"},
	})
	t.Setenv("SHEETLINT_SHEET", "Responses")

	cmd := newCompareCmd()
	cmd.SetArgs([]string{path, "--after-na", "NA"})
	require.NoError(t, cmd.Execute())
}

func TestScanUsesConfiguredSheet(t *testing.T) {
	path := writeXLSXWithSheet(t, "Responses", [][]string{
		{"score"},
		{"7"},
	})
	t.Setenv("SHEETLINT_SHEET", "Responses")

	cmd := newScanCmd()
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
}
