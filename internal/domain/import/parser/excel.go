package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbookRows reads the first sheet of an xlsx workbook into
// records, so spreadsheet exports go through the same dialect detection
// as CSV files.
func ReadWorkbookRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
