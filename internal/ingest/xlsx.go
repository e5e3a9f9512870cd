package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads one sheet of a workbook
type XLSXReader struct {
	sheet string
}

func NewXLSXReader(sheet string) *XLSXReader {
	return &XLSXReader{sheet: sheet}
}

func (r *XLSXReader) Read(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "zip: not a valid zip file") {
			return nil, fmt.Errorf("failed to open XLSX file: %w. (Hint: If this is a CSV file, please ensure it has a .csv extension)", err)
		}
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	sheetName := sheets[0]
	if r.sheet != "" {
		if idx, err := f.GetSheetIndex(r.sheet); err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", r.sheet)
		}
		sheetName = r.sheet
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	return tableFromRows(rows)
}
