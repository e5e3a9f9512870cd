// Package ingest reads roster exports and event definitions from files.
package ingest

import (
	"fmt"
	"kvk-tracker/internal/columns"
	"kvk-tracker/internal/constants"
	"path/filepath"
	"strings"
)

// Table is a parsed export: the detected header row and the data rows below it.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Reader turns file contents into a Table
type Reader interface {
	Read(data []byte) (*Table, error)
}

// Factory picks a Reader by file extension
type Factory struct {
	sheet string
}

// NewFactory creates a factory; sheet selects the workbook sheet, empty for the first one.
func NewFactory(sheet string) *Factory {
	return &Factory{sheet: sheet}
}

func (f *Factory) GetReader(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv", ".tsv", ".txt":
		return NewCSVReader(), nil
	case ".xlsx", ".xlsm":
		return NewXLSXReader(f.sheet), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}

// detectHeaderRow scans the first rows for the one with the most recognised
// roster columns among those carrying a player id column. Returns -1 if no
// row qualifies.
func detectHeaderRow(rows [][]string) int {
	maxRows := constants.HeaderScanRows
	if len(rows) < maxRows {
		maxRows = len(rows)
	}

	bestScore := 0
	bestRow := -1
	for i := 0; i < maxRows; i++ {
		m := columns.NewMapping(rows[i])
		if !m.Has(columns.FieldID) {
			continue
		}
		score := len(columns.Fields) - len(m.Missing())
		if score >= constants.HeaderMinMatches && score > bestScore {
			bestScore = score
			bestRow = i
		}
	}
	return bestRow
}

// tableFromRows splits raw rows at the detected header and drops blank rows.
func tableFromRows(rows [][]string) (*Table, error) {
	headerIdx := detectHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row with a player id column found in the first %d rows", constants.HeaderScanRows)
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}
	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if isBlank(row) {
			continue
		}
		data = append(data, row)
	}

	return &Table{Headers: headers, Rows: data}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
