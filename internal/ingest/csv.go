package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader reads comma- or tab-separated exports
type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) Read(data []byte) (*Table, error) {
	cleaned, delimiter, err := preprocessCSVData(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return tableFromRows(records)
}

// preprocessCSVData strips a UTF-8 BOM, normalises line endings and picks the
// delimiter by counting commas and tabs in the first lines.
func preprocessCSVData(data []byte) (string, rune, error) {
	if len(data) == 0 {
		return "", ',', fmt.Errorf("empty CSV data")
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	lines := strings.Split(cleaned, "\n")
	sampleSize := 5
	if len(lines) < sampleSize {
		sampleSize = len(lines)
	}

	commaCount := 0
	tabCount := 0
	for i := 0; i < sampleSize; i++ {
		commaCount += strings.Count(lines[i], ",")
		tabCount += strings.Count(lines[i], "\t")
	}

	delimiter := ','
	if tabCount > commaCount {
		delimiter = '\t'
	}

	return cleaned, delimiter, nil
}
