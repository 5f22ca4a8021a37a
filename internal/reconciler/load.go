package reconciler

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/tickdiff/internal/types"
)

// LoadTable reads a normalized file. The first row supplies the column
// names. Workbooks are read from their first sheet; everything else is
// parsed as CSV.
func LoadTable(filePath string) (*types.FileData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".xlsx":
		return readXLSXData(filePath)
	default:
		return readCSVData(filePath)
	}
}

func readCSVData(filePath string) (*types.FileData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty file: %s", filePath)
	}

	return &types.FileData{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

func readXLSXData(filePath string) (*types.FileData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: %s", filePath)
	}

	return &types.FileData{
		Headers: rows[0],
		Rows:    rows[1:],
	}, nil
}

// ColumnValues returns the trimmed values of the named column, starting at
// the second data row. The name must match the header exactly, padding
// included. Rows too short to hold the column contribute empty values.
func ColumnValues(data *types.FileData, name string) ([]string, error) {
	idx := -1
	for i, header := range data.Headers {
		if header == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &ColumnError{Column: name, Headers: data.Headers}
	}

	if len(data.Rows) < 2 {
		return []string{}, nil
	}

	values := make([]string, 0, len(data.Rows)-1)
	for _, row := range data.Rows[1:] {
		val := ""
		if idx < len(row) {
			val = strings.TrimSpace(row[idx])
		}
		values = append(values, val)
	}
	return values, nil
}
