// Package importer decodes uploaded food spreadsheets into header-keyed rows.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Format names the decoder picked for a file
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks a decoder from the file extension
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// ReadRows decodes the first sheet (or the whole CSV) of r. The first row is
// the header; each following non-blank row becomes a map from header to cell.
func ReadRows(filename string, r io.Reader) ([]map[string]any, Format, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, "", err
	}

	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readXLSX(r)
	case FormatCSV:
		records, err = readCSV(r)
	}
	if err != nil {
		return nil, format, err
	}
	return tabulate(records), format, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func tabulate(records [][]string) []map[string]any {
	if len(records) == 0 {
		return []map[string]any{}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		blank := true
		for i, h := range header {
			if h == "" || i >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell != "" {
				blank = false
			}
			row[h] = cell
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}
