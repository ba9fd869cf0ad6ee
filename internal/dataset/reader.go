package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read parses a dataset from r, choosing the format from the filename
// extension: .csv for delimited text, .xlsx for a spreadsheet (first sheet).
func Read(r io.Reader, filename string) (*Table, error) {
	name := baseName(filename)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r, name)
	case ".xlsx":
		return ReadXLSX(r, name)
	default:
		return nil, fmt.Errorf("unsupported file extension for %s (expected .csv or .xlsx)", filename)
	}
}

// ReadFile parses a dataset from a local path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path)
}

// ReadBytes parses a dataset from an in-memory buffer.
func ReadBytes(data []byte, filename string) (*Table, error) {
	return Read(bytes.NewReader(data), filename)
}

// ReadCSV reads a CSV stream into a Table. The first record is the header;
// ragged rows are tolerated and padded on access.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header for %s: %w", name, err)
	}

	t := &Table{Name: name, Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record in %s: %w", name, err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// ReadXLSX reads the first sheet of an XLSX stream into a Table.
func ReadXLSX(r io.Reader, name string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx %s has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx %s sheet %s is empty", name, sheets[0])
	}

	return &Table{Name: name, Columns: rows[0], Rows: rows[1:]}, nil
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
