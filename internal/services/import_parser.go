package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// importRow is one parsed line of an upload. SourceRow is the 1-based
// position in the source file, including the header row for spreadsheets,
// so diagnostics read "Row N" with N matching what the operator sees.
type importRow struct {
	SourceRow   int
	Name        string
	Email       string
	Password    string
	Role        string
	StudentCode string
	DateOfBirth *time.Time
	Phone       string
	Gender      string
	Address     string
}

// parseImportFile parses an uploaded user file. The extension decides the
// format before any content is read; everything else is a file-level error.
func parseImportFile(filename string, reader io.Reader) ([]importRow, error) {
	var rows []importRow
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = parseCSV(reader)
	case ".xlsx", ".xls":
		rows, err = parseSpreadsheet(reader)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// parseCSV reads positional rows with no header. Short records are padded
// so a row with missing trailing columns still reaches validation.
func parseCSV(reader io.Reader) ([]importRow, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows []importRow
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line++
		rows = append(rows, rowFromFields(record, line))
	}

	return rows, nil
}

// parseSpreadsheet reads the first sheet, skipping the header row.
func parseSpreadsheet(reader io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	sheetRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}

	var rows []importRow
	for i, record := range sheetRows {
		if i == 0 {
			continue // header
		}
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, rowFromFields(record, i+1))
	}

	return rows, nil
}

func rowFromFields(fields []string, sourceRow int) importRow {
	return importRow{
		SourceRow:   sourceRow,
		Name:        fieldAt(fields, 0),
		Email:       fieldAt(fields, 1),
		Password:    fieldAt(fields, 2),
		Role:        fieldAt(fields, 3),
		StudentCode: fieldAt(fields, 4),
		DateOfBirth: parseDate(fieldAt(fields, 5)),
		Phone:       fieldAt(fields, 6),
		Gender:      fieldAt(fields, 7),
		Address:     fieldAt(fields, 8),
	}
}

func fieldAt(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func isBlankRecord(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"2-Jan-06",
	time.RFC3339,
}

// parseDate converts a date-of-birth cell best effort; an unparseable
// value leaves the field absent rather than failing the row.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
