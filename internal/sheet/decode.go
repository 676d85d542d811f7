package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Table is a decoded spreadsheet: one header row of column names and the
// data rows below it, every cell already a string.
type Table struct {
	Columns []string
	Rows    [][]string
}

// DecodeError reports that every decoding strategy failed, carrying the
// per-strategy failure messages for diagnostics.
type DecodeError struct {
	Attempts []string
}

func (e *DecodeError) Error() string {
	return "failed to read spreadsheet file. Errors: " + strings.Join(e.Attempts, "; ")
}

type strategy struct {
	name   string
	decode func(data []byte) (*Table, error)
}

// Government portals export "Excel" files that are really UTF-16 HTML
// tables, real OOXML workbooks or legacy BIFF binaries, regardless of the
// extension. The strategies run in fixed order; the first success wins.
var strategies = []strategy{
	{"utf-16 html", decodeHTMLTable},
	{"xlsx", decodeXLSX},
	{"xls", decodeXLS},
	{"csv", decodeCSV},
}

// Decode turns raw upload bytes into a Table, trying each strategy in order
// and returning a DecodeError with every failure message if none succeeds.
func Decode(data []byte) (*Table, error) {
	var attempts []string
	for _, s := range strategies {
		t, err := s.decode(data)
		if err == nil {
			return t, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s error: %v", s.name, err))
	}
	return nil, &DecodeError{Attempts: attempts}
}

func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows found")
	}
	header := rows[0]
	if len(header) == 0 {
		return nil, errors.New("empty header row")
	}
	t := &Table{Columns: header}
	for _, row := range rows[1:] {
		cells := make([]string, len(header))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func decodeXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	return tableFromRows(rows)
}

// decodeXLS reads legacy BIFF workbooks. xlsReader wants a file path, so the
// bytes go through a throwaway temp file first.
func decodeXLS(data []byte) (*Table, error) {
	tmp, err := os.CreateTemp("", "decode-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	ws, err := book.GetSheet(0)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, errors.New("workbook has no sheets")
	}
	var rows [][]string
	for _, r := range ws.GetRows() {
		var cells []string
		for _, c := range r.GetCols() {
			cells = append(cells, c.GetString())
		}
		rows = append(rows, cells)
	}
	return tableFromRows(rows)
}

func decodeCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return tableFromRows(rows)
}
