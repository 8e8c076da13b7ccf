package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// tableRow is one row of a tabular report with its 1-based source line.
type tableRow struct {
	line  int
	cells []string
}

func (r tableRow) cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r tableRow) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var utf8BOM = []byte("\ufeff")

// normalizeCSV reads comma-separated report text. Quoting mistakes are
// tolerated where possible; records the reader still rejects are reported as
// malformed rows and skipped.
func normalizeCSV(raw []byte) Result {
	var res Result

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []tableRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.drop(Diagnostic{Line: pe.StartLine, Kind: KindMalformedRow, Message: pe.Err.Error()})
				continue
			}
			res.warn(Diagnostic{Kind: KindMalformedRow, Message: err.Error()})
			break
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, tableRow{line: line, cells: rec})
	}

	tab := normalizeTable(rows)
	res.Records = tab.Records
	res.warn(tab.Warnings...)
	res.Dropped += tab.Dropped
	return res
}

// normalizeTable maps header-addressed rows to records. The first non-blank
// row is the header; blank rows after it are skipped silently.
func normalizeTable(rows []tableRow) Result {
	var res Result

	start := 0
	for start < len(rows) && rows[start].blank() {
		start++
	}
	if start == len(rows) {
		return res
	}

	header := rows[start]
	cols, missing := indexColumns(header)
	if len(missing) > 0 {
		for _, name := range missing {
			res.warn(Diagnostic{
				Line: header.line, Kind: KindMissingColumn, Field: name,
				Message: fmt.Sprintf("header has no %q column", name),
			})
		}
		return res
	}

	for _, row := range rows[start+1:] {
		if row.blank() {
			continue
		}
		rec, diags := buildRecord(row.line, row.cell(cols.name), row.cell(cols.amount), row.cell(cols.ads))
		if len(diags) > 0 {
			res.drop(diags...)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

type columnIndex struct {
	name, amount, ads int
}

// indexColumns locates the required columns in a header row. When a header
// repeats, the first occurrence wins.
func indexColumns(header tableRow) (columnIndex, []string) {
	pos := make(map[string]int, len(header.cells))
	for i, h := range header.cells {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := pos[h]; !seen {
			pos[h] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	cols := columnIndex{
		name:   lookup(ColumnPageName),
		amount: lookup(ColumnAmount),
		ads:    lookup(ColumnAds),
	}
	return cols, missing
}

// WriteCSV writes records as a report containing only the required columns.
// Amounts are written without separators so the output normalizes back to
// the same records.
func WriteCSV(w io.Writer, records []SpendRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RequiredColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.PageName, fmt.Sprint(r.AmountSpentMXN), fmt.Sprint(r.NumberOfAds)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
