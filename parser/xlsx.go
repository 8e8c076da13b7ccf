package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Gastos"

// readXLSX returns the rows of the first worksheet. Row numbers are the
// sheet's 1-based row numbers.
func readXLSX(raw []byte) ([]tableRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("open workbook: no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	out := make([]tableRow, 0, len(rows))
	for i, cells := range rows {
		out = append(out, tableRow{line: i + 1, cells: cells})
	}
	return out, nil
}

// WriteXLSX writes records to a single-sheet workbook with the report's
// column headers. Amounts and counts are stored as numbers with a thousands
// format.
func WriteXLSX(w io.Writer, records []SpendRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#8884D8"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	// Built-in number format 3 is "#,##0".
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(RequiredColumns))
	for i, c := range RequiredColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.PageName, r.AmountSpentMXN, r.NumberOfAds}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	if len(records) > 0 {
		last := fmt.Sprintf("C%d", len(records)+1)
		if err := f.SetCellStyle(SheetName, "B2", last, numberStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "C", 24); err != nil {
		return err
	}

	return f.Write(w)
}
