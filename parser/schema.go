package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Column headers of the Ad Library spend report. Matching is exact and
// case-sensitive after trimming surrounding whitespace.
const (
	ColumnPageName = "Page name"
	ColumnAmount   = "Amount spent (MXN)"
	ColumnAds      = "Number of ads in Library"
)

// RequiredColumns lists the consumed columns in export order.
var RequiredColumns = []string{ColumnPageName, ColumnAmount, ColumnAds}

// MaxAmount is the largest accepted amount: 2^53, the largest integer a
// float64 chart value holds exactly. Totals of any realistic report stay far
// below the int64 range.
const MaxAmount int64 = 1 << 53

// digitsPattern matches what is left of a number once its separators are
// removed. Signs and decimals are rejected.
var digitsPattern = regexp.MustCompile(`^\d+$`)

// parseInteger parses a non-negative whole number. Commas are stripped
// before the digits are checked, so "12,345" and "1,2345" both read 12345.
func parseInteger(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !digitsPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// buildRecord validates the three raw field values of one row or line group.
// All failing fields are reported; the record is only valid when none fail.
func buildRecord(line int, name, amount, ads string) (SpendRecord, []Diagnostic) {
	var diags []Diagnostic
	rec := SpendRecord{PageName: strings.TrimSpace(name)}

	if rec.PageName == "" {
		diags = append(diags, Diagnostic{
			Line: line, Kind: KindEmptyName, Field: ColumnPageName,
			Message: "page name is empty",
		})
	}

	if v, ok := parseInteger(amount); ok && v <= MaxAmount {
		rec.AmountSpentMXN = v
	} else {
		diags = append(diags, Diagnostic{
			Line: line, Kind: KindInvalidAmount, Field: ColumnAmount, Value: amount,
			Message: "amount is not a non-negative whole number",
		})
	}

	if v, ok := parseInteger(ads); ok && v <= int64(maxInt) {
		rec.NumberOfAds = int(v)
	} else {
		diags = append(diags, Diagnostic{
			Line: line, Kind: KindInvalidCount, Field: ColumnAds, Value: ads,
			Message: "ad count is not a non-negative whole number",
		})
	}

	return rec, diags
}

const maxInt = int(^uint(0) >> 1)
