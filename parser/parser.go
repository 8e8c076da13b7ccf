package parser

import (
	"strings"
)

// groupSize is the number of non-blank lines per advertiser in the line-based
// report: name, amount, ad count, and a separator.
const groupSize = 4

// Field labels used when reporting line-based diagnostics.
const (
	fieldName   = "name"
	fieldAmount = "amount"
	fieldAds    = "ads"
)

// sourceLine is a non-blank input line with its 1-based line number.
type sourceLine struct {
	no   int
	text string
}

// normalizeLines parses the copy-pasted report layout:
//
//	Page name: Claudia Sheinbaum
//	Amount spent (MXN): 12,345
//	Number of ads in Library: 87
//	----
//
// Blank lines are discarded before grouping.
func normalizeLines(text string) Result {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []sourceLine
	for i, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, sourceLine{no: i + 1, text: l})
	}
	return normalizeLineGroups(lines)
}

// normalizeLineGroups consumes lines four at a time. A trailing group with
// fewer than four lines is ignored.
func normalizeLineGroups(lines []sourceLine) Result {
	var res Result
	for i := 0; i+groupSize <= len(lines); i += groupSize {
		g := lines[i : i+groupSize]

		name, nameDiag := labelValue(g[0], fieldName)
		amount, amountDiag := labelValue(g[1], fieldAmount)
		ads, adsDiag := labelValue(g[2], fieldAds)

		var diags []Diagnostic
		for _, d := range []*Diagnostic{nameDiag, amountDiag, adsDiag} {
			if d != nil {
				diags = append(diags, *d)
			}
		}
		if len(diags) > 0 {
			res.drop(diags...)
			continue
		}

		rec, diags := buildRecord(g[0].no, name, amount, ads)
		if len(diags) > 0 {
			// Point each problem at the line that holds the field.
			for j := range diags {
				switch diags[j].Kind {
				case KindInvalidAmount:
					diags[j].Line = g[1].no
				case KindInvalidCount:
					diags[j].Line = g[2].no
				}
			}
			res.drop(diags...)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// labelValue returns the trimmed text after the first colon of a
// "Label: value" line.
func labelValue(l sourceLine, field string) (string, *Diagnostic) {
	_, value, ok := strings.Cut(l.text, ":")
	if !ok {
		return "", &Diagnostic{
			Line: l.no, Kind: KindMissingLabel, Field: field, Value: strings.TrimSpace(l.text),
			Message: "expected \"Label: value\"",
		}
	}
	return strings.TrimSpace(value), nil
}

// groupIntoLines splits text items into lines using empty-string line-break
// markers. Adjacent empties are collapsed and leading/trailing empties trimmed.
func groupIntoLines(items []string) [][]string {
	var lines [][]string
	var current []string
	for _, item := range items {
		s := strings.TrimSpace(item)
		if s == "" {
			if len(current) > 0 {
				lines = append(lines, current)
				current = nil
			}
		} else {
			current = append(current, s)
		}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}
