package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestGroupIntoLines(t *testing.T) {
	items := []string{"", "A", "B", "", "C", "", "", "D", "E", "F", ""}
	got := groupIntoLines(items)
	want := [][]string{{"A", "B"}, {"C"}, {"D", "E", "F"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

const linesReport = `Page name: Claudia Sheinbaum Pardo
Amount spent (MXN): 12,345
Number of ads in Library: 87
----

Page name:   Xóchitl Gálvez
Amount spent (MXN): 9870
Number of ads in Library: 120
----
`

func TestNormalizeLines(t *testing.T) {
	res, err := Normalize([]byte(linesReport), FormatLines)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []SpendRecord{
		{PageName: "Claudia Sheinbaum Pardo", AmountSpentMXN: 12345, NumberOfAds: 87},
		{PageName: "Xóchitl Gálvez", AmountSpentMXN: 9870, NumberOfAds: 120},
	}
	if !reflect.DeepEqual(res.Records, want) {
		t.Errorf("got  %+v\nwant %+v", res.Records, want)
	}
	if !res.OK() {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestNormalizeLines_CRLFAndBlankRuns(t *testing.T) {
	in := "\r\n\r\nName: A\r\n\r\nAmount: 1,000,000\r\nAds: 3\r\n====\r\n\r\n"
	res, err := Normalize([]byte(in), FormatLines)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []SpendRecord{{PageName: "A", AmountSpentMXN: 1000000, NumberOfAds: 3}}
	if !reflect.DeepEqual(res.Records, want) {
		t.Errorf("got %+v, want %+v", res.Records, want)
	}
}

func TestNormalizeLines_InvalidAmountDropped(t *testing.T) {
	in := strings.Join([]string{
		"Page name: Bad",
		"Amount: abc",
		"Ads: 4",
		"--",
		"Page name: Good",
		"Amount: 50",
		"Ads: 2",
		"--",
	}, "\n")

	res, err := Normalize([]byte(in), FormatLines)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []SpendRecord{{PageName: "Good", AmountSpentMXN: 50, NumberOfAds: 2}}
	if !reflect.DeepEqual(res.Records, want) {
		t.Errorf("got %+v, want %+v", res.Records, want)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(res.Warnings), res.Warnings)
	}
	w := res.Warnings[0]
	if w.Kind != KindInvalidAmount || w.Line != 2 || w.Value != "abc" {
		t.Errorf("warning = %+v, want invalid-amount on line 2 with value abc", w)
	}
}

func TestNormalizeLines_GroupFailures(t *testing.T) {
	tests := []struct {
		name  string
		group []string
		kinds []DiagnosticKind
	}{
		{
			name:  "empty name",
			group: []string{"Page name:   ", "Amount: 10", "Ads: 1", "--"},
			kinds: []DiagnosticKind{KindEmptyName},
		},
		{
			name:  "missing colon",
			group: []string{"Page name: X", "Amount 10", "Ads: 1", "--"},
			kinds: []DiagnosticKind{KindMissingLabel},
		},
		{
			name:  "bad count",
			group: []string{"Page name: X", "Amount: 10", "Ads: many", "--"},
			kinds: []DiagnosticKind{KindInvalidCount},
		},
		{
			name:  "negative amount and fractional count",
			group: []string{"Page name: X", "Amount: -10", "Ads: 1.5", "--"},
			kinds: []DiagnosticKind{KindInvalidAmount, KindInvalidCount},
		},
		{
			name:  "separators only",
			group: []string{"Page name: X", "Amount: ,,", "Ads: 2", "--"},
			kinds: []DiagnosticKind{KindInvalidAmount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Normalize([]byte(strings.Join(tt.group, "\n")), FormatLines)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if len(res.Records) != 0 {
				t.Errorf("got %d records, want 0", len(res.Records))
			}
			var kinds []DiagnosticKind
			for _, w := range res.Warnings {
				kinds = append(kinds, w.Kind)
			}
			if !reflect.DeepEqual(kinds, tt.kinds) {
				t.Errorf("kinds = %v, want %v", kinds, tt.kinds)
			}
		})
	}
}

func TestNormalizeLines_TrailingPartialGroupIgnored(t *testing.T) {
	in := linesReport + "Page name: Incomplete\nAmount spent (MXN): 5\n"
	res, err := Normalize([]byte(in), FormatLines)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want 2", len(res.Records))
	}
	if !res.OK() {
		t.Errorf("trailing group should be ignored silently, got %v", res.Warnings)
	}
}

func TestNormalizeLines_NameKeepsLaterColons(t *testing.T) {
	in := "Page name: PAN: Acción Nacional\nAmount: 7\nAds: 1\n--\n"
	res, _ := Normalize([]byte(in), FormatLines)
	if len(res.Records) != 1 || res.Records[0].PageName != "PAN: Acción Nacional" {
		t.Errorf("got %+v", res.Records)
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12345", 12345, true},
		{" 12,345 ", 12345, true},
		{"1,000,000", 1000000, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"12.5", 0, false},
		{"1,2345", 12345, true},
		{"1,23,456", 123456, true},
		{",", 0, false},
		{"1 234", 0, false},
		{"≤100", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseInteger(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseInteger(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" CSV ", FormatCSV, false},
		{"lines", FormatLines, false},
		{"txt", FormatLines, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", FormatPDF, false},
		{"json", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error %v is not ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"data/gastos.csv", FormatCSV},
		{"data/gastos.txt", FormatLines},
		{"/tmp/Report.XLSX", FormatXLSX},
		{"report.pdf", FormatPDF},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
	if _, err := FormatFromPath("gastos"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatFromPath without extension: got %v, want ErrUnknownFormat", err)
	}
}

func TestNormalize_UnknownFormat(t *testing.T) {
	_, err := Normalize([]byte("x"), Format("yaml"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
}

func TestNormalize_CorruptContainers(t *testing.T) {
	for _, f := range []Format{FormatXLSX, FormatPDF} {
		if _, err := Normalize([]byte("not a container"), f); err == nil {
			t.Errorf("%s: expected error for corrupt input", f)
		}
	}
}

func TestResultErr(t *testing.T) {
	var ok Result
	if ok.Err() != nil {
		t.Errorf("Err() on clean result = %v, want nil", ok.Err())
	}

	res := Result{Warnings: []Diagnostic{
		{Line: 3, Kind: KindEmptyName, Field: ColumnPageName, Message: "page name is empty"},
		{Kind: KindMissingColumn, Field: ColumnAds, Message: "missing"},
	}}
	err := res.Err()
	if err == nil {
		t.Fatal("Err() = nil, want joined error")
	}
	var d Diagnostic
	if !errors.As(err, &d) || d.Kind != KindEmptyName {
		t.Errorf("errors.As did not find first diagnostic: %v", err)
	}
	want := `line 3: empty-name: Page name: page name is empty`
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}

func TestNormalizeLines_DroppedCountsGroups(t *testing.T) {
	in := "Page name: \nAmount spent (MXN): abc\nNumber of ads in Library: x\n----\n" +
		"Page name: A\nAmount spent (MXN): 1,2345\nNumber of ads in Library: 2\n----\n"
	res, err := Normalize([]byte(in), FormatLines)
	if err != nil {
		t.Fatal(err)
	}
	want := []SpendRecord{{PageName: "A", AmountSpentMXN: 12345, NumberOfAds: 2}}
	if !reflect.DeepEqual(res.Records, want) {
		t.Errorf("got %+v, want %+v", res.Records, want)
	}
	if len(res.Warnings) != 3 || res.Dropped != 1 {
		t.Errorf("warnings = %d, dropped = %d; want 3, 1", len(res.Warnings), res.Dropped)
	}
}
