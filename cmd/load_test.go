package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zalepa/benito/parser"
)

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"data.csv", "--sort", "amount"}, []string{"--sort", "amount", "data.csv"}},
		{[]string{"--strict", "data.csv"}, []string{"--strict", "data.csv"}},
		{[]string{"data.csv", "--out=x.svg", "--kind", "pie"}, []string{"--out=x.svg", "--kind", "pie", "data.csv"}},
		{[]string{"--force", "--", "-weird.csv"}, []string{"--force", "-weird.csv"}},
		{nil, nil},
	}
	for _, tt := range tests {
		got := reorderArgs(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("reorderArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		path, name string
		want       parser.Format
		wantErr    bool
	}{
		{"gastos.csv", "", parser.FormatCSV, false},
		{"gastos.txt", "", parser.FormatLines, false},
		{"gastos.txt", "csv", parser.FormatCSV, false},
		{"gastos.dat", "", "", true},
		{"gastos.csv", "yaml", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.path, tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v, wantErr %v", tt.path, tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.path, tt.name, got, tt.want)
		}
	}
}

const testCSV = "Page name,Amount spent (MXN),Number of ads in Library\n" +
	"Candidate A,100,5\n" +
	"Candidate B,300,2\n" +
	"Candidate C,200,9\n" +
	"Broken,abc,1\n"

func writeTestData(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFile(t *testing.T) {
	p := writeTestData(t, "gastos.csv", testCSV)

	res, err := loadFile(p, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if len(res.Records) != 3 {
		t.Errorf("got %d records, want 3", len(res.Records))
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != parser.KindInvalidAmount {
		t.Errorf("warnings = %v, want one invalid-amount", res.Warnings)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := loadFile(filepath.Join(t.TempDir(), "nope.csv"), "", zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReportFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.txt", "notes.md", "c.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := reportFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.xlsx"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reportFiles = %v, want %v", got, want)
	}
}
