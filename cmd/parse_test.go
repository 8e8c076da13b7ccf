package cmd

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zalepa/benito/parser"
)

func TestParseSingle(t *testing.T) {
	in := writeTestData(t, "gastos.csv", testCSV)
	dir := filepath.Dir(in)
	outs := outputs{
		csv:  filepath.Join(dir, "out", "clean.csv"),
		xlsx: filepath.Join(dir, "out", "clean.xlsx"),
	}

	res, err := parseSingle(in, "", outs, zerolog.Nop())
	if err != nil {
		t.Fatalf("parseSingle: %v", err)
	}
	if res.Dropped != 1 || res.OK() {
		t.Errorf("dropped = %d, ok = %v; want 1, false", res.Dropped, res.OK())
	}

	// JSON defaults to the input's directory and base name.
	data, err := os.ReadFile(filepath.Join(dir, "gastos.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got parser.Result
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 3 || len(got.Warnings) != 1 {
		t.Errorf("json has %d records, %d warnings; want 3, 1", len(got.Records), len(got.Warnings))
	}
	if got.Warnings[0].Line != 5 {
		t.Errorf("warning line = %d, want 5", got.Warnings[0].Line)
	}

	// The normalized CSV re-parses to the same records.
	csvData, err := os.ReadFile(outs.csv)
	if err != nil {
		t.Fatal(err)
	}
	again, err := parser.Normalize(csvData, parser.FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again.Records, got.Records) {
		t.Errorf("csv records = %v, want %v", again.Records, got.Records)
	}

	if _, err := os.Stat(outs.xlsx); err != nil {
		t.Errorf("xlsx not written: %v", err)
	}
}

func TestWriteJSON_EmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, parser.Result{}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"records\": [],\n  \"warnings\": [],\n  \"dropped\": 0\n}\n"
	if buf.String() != want {
		t.Errorf("writeJSON = %q, want %q", buf.String(), want)
	}
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		format  string
		dirMode bool
		want    string
	}{
		{"file, inherited", nil, "csv", false, "csv"},
		{"file, flag", []string{"--format", "lines"}, "lines", false, "lines"},
		{"dir, inherited", nil, "csv", true, ""},
		{"dir, flag", []string{"--format", "csv"}, "csv", true, "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("parse", flag.ContinueOnError)
			fs.String("format", tt.format, "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if got := inputFormat(fs, tt.format, tt.dirMode); got != tt.want {
				t.Errorf("inputFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSingle_DirectoryMixedFormats(t *testing.T) {
	dir := t.TempDir()
	lines := "Page name: A\nAmount spent (MXN): 10\nNumber of ads in Library: 1\n--\n"
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.csv"), []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	files, err := reportFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.String("format", "csv", "")
	format := inputFormat(fs, "csv", true)

	counts := map[string]int{}
	for _, f := range files {
		res, err := parseSingle(f, format, outputs{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		counts[filepath.Base(f)] = len(res.Records)
	}
	if counts["a.txt"] != 1 || counts["b.csv"] != 3 {
		t.Errorf("records per file = %v, want a.txt:1 b.csv:3", counts)
	}
}
