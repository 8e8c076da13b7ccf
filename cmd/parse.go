package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zalepa/benito/parser"
)

// Parse implements the "parse" subcommand: normalize an ad spend report (or
// every report in a directory) and write JSON plus optional CSV/XLSX output.
func Parse(args []string) {
	cfg, log := setup()

	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	format := fs.String("format", cfg.Format, "input format: csv, lines, xlsx, pdf (default: from extension)")
	jsonOut := fs.String("json", "", "output JSON file path (single file mode only)")
	csvOut := fs.String("csv", "", "also write normalized CSV to this path (single file mode only)")
	xlsxOut := fs.String("xlsx", "", "also write an XLSX workbook to this path (single file mode only)")
	strict := fs.Bool("strict", false, "exit with status 1 if the input produced any warning")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: benito parse <report | directory> [--format f] [--json out.json] [--csv out.csv] [--xlsx out.xlsx] [--strict]\n\n")
		fmt.Fprintf(os.Stderr, "If a directory is given, every .csv, .txt, .xlsx and .pdf file in it is\nnormalized and a JSON file is written alongside each one.\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	inputPath := cfg.DataPath
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var inputs []string
	var outs outputs
	if info.IsDir() {
		inputs, err = reportFiles(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading directory: %v\n", err)
			os.Exit(1)
		}
		if len(inputs) == 0 {
			fmt.Fprintf(os.Stderr, "no report files found in %s\n", inputPath)
			os.Exit(1)
		}
	} else {
		inputs = []string{inputPath}
		outs = outputs{json: *jsonOut, csv: *csvOut, xlsx: *xlsxOut}
	}

	inFormat := inputFormat(fs, *format, info.IsDir())
	clean := true
	for _, in := range inputs {
		res, err := parseSingle(in, inFormat, outs, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(in), err)
			os.Exit(1)
		}
		clean = clean && res.OK()
	}
	if *strict && !clean {
		os.Exit(1)
	}
}

type outputs struct {
	json, csv, xlsx string
}

// reportFiles lists the files in dir that have a known report extension.
func reportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := parser.FormatFromPath(e.Name()); err == nil {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// inputFormat decides the format name passed to the loader. In directory
// mode an inherited BENITO_FORMAT is ignored so that each file is read by its
// extension; only an explicit --format applies to every file.
func inputFormat(fs *flag.FlagSet, format string, dirMode bool) string {
	if dirMode && !flagGiven(fs, "format") {
		return ""
	}
	return format
}

// parseSingle normalizes one file and writes its outputs.
func parseSingle(inputPath, format string, outs outputs, log zerolog.Logger) (parser.Result, error) {
	if outs.json == "" {
		dir := filepath.Dir(inputPath)
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outs.json = filepath.Join(dir, base+".json")
	}

	res, err := loadFile(inputPath, format, log)
	if err != nil {
		return parser.Result{}, err
	}

	if err := writeFile(outs.json, func(w io.Writer) error { return writeJSON(w, res) }); err != nil {
		return parser.Result{}, fmt.Errorf("writing JSON: %w", err)
	}
	if outs.csv != "" {
		if err := writeFile(outs.csv, func(w io.Writer) error { return parser.WriteCSV(w, res.Records) }); err != nil {
			return parser.Result{}, fmt.Errorf("writing CSV: %w", err)
		}
	}
	if outs.xlsx != "" {
		if err := writeFile(outs.xlsx, func(w io.Writer) error { return parser.WriteXLSX(w, res.Records) }); err != nil {
			return parser.Result{}, fmt.Errorf("writing XLSX: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "%s: %d records, %d dropped, %d warnings → %s\n",
		filepath.Base(inputPath), len(res.Records), res.Dropped, len(res.Warnings), filepath.Base(outs.json))
	return res, nil
}

// writeJSON encodes a result with records and warnings. Warnings is always
// an array so consumers don't need a null check.
func writeJSON(w io.Writer, res parser.Result) error {
	if res.Records == nil {
		res.Records = []parser.SpendRecord{}
	}
	if res.Warnings == nil {
		res.Warnings = []parser.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// writeFile creates path and hands it to fn, reporting the first error from
// either.
func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
