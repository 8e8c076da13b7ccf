package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"

	"github.com/zalepa/benito/chart"
	"github.com/zalepa/benito/parser"
)

// Build implements the "build" subcommand: render the page once per sort
// order into a static site directory.
func Build(args []string) {
	cfg, log := setup()

	fs := flag.NewFlagSet("build", flag.ExitOnError)
	format := fs.String("format", cfg.Format, "input format: csv, lines, xlsx, pdf (default: from extension)")
	dir := fs.String("dir", cfg.SiteDir, "output directory")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: benito build <report> [--dir site]\n\nWrites index.html, amount/index.html, ads/index.html and data.json.\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	inputPath := cfg.DataPath
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	res := mustLoad(inputPath, *format, log)
	width, height := cfg.Size()
	files, err := buildSite(*dir, res, width, height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building site: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		log.Debug().Str("path", f).Msg("wrote")
	}
	fmt.Printf("wrote %d files to %s\n", len(files), *dir)
}

// sitePage is the directory of an order's page, relative to the site root.
func sitePage(o chart.Order) string {
	if o == chart.OrderOriginal {
		return ""
	}
	return string(o)
}

// buildSite writes every page plus data.json and returns the paths written.
func buildSite(dir string, res parser.Result, width, height vg.Length) ([]string, error) {
	view := chart.NewView(res.Records)
	var written []string

	for _, o := range chart.Orders {
		sub := sitePage(o)
		// Links are relative so the site works from any base path.
		up := ""
		if sub != "" {
			up = "../"
		}
		href := func(target chart.Order) string {
			if t := sitePage(target); t != "" {
				return up + t + "/"
			}
			if up == "" {
				return "./"
			}
			return up
		}

		path := filepath.Join(dir, sub, "index.html")
		err := writeFile(path, func(w io.Writer) error {
			return renderPage(w, view.Sorted(o), res.Dropped, href, width, height)
		})
		if err != nil {
			return written, fmt.Errorf("%s: %w", path, err)
		}
		written = append(written, path)
	}

	path := filepath.Join(dir, "data.json")
	err := writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newRecordsResponse(view, res))
	})
	if err != nil {
		return written, fmt.Errorf("%s: %w", path, err)
	}
	return append(written, path), nil
}
