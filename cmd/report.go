package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalepa/benito/chart"
)

// Heading is the page and report heading.
const Heading = "Gastos en Facebook de candidatos presidenciales México 2024"

// Report implements the "report" subcommand: write both charts to a PDF.
func Report(args []string) {
	cfg, log := setup()

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	format := fs.String("format", cfg.Format, "input format: csv, lines, xlsx, pdf (default: from extension)")
	order := fs.String("sort", "original", "display order: original, amount, ads")
	pdfOut := fs.String("pdf", "", "output PDF file path (default <input>-report.pdf)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: benito report <report> [--sort original|amount|ads] [--pdf out.pdf]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	inputPath := cfg.DataPath
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}
	o, err := chart.ParseOrder(*order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --sort: %v\n", err)
		os.Exit(1)
	}
	if *pdfOut == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		*pdfOut = filepath.Join(filepath.Dir(inputPath), base+"-report.pdf")
	}

	res := mustLoad(inputPath, *format, log)
	view := chart.NewView(res.Records).Sorted(o)

	err = writeFile(*pdfOut, func(w io.Writer) error {
		return chart.WriteReport(w, Heading, chart.Project(view.Displayed))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing PDF: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *pdfOut)
}
