package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/zalepa/benito/chart"
)

// Chart implements the "chart" subcommand: render the bar or pie chart of a
// report to an SVG or PNG file.
func Chart(args []string) {
	cfg, log := setup()

	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	format := fs.String("format", cfg.Format, "input format: csv, lines, xlsx, pdf (default: from extension)")
	kind := fs.String("kind", "bar", "chart kind: bar, pie")
	order := fs.String("sort", "original", "display order: original, amount, ads")
	out := fs.String("out", "", "output file (.svg or .png; default <input>-<kind>.svg)")
	width := fs.Float64("width", cfg.Width, "image width in inches")
	height := fs.Float64("height", cfg.Height, "image height in inches")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: benito chart <report> [--kind bar|pie] [--sort original|amount|ads] [--out chart.svg]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	inputPath := cfg.DataPath
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	k, err := chart.ParseKind(*kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --kind: %v\n", err)
		os.Exit(1)
	}
	o, err := chart.ParseOrder(*order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --sort: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		*out = filepath.Join(filepath.Dir(inputPath), base+"-"+string(k)+".svg")
	}

	res := mustLoad(inputPath, *format, log)
	view := chart.NewView(res.Records).Sorted(o)

	err = writeFile(*out, func(w io.Writer) error {
		return renderChart(w, *out, k, chart.Project(view.Displayed), vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing chart: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

// renderChart picks the image encoding from the output extension.
func renderChart(w io.Writer, path string, k chart.Kind, p chart.Projection, width, height vg.Length) error {
	title := chartTitle(k)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		return chart.WriteSVG(w, k, p, title, width, height)
	case ".png":
		return chart.WritePNG(w, k, p, title, width, height)
	default:
		return fmt.Errorf("unsupported image extension %q (want .svg or .png)", ext)
	}
}

func chartTitle(k chart.Kind) string {
	if k == chart.KindPie {
		return "Share of " + chart.AmountLabel
	}
	return chart.AmountLabel + " / " + chart.AdsLabel
}
