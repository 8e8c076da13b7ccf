package cmd

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/zalepa/benito/chart"
)

// Viz implements the "viz" subcommand: print the records as a table with
// horizontal bars.
func Viz(args []string) {
	cfg, log := setup()

	fs := flag.NewFlagSet("viz", flag.ExitOnError)
	format := fs.String("format", cfg.Format, "input format: csv, lines, xlsx, pdf (default: from extension)")
	order := fs.String("sort", "original", "display order: original, amount, ads")
	barWidth := fs.Int("bar", 30, "bar width in characters")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benito viz [report] [flags]

Print ad spend per page in the terminal.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  benito viz data/gastos.csv --sort amount
  benito viz reporte.txt --format lines --bar 50
`)
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

	res := mustLoad(inputPath, *format, log)
	if len(res.Records) == 0 {
		fmt.Fprintf(os.Stderr, "no valid records in %s\n", inputPath)
		os.Exit(1)
	}
	renderTable(os.Stdout, Heading, chart.NewView(res.Records).Sorted(o), *barWidth)
}

func renderTable(w io.Writer, title string, view chart.View, barWidth int) {
	records := view.Displayed
	p := chart.Project(records)

	var total, totalAds, maxAmount float64
	ads := make([]float64, len(records))
	for i, r := range records {
		total += float64(r.AmountSpentMXN)
		totalAds += float64(r.NumberOfAds)
		maxAmount = math.Max(maxAmount, float64(r.AmountSpentMXN))
		ads[i] = float64(r.NumberOfAds)
	}

	maxName := len("TOTAL")
	for _, r := range records {
		maxName = max(maxName, utf8.RuneCountInString(r.PageName))
	}
	if maxName < 10 {
		maxName = 10
	}

	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Order: %s   Ads: %s\n\n", view.Order, sparkline(ads))

	fmt.Fprintf(w, "%s  %14s  %8s  %6s   %s\n", padRight("Page", maxName), "Amount (MXN)", "Ads", "Share", "Amount")
	rule := strings.Repeat("─", maxName+2+14+2+8+2+6+3+barWidth)
	fmt.Fprintln(w, rule)
	for i, r := range records {
		fmt.Fprintf(w, "%s  %14s  %8s  %5.1f%%   %s\n",
			padRight(r.PageName, maxName),
			chart.FormatNumber(r.AmountSpentMXN),
			chart.FormatNumber(int64(r.NumberOfAds)),
			p.Pie[i].Percent*100,
			hbar(float64(r.AmountSpentMXN), maxAmount, barWidth))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s  %14s  %8s\n", padRight("TOTAL", maxName), chart.FormatTotal(total), chart.FormatTotal(totalAds))
}

// padRight pads s with spaces to n runes.
func padRight(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

var partialBlocks = []rune("▏▎▍▌▋▊▉")

// hbar draws v as a bar of up to width cells, scaled so that max fills the
// width. Partial cells use eighth blocks.
func hbar(v, max float64, width int) string {
	if max <= 0 || v <= 0 || width <= 0 {
		return ""
	}
	eighths := int(math.Round(v / max * float64(width*8)))
	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", eighths/8))
	if rem := eighths % 8; rem > 0 {
		sb.WriteRune(partialBlocks[rem-1])
	}
	return sb.String()
}

func sparkline(values []float64) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	n := len(blocks)

	if len(values) == 0 {
		return ""
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	spread := max - min
	var sb strings.Builder
	for _, v := range values {
		idx := n / 2
		if spread > 0 {
			idx = int((v - min) / spread * float64(n-1))
			if idx >= n {
				idx = n - 1
			}
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}

