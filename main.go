package main

import (
	"fmt"
	"os"

	"github.com/zalepa/benito/cmd"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		cmd.Parse(os.Args[2:])
	case "viz":
		cmd.Viz(os.Args[2:])
	case "chart":
		cmd.Chart(os.Args[2:])
	case "report":
		cmd.Report(os.Args[2:])
	case "build":
		cmd.Build(os.Args[2:])
	case "serve":
		cmd.Serve(os.Args[2:])
	case "download":
		cmd.Download(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: benito <command>

Commands:
  parse      Normalize an ad spend report to JSON, CSV or XLSX
  viz        Print ad spend per page in the terminal
  chart      Render the bar or pie chart to SVG or PNG
  report     Write both charts to a PDF
  build      Generate the static chart site
  serve      Serve the chart page and JSON API
  download   Download an Ad Library spend report
`)
}
