package cmd

import (
	"archive/zip"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

var errNoCSV = errors.New("archive contains no CSV file")

// Download implements the "download" subcommand: fetch an Ad Library spend
// report and store its CSV as the data file.
func Download(args []string) {
	cfg, _ := setup()

	fs := flag.NewFlagSet("download", flag.ExitOnError)
	out := fs.String("out", cfg.DataPath, "destination CSV path")
	force := fs.Bool("force", false, "overwrite an existing file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: benito download <report-url> [--out data/gastos.csv] [--force]\n\n")
		fmt.Fprintf(os.Stderr, "The URL may point at a CSV file or at the zip archive offered by\n%s\n\n", SourceURL)
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	url := fs.Arg(0)

	fmt.Fprintf(os.Stderr, "Fetching %s\n", url)
	skipped, err := fetchReport(url, *out, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error downloading %s: %v\n", url, err)
		os.Exit(1)
	}
	if skipped {
		fmt.Fprintf(os.Stderr, "skip %s (already exists, use --force to replace)\n", *out)
		return
	}
	fmt.Fprintf(os.Stderr, "Done: wrote %s\n", *out)
}

// fetchReport downloads url into dest. Zip archives are unpacked to their
// advertisers CSV. It reports skipped when dest exists and force is off.
func fetchReport(url, dest string, force bool) (skipped bool, err error) {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			return true, nil
		}
	}

	resp, err := httpClient.Get(url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if isZip(body) {
		_, body, err = extractCSV(body)
		if err != nil {
			return false, err
		}
	}

	err = writeFile(dest, func(w io.Writer) error {
		_, err := w.Write(body)
		return err
	})
	return false, err
}

func isZip(b []byte) bool {
	return bytes.HasPrefix(b, []byte("PK\x03\x04"))
}

// extractCSV returns the advertisers table from a report archive, or the
// first CSV when none is named that way.
func extractCSV(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, err
	}

	var pick *zip.File
	for _, f := range zr.File {
		name := strings.ToLower(path.Base(f.Name))
		if f.FileInfo().IsDir() || path.Ext(name) != ".csv" {
			continue
		}
		if strings.Contains(name, "advertisers") {
			pick = f
			break
		}
		if pick == nil {
			pick = f
		}
	}
	if pick == nil {
		return "", nil, errNoCSV
	}

	rc, err := pick.Open()
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, err
	}
	return pick.Name, b, nil
}
