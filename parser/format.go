package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an input layout accepted by Normalize.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatLines Format = "lines"
	FormatXLSX  Format = "xlsx"
	FormatPDF   Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown input format")

// Formats lists every supported format in documentation order.
var Formats = []Format{FormatCSV, FormatLines, FormatXLSX, FormatPDF}

// ParseFormat resolves a user-supplied format name. "txt" is accepted as an
// alias for the line-based format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatLines, FormatXLSX, FormatPDF:
		return f, nil
	case "txt", "text":
		return FormatLines, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, filepath.Base(path))
	}
	return ParseFormat(ext)
}

// Normalize turns raw report contents into spend records. Bad rows or line
// groups are dropped and described in Result.Warnings; the returned error is
// only set when the input as a whole cannot be decoded (unknown format,
// unreadable workbook or PDF). CSV and line input never fail.
func Normalize(raw []byte, format Format) (Result, error) {
	switch format {
	case FormatCSV:
		return normalizeCSV(raw), nil
	case FormatLines:
		return normalizeLines(string(raw)), nil
	case FormatXLSX:
		rows, err := readXLSX(raw)
		if err != nil {
			return Result{}, err
		}
		return normalizeTable(rows), nil
	case FormatPDF:
		lines, err := pdfLines(raw)
		if err != nil {
			return Result{}, err
		}
		return normalizeLineGroups(lines), nil
	}
	return Result{}, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}
