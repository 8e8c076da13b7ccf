package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Kind selects one of the two charts.
type Kind string

const (
	KindBar Kind = "bar"
	KindPie Kind = "pie"
)

var ErrUnknownKind = errors.New("unknown chart kind")

// Default image size for single charts.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

const (
	pageWidth  = 8.5 * vg.Inch
	pageHeight = 11 * vg.Inch
	pdfMargin  = 0.75 * vg.Inch
)

// ParseKind resolves "bar" or "pie".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBar, KindPie:
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Draw renders the chart of the given kind into c.
func Draw(c draw.Canvas, k Kind, p Projection, title string) error {
	switch k {
	case KindBar:
		return DrawBar(c, p, title)
	case KindPie:
		return DrawPie(c, p, title)
	}
	return fmt.Errorf("%w %q", ErrUnknownKind, k)
}

// WriteSVG renders one chart as an SVG document.
func WriteSVG(w io.Writer, k Kind, p Projection, title string, width, height vg.Length) error {
	c := vgsvg.New(width, height)
	if err := Draw(whiteCanvas(c), k, p, title); err != nil {
		return err
	}
	_, err := c.WriteTo(w)
	return err
}

// WritePNG renders one chart as a PNG image.
func WritePNG(w io.Writer, k Kind, p Projection, title string, width, height vg.Length) error {
	c := vgimg.New(width, height)
	if err := Draw(whiteCanvas(c), k, p, title); err != nil {
		return err
	}
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

// WriteReport writes a two-page letter-size PDF: the bar chart under the
// report heading, then the pie chart.
func WriteReport(w io.Writer, heading string, p Projection) error {
	// The Liberation font in vgpdf doesn't render dash glyphs reliably.
	heading = strings.NewReplacer("—", "-", "–", "-").Replace(heading)

	c := vgpdf.New(pageWidth, pageHeight)

	page := draw.Crop(draw.New(c), pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	page = drawTitle(page, heading)
	barArea := draw.Crop(page, 0, 0, (page.Max.Y-page.Min.Y)/3, 0)
	if err := DrawBar(barArea, p, AmountLabel+" / "+AdsLabel); err != nil {
		return err
	}

	c.NextPage()
	page = draw.Crop(draw.New(c), pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	if err := DrawPie(page, p, "Share of "+AmountLabel); err != nil {
		return err
	}

	_, err := c.WriteTo(w)
	return err
}

func whiteCanvas(c vg.CanvasSizer) draw.Canvas {
	dc := draw.New(c)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())
	return dc
}
