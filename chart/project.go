package chart

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/zalepa/benito/parser"
)

// Palette colors pie slices by position, cycling when there are more slices
// than colors. The first two also fill the amount and ad-count bars.
var Palette = []color.RGBA{
	{R: 0x88, G: 0x84, B: 0xd8, A: 0xff},
	{R: 0x82, G: 0xca, B: 0x9d, A: 0xff},
	{R: 0xff, G: 0xc6, B: 0x58, A: 0xff},
}

// Hex renders c as a CSS color, e.g. "#8884d8".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// BarSeries pairs each category with its two values. Amounts use the left
// value axis and Ads the right one.
type BarSeries struct {
	Categories []string  `json:"categories"`
	Amounts    []float64 `json:"amounts"`
	Ads        []float64 `json:"ads"`
}

// PieSlice is one record's share of the total amount spent.
type PieSlice struct {
	Name    string     `json:"name"`
	Label   string     `json:"label"`
	Value   int64      `json:"value"`
	Percent float64    `json:"percent"`
	Color   color.RGBA `json:"-"`
	Text    string     `json:"text"`
}

// CSSColor is the slice color as a hex string.
func (s PieSlice) CSSColor() string {
	return Hex(s.Color)
}

// Projection is everything the two charts need, derived from the displayed
// records.
type Projection struct {
	Bar BarSeries  `json:"bar"`
	Pie []PieSlice `json:"pie"`
}

// Empty reports whether there is nothing to draw.
func (p Projection) Empty() bool {
	return len(p.Bar.Categories) == 0
}

// Project derives chart inputs from displayed. It keeps no state; call it on
// every render.
func Project(displayed []parser.SpendRecord) Projection {
	var p Projection
	// Summed as float64 so large amounts cannot wrap the total negative.
	var total float64
	for _, r := range displayed {
		p.Bar.Categories = append(p.Bar.Categories, r.PageName)
		p.Bar.Amounts = append(p.Bar.Amounts, float64(r.AmountSpentMXN))
		p.Bar.Ads = append(p.Bar.Ads, float64(r.NumberOfAds))
		total += float64(r.AmountSpentMXN)
	}

	for i, r := range displayed {
		var pct float64
		if total > 0 {
			pct = float64(r.AmountSpentMXN) / total
		}
		label := shortLabel(r.PageName)
		p.Pie = append(p.Pie, PieSlice{
			Name:    r.PageName,
			Label:   label,
			Value:   r.AmountSpentMXN,
			Percent: pct,
			Color:   Palette[i%len(Palette)],
			Text:    fmt.Sprintf("%s: %d%%", label, int(math.Round(pct*100))),
		})
	}
	return p
}

// shortLabel keeps the first word of a page name so pie labels fit.
func shortLabel(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
