package cmd

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"gonum.org/v1/plot/vg"

	"github.com/zalepa/benito/chart"
)

//go:embed page.html
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "page.html"))

// Title and Subtitle head every page.
const (
	Title    = "B.E.N.I.T.O"
	Subtitle = "Búsqueda En Networks Inteligentes para Transparencia Oficial"
)

// SourceURL is where the spend reports come from.
const SourceURL = "https://www.facebook.com/ads/library/report/"

// Footer credit.
const (
	Author    = "Jonathan Paz"
	AuthorURL = "https://www.linkedin.com/in/jonathanftw/"
)

type sortLink struct {
	Label  string
	Href   string
	Active bool
}

type pageRow struct {
	Name   string
	Amount string
	Ads    string
	Share  string
	Swatch template.CSS
}

type pageData struct {
	Title     string
	Subtitle  string
	Heading   string
	Sorts     []sortLink
	BarSVG    template.HTML
	PieSVG    template.HTML
	Rows      []pageRow
	Dropped   int
	SourceURL string
	Author    string
	AuthorURL string
}

// sortLabels names the sort controls in display order.
var sortLabels = []struct {
	order chart.Order
	label string
}{
	{chart.OrderOriginal, "Orden original"},
	{chart.OrderAmount, "Ordenar por gasto"},
	{chart.OrderAds, "Ordenar por número de anuncios"},
}

// renderPage writes the HTML page for view. href maps each order to the URL
// of its page; dropped is the number of rows the normalizer rejected.
func renderPage(w io.Writer, view chart.View, dropped int, href func(chart.Order) string, width, height vg.Length) error {
	p := chart.Project(view.Displayed)

	bar, err := inlineSVG(chart.KindBar, p, width, height)
	if err != nil {
		return err
	}
	pie, err := inlineSVG(chart.KindPie, p, width, height)
	if err != nil {
		return err
	}

	data := pageData{
		Title:     Title,
		Subtitle:  Subtitle,
		Heading:   Heading,
		BarSVG:    bar,
		PieSVG:    pie,
		Dropped:   dropped,
		SourceURL: SourceURL,
		Author:    Author,
		AuthorURL: AuthorURL,
	}
	for _, s := range sortLabels {
		data.Sorts = append(data.Sorts, sortLink{Label: s.label, Href: href(s.order), Active: s.order == view.Order})
	}
	for i, r := range view.Displayed {
		s := p.Pie[i]
		data.Rows = append(data.Rows, pageRow{
			Name:   r.PageName,
			Amount: chart.FormatNumber(r.AmountSpentMXN),
			Ads:    chart.FormatNumber(int64(r.NumberOfAds)),
			Share:  fmt.Sprintf("%.1f%%", s.Percent*100),
			Swatch: template.CSS("background: " + s.CSSColor()),
		})
	}
	return pageTmpl.Execute(w, data)
}

// inlineSVG renders a chart and drops the XML prolog so the document can be
// embedded in HTML.
func inlineSVG(k chart.Kind, p chart.Projection, width, height vg.Length) (template.HTML, error) {
	var buf bytes.Buffer
	if err := chart.WriteSVG(&buf, k, p, chartTitle(k), width, height); err != nil {
		return "", err
	}
	b := buf.Bytes()
	if i := bytes.Index(b, []byte("<svg")); i > 0 {
		b = b[i:]
	}
	return template.HTML(b), nil
}
