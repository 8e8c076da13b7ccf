package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	barWidth      vg.Length = 20
	labelRotation = 25 * math.Pi / 180
	titleSize     = 14
	pieLabelSize  = 9
)

// Axis labels, matching the report's column headers.
const (
	AmountLabel = "Amount spent (MXN)"
	AdsLabel    = "Number of ads in Library"
)

var (
	textGray = color.Gray{Y: 80}
	noteGray = color.Gray{Y: 140}
)

// DrawBar draws the grouped bar chart into c: amount spent in the upper panel
// and number of ads in the lower one, sharing the category axis.
func DrawBar(c draw.Canvas, p Projection, title string) error {
	c = drawTitle(c, title)
	if p.Empty() {
		drawNoData(c)
		return nil
	}

	top, err := barPlot(AmountLabel, p.Bar.Categories, p.Bar.Amounts, Palette[0])
	if err != nil {
		return err
	}
	bottom, err := barPlot(AdsLabel, p.Bar.Categories, p.Bar.Ads, Palette[1])
	if err != nil {
		return err
	}

	// Only the lower panel carries category names.
	blank := make(plot.ConstantTicks, len(p.Bar.Categories))
	for i := range blank {
		blank[i] = plot.Tick{Value: float64(i)}
	}
	top.X.Tick.Marker = blank

	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Points(8)}
	canvases := plot.Align([][]*plot.Plot{{top}, {bottom}}, tiles, c)
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])
	return nil
}

func barPlot(label string, categories []string, values []float64, clr color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.Y.Label.Text = label
	p.Y.Tick.Marker = compactTicks{}
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth)
	if err != nil {
		return nil, err
	}
	bars.Color = clr
	bars.LineStyle.Width = 0

	p.Add(plotter.NewGrid(), bars)
	p.Legend.Add(label, bars)
	p.Legend.Top = true

	p.NominalX(categories...)
	p.X.Tick.Label.Rotation = labelRotation
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

// DrawPie draws one slice per record, sized by amount spent, labelled with
// the slice's short name and percentage.
func DrawPie(c draw.Canvas, p Projection, title string) error {
	c = drawTitle(c, title)
	if p.Empty() {
		drawNoData(c)
		return nil
	}

	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	center := vg.Point{X: c.Min.X + w/2, Y: c.Min.Y + h/2}
	radius := vg.Length(math.Min(float64(w), float64(h))) * 0.35

	start := 0.0
	for _, s := range p.Pie {
		sweep := 2 * math.Pi * s.Percent
		if sweep <= 0 {
			continue
		}

		var path vg.Path
		path.Move(center)
		path.Line(polar(center, radius, start))
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(s.Color)
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		mid := start + sweep/2
		xalign := draw.XLeft
		if math.Cos(mid) < 0 {
			xalign = draw.XRight
		}
		fillText(c, s.Text, vg.Points(pieLabelSize), polar(center, radius*1.1, mid), textGray, xalign, draw.YCenter)

		start += sweep
	}
	return nil
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}

// drawTitle writes title along the top edge and returns the area below it.
func drawTitle(c draw.Canvas, title string) draw.Canvas {
	if title == "" {
		return c
	}
	size := vg.Points(titleSize)
	mid := (c.Min.X + c.Max.X) / 2
	fillText(c, title, size, vg.Point{X: mid, Y: c.Max.Y}, color.Black, draw.XCenter, draw.YTop)
	return draw.Crop(c, 0, 0, 0, -2*size)
}

func drawNoData(c draw.Canvas) {
	mid := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	fillText(c, "(no data)", vg.Points(10), mid, noteGray, draw.XCenter, draw.YCenter)
}

func fillText(c draw.Canvas, txt string, size vg.Length, pt vg.Point, clr color.Color, xalign draw.XAlignment, yalign draw.YAlignment) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
		XAlign:  xalign,
		YAlign:  yalign,
	}
	sty.Font.Size = size
	c.FillText(sty, pt, txt)
}
