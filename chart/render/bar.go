package render

import (
	"io"
	"math"

	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/chart/scale"
)

type barMaker struct{}

// series is a labelled group of values shared by bar and line charts.
type series struct {
	Label  string
	Values []float64
	Color  string
}

func init() {
	Register(barMaker{})
}

func (barMaker) Kind() string { return "bar" }

func (barMaker) Description() string {
	return "Vertical or horizontal bar chart with one or more series"
}

func (barMaker) Example() string {
	return `title=Revenue by quarter
subtitle=in thousand EUR
series=2023,2024
y_label=kEUR
---
Q1|120|135
Q2|150|162
Q3|98|141
Q4|170|188
`
}

// parseSeries reads label|v1|v2...[|color] rows. The trailing cell is taken
// as a colour when it is a valid colour and not a number.
func parseSeries(rows []chart.Row) ([]series, int) {
	var groups []series
	n := 0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		cells := row[1:]
		g := series{Label: row[0]}
		if len(cells) > 1 {
			last := cells[len(cells)-1]
			if !chart.IsNumber(last) && color.Valid(last) {
				g.Color, _ = color.Normalize(last)
				cells = cells[:len(cells)-1]
			}
		}
		for _, cell := range cells {
			g.Values = append(g.Values, chart.ParseNumber(cell))
		}
		if len(g.Values) > n {
			n = len(g.Values)
		}
		groups = append(groups, g)
	}
	for i := range groups {
		for len(groups[i].Values) < n {
			groups[i].Values = append(groups[i].Values, 0)
		}
	}
	return groups, n
}

// valueScale builds the value axis honouring the min/max/ticks options.
func valueScale(o chart.Options, groups []series, anchorZero bool) scale.NiceScale {
	min, max := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g.Values {
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	ticks := o.Int("ticks", scale.DefaultMaxTicks)
	if !anchorZero {
		return scale.New(o.Float("min", min), o.Float("max", max), ticks)
	}
	if !o.Has("min") && !o.Has("max") {
		return scale.New(min, max, ticks).IncludeZero()
	}
	// an explicit bound replaces only its own side of the zero anchor
	return scale.New(o.Float("min", math.Min(min, 0)), o.Float("max", math.Max(max, 0)), ticks)
}

func (m barMaker) Render(w io.Writer, doc *chart.Document) error {
	groups, nseries := parseSeries(doc.Rows)
	if len(groups) == 0 {
		return chart.ErrNoData
	}

	c := NewCanvas(w, doc, m.Kind())
	o := c.Opts
	names := o.List("series")
	s := valueScale(o, groups, true)

	c.Start()
	top := c.Header()

	var legend []legendItem
	if o.Bool("legend", nseries > 1) {
		for j := 0; j < nseries; j++ {
			legend = append(legend, legendItem{seriesName(names, j), c.Palette.At(j)})
		}
	}

	horizontal := o.Bool("horizontal", false)
	var f plotFrame
	if horizontal {
		catW := 0.0
		for _, g := range groups {
			catW = math.Max(catW, c.Measure.Width(g.Label, c.FontSize, false))
		}
		f = c.frame(top, math.Min(catW, c.Width*0.35), c.FontSize+8, legend)
	} else {
		f = c.frame(top, c.tickLabelWidth(s), c.FontSize+8, legend)
	}
	if f.Area.W <= 0 || f.Area.H <= 0 {
		c.End()
		return nil
	}

	if horizontal {
		c.VerticalGrid(s, f.Area)
	} else {
		c.HorizontalGrid(s, f.Area)
	}
	m.drawBars(c, s, f.Area, groups, nseries, horizontal)
	c.axisTitles(f)
	if len(legend) > 0 {
		c.Legend(legend, margin, f.LegendY, c.Width-2*margin)
	}
	c.End()
	return nil
}

func (barMaker) drawBars(c *Canvas, s scale.NiceScale, area Area, groups []series, nseries int, horizontal bool) {
	o := c.Opts
	showValues := o.Bool("show_values", true)
	gradient := o.Bool("gradient", true)
	base := baseline(s)

	band := area.W / float64(len(groups))
	if horizontal {
		band = area.H / float64(len(groups))
	}
	pad := band * 0.15
	barW := (band - 2*pad) / float64(nseries)

	for i, g := range groups {
		bandStart := area.X + band*float64(i)
		if horizontal {
			bandStart = area.Y + band*float64(i)
		}

		// category label
		label := c.Measure.Truncate(g.Label, band-4, c.FontSize)
		if horizontal {
			label = c.Measure.Truncate(g.Label, c.Width*0.35, c.FontSize)
			c.Label(area.X-8, bandStart+band/2+c.FontSize*0.35, label, c.FontSize, c.Theme.Text, "end")
		} else {
			c.Label(bandStart+band/2, area.Bottom()+c.FontSize+4, label, c.FontSize, c.Theme.Text, "middle")
		}

		for j, v := range g.Values {
			col := c.Palette.At(j)
			if nseries == 1 {
				col = c.Palette.At(i)
				if g.Color != "" {
					col = g.Color
				}
			}
			paint := col
			if gradient {
				paint = c.Gradient(col, !horizontal)
			}

			id := c.NewID("bar")
			offset := bandStart + pad + barW*float64(j)
			if horizontal {
				x0 := valueX(s, area, base)
				x1 := valueX(s, area, clamp(v, s.NiceMin, s.NiceMax))
				x, width := math.Min(x0, x1), math.Abs(x1-x0)
				c.Rect(px(x), px(offset), px(width), px(barW), `id="`+id+`"`, fill(paint))
				c.Grow(id, "width", 0, px(width))
				if v < base {
					c.Grow(id, "x", px(x0), px(x))
				}
				if showValues {
					tx, anchor := x+width+4, "start"
					if v < base {
						tx, anchor = x-4, "end"
					}
					c.Label(tx, offset+barW/2+c.FontSize*0.35, formatValue(v), c.FontSize*0.9, c.Theme.Muted, anchor)
				}
				continue
			}

			y0 := valueY(s, area, base)
			y1 := valueY(s, area, clamp(v, s.NiceMin, s.NiceMax))
			y, height := math.Min(y0, y1), math.Abs(y1-y0)
			c.Rect(px(offset), px(y), px(barW), px(height), `id="`+id+`"`, fill(paint))
			c.Grow(id, "height", 0, px(height))
			if v >= base {
				c.Grow(id, "y", px(y0), px(y))
			}
			if showValues {
				ty := y - 4
				if v < base {
					ty = y + height + c.FontSize
				}
				c.Label(offset+barW/2, ty, formatValue(v), c.FontSize*0.9, c.Theme.Muted, "middle")
			}
		}
	}
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
