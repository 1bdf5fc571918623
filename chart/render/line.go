package render

import (
	"io"
	"strings"

	"github.com/yuuki0xff/svgchart/chart"
)

type lineMaker struct{}

func init() {
	Register(lineMaker{})
}

func (lineMaker) Kind() string { return "line" }

func (lineMaker) Description() string {
	return "Multi-series line chart with optional smoothing and area fill"
}

func (lineMaker) Example() string {
	return `title=Active users
series=Web,Mobile
smooth=true
area=true
y_label=users
---
Jan|1200|800
Feb|1350|950
Mar|1280|1210
Apr|1500|1400
May|1720|1650
Jun|1690|1900
`
}

func (m lineMaker) Render(w io.Writer, doc *chart.Document) error {
	groups, nseries := parseSeries(doc.Rows)
	if len(groups) == 0 || nseries == 0 {
		return chart.ErrNoData
	}

	c := NewCanvas(w, doc, m.Kind())
	o := c.Opts
	names := o.List("series")
	s := valueScale(o, groups, false)

	c.Start()
	top := c.Header()

	var legend []legendItem
	if o.Bool("legend", nseries > 1) {
		for j := 0; j < nseries; j++ {
			legend = append(legend, legendItem{seriesName(names, j), c.Palette.At(j)})
		}
	}
	f := c.frame(top, c.tickLabelWidth(s), c.FontSize+8, legend)
	if f.Area.W <= 0 || f.Area.H <= 0 {
		c.End()
		return nil
	}
	area := f.Area
	c.HorizontalGrid(s, area)

	band := area.W / float64(len(groups))
	xs := make([]float64, len(groups))
	for i, g := range groups {
		xs[i] = area.X + band*(float64(i)+0.5)
		label := c.Measure.Truncate(g.Label, band-4, c.FontSize)
		c.Label(xs[i], area.Bottom()+c.FontSize+4, label, c.FontSize, c.Theme.Text, "middle")
	}

	smooth := o.Bool("smooth", false)
	showArea := o.Bool("area", false)
	showPoints := o.Bool("points", true)
	for j := 0; j < nseries; j++ {
		col := c.Palette.At(j)
		pts := make([]point, len(groups))
		for i, g := range groups {
			pts[i] = point{xs[i], valueY(s, area, clamp(g.Values[j], s.NiceMin, s.NiceMax))}
		}

		id := c.NewID("series")
		c.Gid(id)
		if len(pts) > 1 {
			d := linePath(pts, smooth)
			if showArea {
				base := valueY(s, area, baseline(s))
				c.Path(areaPath(d, pts, base), fill(col), `fill-opacity="0.15"`, `stroke="none"`)
			}
			c.Path(d, `fill="none"`, stroke(col, 2.5), `stroke-linejoin="round"`, `stroke-linecap="round"`)
		}
		if showPoints || len(pts) == 1 {
			for _, p := range pts {
				c.Circle(px(p.X), px(p.Y), 4, fill(col), stroke(c.Theme.Background, 1.5))
			}
		}
		c.Gend()
		c.FadeIn(id, float64(j)*0.2)
	}

	c.axisTitles(f)
	if len(legend) > 0 {
		c.Legend(legend, margin, f.LegendY, c.Width-2*margin)
	}
	c.End()
	return nil
}

// linePath returns the path through pts. With smooth set, segments become
// cubic Bézier curves derived from a Catmull-Rom spline.
func linePath(pts []point, smooth bool) string {
	var b strings.Builder
	b.WriteString("M " + num(pts[0].X) + " " + num(pts[0].Y))
	for i := 1; i < len(pts); i++ {
		p1, p2 := pts[i-1], pts[i]
		if !smooth {
			b.WriteString(" L " + num(p2.X) + " " + num(p2.Y))
			continue
		}
		p0 := p1
		if i > 1 {
			p0 = pts[i-2]
		}
		p3 := p2
		if i+1 < len(pts) {
			p3 = pts[i+1]
		}
		c1 := point{p1.X + (p2.X-p0.X)/6, p1.Y + (p2.Y-p0.Y)/6}
		c2 := point{p2.X - (p3.X-p1.X)/6, p2.Y - (p3.Y-p1.Y)/6}
		b.WriteString(" C " + num(c1.X) + " " + num(c1.Y) +
			", " + num(c2.X) + " " + num(c2.Y) +
			", " + num(p2.X) + " " + num(p2.Y))
	}
	return b.String()
}

// areaPath closes a line path down to the baseline.
func areaPath(d string, pts []point, base float64) string {
	last, first := pts[len(pts)-1], pts[0]
	return d + " L " + num(last.X) + " " + num(base) + " L " + num(first.X) + " " + num(base) + " Z"
}
