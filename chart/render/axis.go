package render

import (
	"fmt"

	"github.com/yuuki0xff/svgchart/chart/scale"
)

// tickLabelWidth returns the width of the widest tick label.
func (c *Canvas) tickLabelWidth(s scale.NiceScale) float64 {
	max := 0.0
	for _, t := range s.Ticks() {
		if w := c.Measure.Width(s.Label(t), c.FontSize, false); w > max {
			max = w
		}
	}
	return max
}

// valueY maps v to a y coordinate inside area.
func valueY(s scale.NiceScale, area Area, v float64) float64 {
	return area.Bottom() - s.Scale(v, area.H)
}

// valueX maps v to an x coordinate inside area.
func valueX(s scale.NiceScale, area Area, v float64) float64 {
	return area.X + s.Scale(v, area.W)
}

// baseline returns the zero value clamped into the scale range.
func baseline(s scale.NiceScale) float64 {
	if s.NiceMin > 0 {
		return s.NiceMin
	}
	if s.NiceMax < 0 {
		return s.NiceMax
	}
	return 0
}

// HorizontalGrid draws one grid line and label per tick along the y axis.
func (c *Canvas) HorizontalGrid(s scale.NiceScale, area Area) {
	c.Gid(c.NewID("grid"))
	for _, t := range s.Ticks() {
		y := valueY(s, area, t)
		c.Line(px(area.X), px(y), px(area.Right()), px(y), stroke(c.Theme.Grid, 1))
		c.Label(area.X-6, y+c.FontSize*0.35, s.Label(t), c.FontSize, c.Theme.Muted, "end")
	}
	zero := valueY(s, area, baseline(s))
	c.Line(px(area.X), px(zero), px(area.Right()), px(zero), stroke(c.Theme.Axis, 1))
	c.Gend()
}

// VerticalGrid draws one grid line and label per tick along the x axis.
func (c *Canvas) VerticalGrid(s scale.NiceScale, area Area) {
	c.Gid(c.NewID("grid"))
	for _, t := range s.Ticks() {
		x := valueX(s, area, t)
		c.Line(px(x), px(area.Y), px(x), px(area.Bottom()), stroke(c.Theme.Grid, 1))
		c.Label(x, area.Bottom()+c.FontSize+4, s.Label(t), c.FontSize, c.Theme.Muted, "middle")
	}
	zero := valueX(s, area, baseline(s))
	c.Line(px(zero), px(area.Y), px(zero), px(area.Bottom()), stroke(c.Theme.Axis, 1))
	c.Gend()
}

// plotFrame is the area left for a cartesian plot after the header,
// axis titles and legend took their space.
type plotFrame struct {
	Area    Area
	XLabelY float64
	LegendY float64
}

// frame reserves space around the plot. leftReserve is the width of the
// labels left of the plot, bottomReserve the height of the labels below it.
func (c *Canvas) frame(top, leftReserve, bottomReserve float64, legend []legendItem) plotFrame {
	var f plotFrame
	bottom := c.Height - margin
	if h := c.LegendHeight(legend, c.Width-2*margin); h > 0 {
		bottom -= h + margin/2
		f.LegendY = bottom + margin/2
	}
	if c.Opts.String("x_label", "") != "" {
		xLabelH := c.FontSize + 6
		f.XLabelY = bottom - 2
		bottom -= xLabelH
	}
	left := margin + leftReserve + 8
	if c.Opts.String("y_label", "") != "" {
		left += c.FontSize + 6
	}
	f.Area = Area{
		X: left,
		Y: top,
		W: c.Width - margin - left,
		H: bottom - top - bottomReserve,
	}
	return f
}

// axisTitles draws the x and y axis titles of a frame.
func (c *Canvas) axisTitles(f plotFrame) {
	if xLabel := c.Opts.String("x_label", ""); xLabel != "" {
		c.Label(f.Area.X+f.Area.W/2, f.XLabelY, xLabel, c.FontSize, c.Theme.Muted, "middle")
	}
	if yLabel := c.Opts.String("y_label", ""); yLabel != "" {
		x := margin + c.FontSize*0.8
		y := f.Area.Y + f.Area.H/2
		c.Label(x, y, yLabel, c.FontSize, c.Theme.Muted, "middle",
			fmt.Sprintf(`transform="rotate(-90 %s %s)"`, num(x), num(y)))
	}
}
