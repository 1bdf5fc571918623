package render

import (
	"fmt"
)

const (
	legendSwatch = 10.0
	legendGap    = 6.0
	legendSpace  = 18.0

	// line height of a vertical legend relative to the font size
	legendLineFactor = 1.6
)

type legendItem struct {
	Label string
	Color string
}

// legendLayout flows items left to right, wrapping at maxWidth. It returns
// the top-left corner of every item relative to the legend origin and the
// total height.
func (c *Canvas) legendLayout(items []legendItem, maxWidth float64) ([]point, float64) {
	if len(items) == 0 {
		return nil, 0
	}
	lineH := c.FontSize * 1.5
	var pos []point
	x, y := 0.0, 0.0
	for _, item := range items {
		w := c.legendItemWidth(item, maxWidth)
		if x > 0 && x+w > maxWidth {
			x = 0
			y += lineH
		}
		pos = append(pos, point{x, y})
		x += w + legendSpace
	}
	return pos, y + lineH
}

func (c *Canvas) legendItemWidth(item legendItem, maxWidth float64) float64 {
	w := legendSwatch + legendGap + c.Measure.Width(item.Label, c.FontSize, false)
	if w > maxWidth {
		return maxWidth
	}
	return w
}

// LegendHeight returns the height Legend would use.
func (c *Canvas) LegendHeight(items []legendItem, maxWidth float64) float64 {
	_, h := c.legendLayout(items, maxWidth)
	return h
}

// Legend draws a horizontal legend centred in [x, x+maxWidth].
func (c *Canvas) Legend(items []legendItem, x, y, maxWidth float64) float64 {
	pos, h := c.legendLayout(items, maxWidth)
	if len(pos) == 0 {
		return 0
	}

	// centre every line independently
	lineWidth := map[float64]float64{}
	for i, p := range pos {
		right := p.X + c.legendItemWidth(items[i], maxWidth)
		if right > lineWidth[p.Y] {
			lineWidth[p.Y] = right
		}
	}

	c.Gid(c.NewID("legend"))
	for i, item := range items {
		offset := (maxWidth - lineWidth[pos[i].Y]) / 2
		ix := x + offset + pos[i].X
		iy := y + pos[i].Y
		c.Roundrect(px(ix), px(iy), px(legendSwatch), px(legendSwatch), 2, 2, fill(item.Color))
		label := c.Measure.Truncate(item.Label, maxWidth-legendSwatch-legendGap, c.FontSize)
		c.Label(ix+legendSwatch+legendGap, iy+legendSwatch-1, label, c.FontSize, c.Theme.Text, "start")
	}
	c.Gend()
	return h
}

// VerticalLegend draws one item per line and returns its size.
func (c *Canvas) VerticalLegend(items []legendItem, x, y, maxWidth float64) (float64, float64) {
	lineH := c.FontSize * legendLineFactor
	width := 0.0
	c.Gid(c.NewID("legend"))
	for i, item := range items {
		iy := y + float64(i)*lineH
		c.Roundrect(px(x), px(iy), px(legendSwatch), px(legendSwatch), 2, 2, fill(item.Color))
		label := c.Measure.Truncate(item.Label, maxWidth-legendSwatch-legendGap, c.FontSize)
		c.Label(x+legendSwatch+legendGap, iy+legendSwatch-1, label, c.FontSize, c.Theme.Text, "start")
		if w := legendSwatch + legendGap + c.Measure.Width(label, c.FontSize, false); w > width {
			width = w
		}
	}
	c.Gend()
	return width, float64(len(items)) * lineH
}

func seriesName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("Series %d", i+1)
}
