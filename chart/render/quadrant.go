package render

import (
	"fmt"
	"io"

	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
)

type quadrantMaker struct{}

type quadrantPoint struct {
	Label string
	X, Y  float64
	Color string
}

func init() {
	Register(quadrantMaker{})
}

func (quadrantMaker) Kind() string { return "quadrant" }

func (quadrantMaker) Description() string {
	return "Two-by-two matrix; rows are label|x|y[|color] with x and y in 0..100"
}

func (quadrantMaker) Example() string {
	return `title=Feature prioritisation
x_label=Effort
y_label=Impact
x_low=low
x_high=high
y_low=low
y_high=high
q1=Major projects
q2=Quick wins
q3=Fill-ins
q4=Thankless tasks
---
Dark mode|25|40
SSO|70|85
Export to PDF|40|70
Offline sync|85|60
Emoji picker|15|15|#e15759
`
}

// parseQuadrantPoints reads label|x|y[|color] rows, clamping x and y to 0..100.
func parseQuadrantPoints(rows []chart.Row) []quadrantPoint {
	var pts []quadrantPoint
	for _, row := range rows {
		if len(row) < 3 || !chart.IsNumber(row.Cell(1)) || !chart.IsNumber(row.Cell(2)) {
			continue
		}
		p := quadrantPoint{
			Label: row.Cell(0),
			X:     clamp(row.Number(1), 0, 100),
			Y:     clamp(row.Number(2), 0, 100),
		}
		if col, ok := color.Normalize(row.Cell(3)); ok {
			p.Color = col
		}
		pts = append(pts, p)
	}
	return pts
}

func (m quadrantMaker) Render(w io.Writer, doc *chart.Document) error {
	pts := parseQuadrantPoints(doc.Rows)
	if len(pts) == 0 {
		return chart.ErrNoData
	}

	c := NewCanvas(w, doc, m.Kind())
	o := c.Opts
	c.Start()
	top := c.Header()

	leftReserve := 0.0
	if o.Has("y_low") || o.Has("y_high") {
		leftReserve = c.FontSize + 4
	}
	f := c.frame(top, leftReserve, c.FontSize+8, nil)
	area := f.Area
	if area.W <= 0 || area.H <= 0 {
		c.End()
		return nil
	}
	halfW, halfH := area.W/2, area.H/2
	midX, midY := area.X+halfW, area.Y+halfH

	// q1 is top-right and the rest follow counter-clockwise
	quads := []struct {
		key  string
		x, y float64
	}{
		{"q1", midX, area.Y},
		{"q2", area.X, area.Y},
		{"q3", area.X, midY},
		{"q4", midX, midY},
	}
	c.Gid(c.NewID("quadrants"))
	for i, q := range quads {
		c.Rect(px(q.x), px(q.y), px(halfW), px(halfH), fill(c.Palette.At(i)), `fill-opacity="0.08"`)
		if title := o.String(q.key, ""); title != "" {
			title = c.Measure.Truncate(title, halfW-16, c.FontSize*1.1)
			c.Label(q.x+halfW/2, q.y+c.FontSize*1.1+8, title, c.FontSize*1.1, c.Theme.Muted, "middle",
				`font-weight="bold"`)
		}
	}
	c.Rect(px(area.X), px(area.Y), px(area.W), px(area.H), `fill="none"`, stroke(c.Theme.Border, 1))
	c.Line(px(midX), px(area.Y), px(midX), px(area.Bottom()), stroke(c.Theme.Axis, 1))
	c.Line(px(area.X), px(midY), px(area.Right()), px(midY), stroke(c.Theme.Axis, 1))
	c.Gend()

	below := area.Bottom() + c.FontSize + 4
	if s := o.String("x_low", ""); s != "" {
		c.Label(area.X, below, s, c.FontSize, c.Theme.Muted, "start")
	}
	if s := o.String("x_high", ""); s != "" {
		c.Label(area.Right(), below, s, c.FontSize, c.Theme.Muted, "end")
	}
	lx := area.X - 8
	if s := o.String("y_low", ""); s != "" {
		c.Label(lx, area.Bottom(), s, c.FontSize, c.Theme.Muted, "start",
			fmt.Sprintf(`transform="rotate(-90 %s %s)"`, num(lx), num(area.Bottom())))
	}
	if s := o.String("y_high", ""); s != "" {
		c.Label(lx, area.Y, s, c.FontSize, c.Theme.Muted, "end",
			fmt.Sprintf(`transform="rotate(-90 %s %s)"`, num(lx), num(area.Y)))
	}

	for i, p := range pts {
		col := p.Color
		if col == "" {
			col = c.Palette.At(i)
		}
		x := area.X + p.X/100*area.W
		y := area.Bottom() - p.Y/100*area.H
		id := c.NewID("point")
		c.Gid(id)
		c.Circle(px(x), px(y), 6, fill(col), stroke(c.Theme.Background, 1.5))
		if p.Label != "" {
			label := c.Measure.Truncate(p.Label, halfW-12, c.FontSize)
			if p.X > 75 {
				c.Label(x-10, y+c.FontSize*0.35, label, c.FontSize, c.Theme.Text, "end")
			} else {
				c.Label(x+10, y+c.FontSize*0.35, label, c.FontSize, c.Theme.Text, "start")
			}
		}
		c.Gend()
		c.FadeIn(id, float64(i)*0.1)
	}

	c.axisTitles(f)
	c.End()
	return nil
}
