package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
)

const (
	// slices smaller than this fraction get no inner label.
	minLabelFraction = 0.03
	fullCircle       = 0.999999
)

type pieMaker struct{}

type slice struct {
	Label string
	Value float64
	Color string
	// angles in radians, clockwise from 12 o'clock
	Start float64
	End   float64
}

func init() {
	Register(pieMaker{})
}

func (pieMaker) Kind() string { return "pie" }

func (pieMaker) Description() string {
	return "Pie or donut chart"
}

func (pieMaker) Example() string {
	return `title=Market share
donut=true
center_label=units
---
Alpha|420
Beta|310
Gamma|180
Delta|90
Other|40
`
}

// parseSlices keeps rows with a positive value and computes their angles.
func parseSlices(rows []chart.Row, sorted bool) ([]slice, float64) {
	var slices []slice
	total := 0.0
	for _, row := range rows {
		v := row.Number(1)
		if len(row) < 2 || v <= 0 {
			continue
		}
		s := slice{Label: row[0], Value: v}
		if c, ok := color.Normalize(row.Cell(2)); ok {
			s.Color = c
		}
		slices = append(slices, s)
		total += v
	}
	if sorted {
		sort.SliceStable(slices, func(i, j int) bool {
			return slices[i].Value > slices[j].Value
		})
	}
	angle := 0.0
	for i := range slices {
		slices[i].Start = angle
		angle += slices[i].Value / total * 2 * math.Pi
		slices[i].End = angle
	}
	if len(slices) > 0 {
		slices[len(slices)-1].End = 2 * math.Pi
	}
	return slices, total
}

// polar converts an angle measured clockwise from 12 o'clock.
func polar(cx, cy, r, angle float64) point {
	return point{cx + r*math.Sin(angle), cy - r*math.Cos(angle)}
}

// slicePath returns the outline of a slice. inner > 0 yields a ring segment.
func slicePath(cx, cy, r, inner, start, end float64) string {
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	p0 := polar(cx, cy, r, start)
	p1 := polar(cx, cy, r, end)
	if inner <= 0 {
		return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
			num(cx), num(cy), num(p0.X), num(p0.Y), num(r), num(r), large, num(p1.X), num(p1.Y))
	}
	q1 := polar(cx, cy, inner, end)
	q0 := polar(cx, cy, inner, start)
	return fmt.Sprintf("M %s %s A %s %s 0 %d 1 %s %s L %s %s A %s %s 0 %d 0 %s %s Z",
		num(p0.X), num(p0.Y), num(r), num(r), large, num(p1.X), num(p1.Y),
		num(q1.X), num(q1.Y), num(inner), num(inner), large, num(q0.X), num(q0.Y))
}

// ringPath returns a full circle, or a full ring when inner > 0.
func ringPath(cx, cy, r, inner float64) string {
	d := fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
		num(cx-r), num(cy), num(r), num(r), num(cx+r), num(cy), num(r), num(r), num(cx-r), num(cy))
	if inner > 0 {
		d += fmt.Sprintf(" M %s %s A %s %s 0 1 0 %s %s A %s %s 0 1 0 %s %s Z",
			num(cx-inner), num(cy), num(inner), num(inner), num(cx+inner), num(cy),
			num(inner), num(inner), num(cx-inner), num(cy))
	}
	return d
}

func percent(v, total float64) string {
	return strconv.FormatFloat(math.Round(v/total*1000)/10, 'f', -1, 64) + "%"
}

func (m pieMaker) Render(w io.Writer, doc *chart.Document) error {
	slices, total := parseSlices(doc.Rows, doc.Options().Bool("sort", false))
	if len(slices) == 0 {
		return chart.ErrNoData
	}

	c := NewCanvas(w, doc, m.Kind())
	o := c.Opts
	for i := range slices {
		if slices[i].Color == "" {
			slices[i].Color = c.Palette.At(i)
		}
	}

	c.Start()
	top := c.Header()

	legend := make([]legendItem, len(slices))
	legendW := 0.0
	for i, s := range slices {
		legend[i] = legendItem{
			Label: fmt.Sprintf("%s  %s (%s)", s.Label, formatValue(s.Value), percent(s.Value, total)),
			Color: s.Color,
		}
		legendW = math.Max(legendW, legendSwatch+legendGap+c.Measure.Width(legend[i].Label, c.FontSize, false))
	}
	showLegend := o.Bool("legend", true)

	area := Area{X: margin, Y: top, W: c.Width - 2*margin, H: c.Height - top - margin}
	legendBelow := false
	if showLegend {
		if legendW <= area.W*0.45 {
			area.W -= legendW + margin
		} else {
			legendBelow = true
			area.H -= c.LegendHeight(legend, c.Width-2*margin) + margin/2
		}
	}
	r := math.Min(area.W, area.H)/2 - 4
	if r <= 0 {
		c.End()
		return nil
	}
	cx, cy := area.X+area.W/2, area.Y+area.H/2

	inner := 0.0
	if o.Bool("donut", false) {
		inner = r * clamp(o.Float("inner_radius", 0.6), 0.1, 0.9)
	}

	c.Gid(c.NewID("slices"))
	for i, s := range slices {
		id := c.NewID("slice")
		paint := s.Color
		if o.Bool("gradient", false) {
			paint = c.Gradient(s.Color, true)
		}
		d := slicePath(cx, cy, r, inner, s.Start, s.End)
		attrs := []string{`id="` + id + `"`, fill(paint), stroke(c.Theme.Background, 1.5)}
		if s.End-s.Start >= 2*math.Pi*fullCircle {
			d = ringPath(cx, cy, r, inner)
			attrs = append(attrs, `fill-rule="evenodd"`)
		}
		c.Path(d, attrs...)
		c.FadeIn(id, float64(i)*0.1)
	}
	c.Gend()

	if o.Bool("show_percent", true) {
		labelR := r * 0.65
		if inner > 0 {
			labelR = (r + inner) / 2
		}
		for _, s := range slices {
			if s.Value/total < minLabelFraction {
				continue
			}
			p := polar(cx, cy, labelR, (s.Start+s.End)/2)
			if s.End-s.Start >= 2*math.Pi*fullCircle && inner <= 0 {
				p = point{cx, cy}
			}
			c.Label(p.X, p.Y+c.FontSize*0.35, percent(s.Value, total), c.FontSize, color.Contrast(s.Color), "middle",
				`font-weight="bold"`)
		}
	}

	if inner > 0 {
		c.Label(cx, cy+c.FontSize*0.5, formatValue(total), c.FontSize*2, c.Theme.Text, "middle", `font-weight="bold"`)
		if label := o.String("center_label", ""); label != "" {
			label = c.Measure.Truncate(label, inner*1.6, c.FontSize)
			c.Label(cx, cy+c.FontSize*2, label, c.FontSize, c.Theme.Muted, "middle")
		}
	}

	if showLegend {
		if legendBelow {
			c.Legend(legend, margin, area.Bottom()+margin/2, c.Width-2*margin)
		} else {
			h := float64(len(legend)) * c.FontSize * legendLineFactor
			c.VerticalLegend(legend, area.Right()+margin, cy-h/2, legendW)
		}
	}
	c.End()
	return nil
}
