package render

import (
	"io"
	"math"

	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/chart/textutil"
)

const (
	placematGap     = 14.0
	placematPadding = 10.0
	pillPadding     = 8.0
	pillGap         = 6.0
)

type placematMaker struct{}

type placematItem struct {
	Text  string
	Color string
}

type placematGroup struct {
	Name  string
	Items []placematItem
}

func init() {
	Register(placematMaker{})
}

func (placematMaker) Kind() string { return "placemat" }

func (placematMaker) Description() string {
	return "Cards of grouped items; rows are group|item[|color]"
}

func (placematMaker) Example() string {
	return `title=Team skills
columns=3
---
Backend|Go
Backend|PostgreSQL
Backend|gRPC and REST API design
Frontend|TypeScript
Frontend|React
Operations|Kubernetes
Operations|Terraform
Operations|On-call rotation|#e15759
Data|Spark
Data|dbt
`
}

// parseGroups keeps groups and their items in first-appearance order.
func parseGroups(rows []chart.Row) []placematGroup {
	var groups []placematGroup
	index := map[string]int{}
	for _, row := range rows {
		name := row.Cell(0)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, placematGroup{Name: name})
		}
		text := row.Cell(1)
		if text == "" {
			continue
		}
		item := placematItem{Text: text}
		if col, ok := color.Normalize(row.Cell(2)); ok {
			item.Color = col
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// placematColumns returns the column count, defaulting to ceil(sqrt(n)).
func placematColumns(o chart.Options, n int) int {
	cols := o.Int("columns", int(math.Ceil(math.Sqrt(float64(n)))))
	if cols < 1 {
		cols = 1
	}
	if cols > n {
		cols = n
	}
	return cols
}

func (m placematMaker) Render(w io.Writer, doc *chart.Document) error {
	groups := parseGroups(doc.Rows)
	if len(groups) == 0 {
		return chart.ErrNoData
	}

	c := NewCanvas(w, doc, m.Kind())
	cols := placematColumns(c.Opts, len(groups))
	cardW := (c.Width - 2*margin - float64(cols-1)*placematGap) / float64(cols)
	headerH := c.FontSize * 2.2
	lh := textutil.LineHeight(c.FontSize)
	textW := cardW - 2*placematPadding - 2*pillPadding

	// wrap everything first so the canvas height is known before drawing
	wrapped := make([][][]string, len(groups))
	cardH := make([]float64, len(groups))
	for gi, g := range groups {
		h := headerH + placematPadding
		for _, item := range g.Items {
			lines := c.Measure.Wrap(item.Text, textW, c.FontSize)
			wrapped[gi] = append(wrapped[gi], lines)
			h += float64(len(lines))*lh + pillPadding + pillGap
		}
		cardH[gi] = h - pillGap + placematPadding
	}
	nrows := (len(groups) + cols - 1) / cols
	rowH := make([]float64, nrows)
	for gi, h := range cardH {
		r := gi / cols
		rowH[r] = math.Max(rowH[r], h)
	}

	top := c.HeaderHeight()
	total := top + margin
	for _, h := range rowH {
		total += h + placematGap
	}
	c.FitContent(c.Width, total-placematGap)

	c.Start()
	y := c.Header()
	shadow := c.Shadow()
	for r := 0; r < nrows; r++ {
		for col := 0; col < cols; col++ {
			gi := r*cols + col
			if gi >= len(groups) {
				break
			}
			g := groups[gi]
			x := margin + float64(col)*(cardW+placematGap)
			gc := c.Palette.ByLabel(g.Name)
			id := c.NewID("group")
			c.Gid(id)
			c.Roundrect(px(x), px(y), px(cardW), px(rowH[r]), 8, 8,
				fill(c.Theme.Surface), stroke(c.Theme.Border, 1), `filter="`+shadow+`"`)
			c.Roundrect(px(x), px(y), px(cardW), px(headerH), 8, 8, fill(gc))
			// square off the bottom corners of the header band
			c.Rect(px(x), px(y+headerH-8), px(cardW), 8, fill(gc))
			name := c.Measure.Truncate(g.Name, cardW-2*placematPadding, c.FontSize*1.1)
			c.Label(x+cardW/2, y+headerH/2+c.FontSize*0.4, name, c.FontSize*1.1, color.Contrast(gc), "middle",
				`font-weight="bold"`)

			iy := y + headerH + placematPadding
			for ii, item := range g.Items {
				lines := wrapped[gi][ii]
				pillH := float64(len(lines))*lh + pillPadding
				pc := item.Color
				if pc == "" {
					pc = color.Lighten(gc, 0.7)
				}
				c.Roundrect(px(x+placematPadding), px(iy), px(cardW-2*placematPadding), px(pillH), 10, 10, fill(pc))
				c.Lines(x+cardW/2, iy+pillH/2, lines, c.FontSize, color.Contrast(pc), "middle")
				iy += pillH + pillGap
			}
			c.Gend()
			c.FadeIn(id, float64(gi)*0.1)
		}
		y += rowH[r] + placematGap
	}
	c.End()
	return nil
}
