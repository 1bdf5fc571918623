package render

import (
	"io"
	"math"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
)

const (
	connectorMainGap  = 64.0
	connectorCrossGap = 20.0
)

type connectorMaker struct{}

type edge struct {
	From  string
	To    string
	Label string
}

// graph keeps nodes in first-appearance order.
type graph struct {
	Nodes []string
	Edges []edge
}

func init() {
	Register(connectorMaker{})
}

func (connectorMaker) Kind() string { return "connector" }

func (connectorMaker) Description() string {
	return "Boxes joined by arrows; rows are from|to[|label]"
}

func (connectorMaker) Example() string {
	return `title=Release pipeline
box_width=120
---
Commit|Build
Build|Unit tests
Build|Lint
Unit tests|Package|pass
Lint|Package
Package|Deploy staging
Deploy staging|Deploy production|approved
Deploy staging|Build|rollback
`
}

func parseGraph(rows []chart.Row) graph {
	var g graph
	seen := mapset.NewSet()
	addNode := func(name string) {
		if seen.Add(name) {
			g.Nodes = append(g.Nodes, name)
		}
	}
	for _, row := range rows {
		from, to := row.Cell(0), row.Cell(1)
		switch {
		case from == "" && to == "":
			continue
		case from == "" || to == "":
			if from == "" {
				from = to
			}
			addNode(from)
		default:
			addNode(from)
			addNode(to)
			g.Edges = append(g.Edges, edge{From: from, To: to, Label: row.Cell(2)})
		}
	}
	return g
}

// backEdges returns the indexes of edges that close a cycle during a depth
// first search started from every node in order.
func backEdges(g graph) mapset.Set {
	out := map[string][]int{}
	for i, e := range g.Edges {
		out[e.From] = append(out[e.From], i)
	}
	const (
		white = iota
		grey
		black
	)
	state := map[string]int{}
	back := mapset.NewSet()
	var visit func(n string)
	visit = func(n string) {
		state[n] = grey
		for _, i := range out[n] {
			switch state[g.Edges[i].To] {
			case grey:
				back.Add(i)
			case white:
				visit(g.Edges[i].To)
			}
		}
		state[n] = black
	}
	for _, n := range g.Nodes {
		if state[n] == white {
			visit(n)
		}
	}
	return back
}

// layerNodes assigns every node the length of the longest path reaching it
// from a source, ignoring back edges. It returns the layers in order.
func layerNodes(g graph) ([][]string, mapset.Set) {
	back := backEdges(g)
	indeg := map[string]int{}
	out := map[string][]string{}
	for i, e := range g.Edges {
		if back.Contains(i) {
			continue
		}
		indeg[e.To]++
		out[e.From] = append(out[e.From], e.To)
	}

	layer := map[string]int{}
	var queue []string
	for _, n := range g.Nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, to := range out[n] {
			if layer[n]+1 > layer[to] {
				layer[to] = layer[n] + 1
			}
			indeg[to]--
			if indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	var layers [][]string
	for _, n := range g.Nodes {
		l := layer[n]
		for len(layers) <= l {
			layers = append(layers, nil)
		}
		layers[l] = append(layers[l], n)
	}
	return layers, back
}

func (m connectorMaker) Render(w io.Writer, doc *chart.Document) error {
	g := parseGraph(doc.Rows)
	if len(g.Nodes) == 0 {
		return chart.ErrNoData
	}
	layers, back := layerNodes(g)

	c := NewCanvas(w, doc, m.Kind())
	o := c.Opts
	boxW := math.Max(40, o.Float("box_width", defaultBoxWidth))
	boxH := math.Max(20, o.Float("box_height", defaultBoxHeight*0.8))
	vertical := strings.EqualFold(strings.TrimSpace(o.String("direction", "lr")), "tb")

	maxCount := 0
	for _, l := range layers {
		if len(l) > maxCount {
			maxCount = len(l)
		}
	}
	mainBox, crossBox := boxW, boxH
	if vertical {
		mainBox, crossBox = boxH, boxW
	}
	mainLen := float64(len(layers))*(mainBox+connectorMainGap) - connectorMainGap
	crossLen := float64(maxCount)*(crossBox+connectorCrossGap) - connectorCrossGap
	contentW, contentH := mainLen, crossLen
	if vertical {
		contentW, contentH = crossLen, mainLen
	}

	top := c.HeaderHeight()
	width := math.Max(contentW+2*margin, c.HeaderWidth())
	c.FitContent(width, top+contentH+margin)
	left := (c.Width - contentW) / 2

	// top-left corner of every box
	pos := map[string]point{}
	for li, l := range layers {
		offset := (crossLen - (float64(len(l))*(crossBox+connectorCrossGap) - connectorCrossGap)) / 2
		for i, n := range l {
			mainPos := float64(li) * (mainBox + connectorMainGap)
			crossPos := offset + float64(i)*(crossBox+connectorCrossGap)
			if vertical {
				pos[n] = point{left + crossPos, top + mainPos}
			} else {
				pos[n] = point{left + mainPos, top + crossPos}
			}
		}
	}

	c.Start()
	c.Header()

	arrow := c.Arrow(c.Theme.Axis)
	c.Gid(c.NewID("edges"))
	for i, e := range g.Edges {
		from, to := pos[e.From], pos[e.To]
		var p0, p3, c1, c2 point
		if e.From == e.To {
			// self loop above or left of the box
			if vertical {
				p0 = point{from.X, from.Y + boxH*0.3}
				p3 = point{from.X, from.Y + boxH*0.7}
				c1 = point{p0.X - 40, p0.Y - 10}
				c2 = point{p3.X - 40, p3.Y + 10}
			} else {
				p0 = point{from.X + boxW*0.3, from.Y}
				p3 = point{from.X + boxW*0.7, from.Y}
				c1 = point{p0.X - 10, p0.Y - 40}
				c2 = point{p3.X + 10, p3.Y - 40}
			}
		} else if vertical {
			p0 = point{from.X + boxW/2, from.Y + boxH}
			p3 = point{to.X + boxW/2, to.Y}
			d := math.Max(math.Abs(p3.Y-p0.Y)/2, 40)
			c1 = point{p0.X, p0.Y + d}
			c2 = point{p3.X, p3.Y - d}
		} else {
			p0 = point{from.X + boxW, from.Y + boxH/2}
			p3 = point{to.X, to.Y + boxH/2}
			d := math.Max(math.Abs(p3.X-p0.X)/2, 40)
			c1 = point{p0.X + d, p0.Y}
			c2 = point{p3.X - d, p3.Y}
		}
		attrs := []string{`fill="none"`, stroke(c.Theme.Axis, 1.5), `marker-end="` + arrow + `"`}
		if back.Contains(i) {
			attrs = append(attrs, `stroke-dasharray="5 4"`)
		}
		c.Path("M "+num(p0.X)+" "+num(p0.Y)+
			" C "+num(c1.X)+" "+num(c1.Y)+", "+num(c2.X)+" "+num(c2.Y)+", "+num(p3.X)+" "+num(p3.Y),
			attrs...)

		if e.Label != "" {
			mid := bezierMid(p0, c1, c2, p3)
			size := c.FontSize * 0.9
			label := c.Measure.Truncate(e.Label, connectorMainGap*2, size)
			lw := c.Measure.Width(label, size, false) + 8
			c.Roundrect(px(mid.X-lw/2), px(mid.Y-size*0.8), px(lw), px(size*1.6), 3, 3,
				fill(c.Theme.Surface), stroke(c.Theme.Border, 1))
			c.Label(mid.X, mid.Y+size*0.35, label, size, c.Theme.Muted, "middle")
		}
	}
	c.Gend()

	shadow := c.Shadow()
	for li, l := range layers {
		for _, n := range l {
			p := pos[n]
			col := c.Palette.At(li)
			id := c.NewID("node")
			c.Gid(id)
			c.Roundrect(px(p.X), px(p.Y), px(boxW), px(boxH), 6, 6, fill(col), `filter="`+shadow+`"`)
			lines := c.Measure.Wrap(n, boxW-12, c.FontSize)
			maxLines := int(math.Max(1, math.Floor((boxH-8)/(c.FontSize*1.25))))
			if len(lines) > maxLines {
				lines = lines[:maxLines]
				lines[maxLines-1] = c.Measure.Truncate(lines[maxLines-1]+"…", boxW-12, c.FontSize)
			}
			c.Lines(p.X+boxW/2, p.Y+boxH/2, lines, c.FontSize, color.Contrast(col), "middle")
			c.Gend()
			c.FadeIn(id, float64(li)*0.15)
		}
	}

	c.End()
	return nil
}

// bezierMid returns the point of a cubic Bézier curve at t=0.5.
func bezierMid(p0, c1, c2, p3 point) point {
	return point{
		X: (p0.X + 3*c1.X + 3*c2.X + p3.X) / 8,
		Y: (p0.Y + 3*c1.Y + 3*c2.Y + p3.Y) / 8,
	}
}
