package render

import (
	"io"
	"math"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
)

const (
	defaultBoxWidth  = 160.0
	defaultBoxHeight = 56.0
	treeHGap         = 24.0
	treeVGap         = 40.0
)

type treeMaker struct{}

type treeNode struct {
	Name       string
	ParentName string
	Subtitle   string
	Color      string
	Parent     *treeNode
	Children   []*treeNode
	Depth      int
	// X is the centre of the box; Y is its top.
	X float64
	Y float64
}

func init() {
	Register(treeMaker{})
}

func (treeMaker) Kind() string { return "tree" }

func (treeMaker) Description() string {
	return "Tree or org chart; rows are name|parent[|subtitle][|color]"
}

func (treeMaker) Example() string {
	return `title=Engineering
---
Ada Lovelace||CTO
Grace Hopper|Ada Lovelace|Platform
Alan Turing|Ada Lovelace|Research
Linus|Grace Hopper|Kernel team
Ken|Grace Hopper|Tooling
Barbara|Alan Turing|Algorithms|#59a14f
`
}

// buildForest links rows into trees. The first row of a name wins; rows with
// an empty or unknown parent become roots.
func buildForest(rows []chart.Row) ([]*treeNode, error) {
	seen := mapset.NewSet()
	byName := map[string]*treeNode{}
	var nodes []*treeNode
	for _, row := range rows {
		name := row.Cell(0)
		if name == "" || !seen.Add(name) {
			continue
		}
		n := &treeNode{
			Name:       name,
			ParentName: row.Cell(1),
			Subtitle:   row.Cell(2),
		}
		if c, ok := color.Normalize(row.Cell(3)); ok {
			n.Color = c
		}
		nodes = append(nodes, n)
		byName[name] = n
	}

	var roots []*treeNode
	for _, n := range nodes {
		parent, ok := byName[n.ParentName]
		if n.ParentName == "" || !ok {
			roots = append(roots, n)
			continue
		}
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}

	// every node has one parent, so the nodes a walk from the roots misses
	// are exactly those on or below a cycle.
	reached := mapset.NewThreadUnsafeSet()
	stack := append([]*treeNode(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached.Add(n)
		stack = append(stack, n.Children...)
	}
	if reached.Cardinality() < len(nodes) {
		for _, n := range nodes {
			if !reached.Contains(n) {
				return nil, errors.Wrapf(chart.ErrCycle, "node %q", n.Name)
			}
		}
	}
	return roots, nil
}

// layoutForest assigns consecutive slots to leaves and centres every parent
// over its children. It returns the number of slots and levels used.
func layoutForest(roots []*treeNode, slotW, levelH float64) (int, int) {
	next := 0
	levels := 0
	var place func(n *treeNode, depth int)
	place = func(n *treeNode, depth int) {
		n.Depth = depth
		n.Y = float64(depth) * levelH
		if depth+1 > levels {
			levels = depth + 1
		}
		if len(n.Children) == 0 {
			n.X = float64(next)*slotW + slotW/2
			next++
			return
		}
		for _, child := range n.Children {
			place(child, depth+1)
		}
		first, last := n.Children[0], n.Children[len(n.Children)-1]
		n.X = (first.X + last.X) / 2
	}
	for _, root := range roots {
		place(root, 0)
	}
	return next, levels
}

func walkTree(roots []*treeNode, fn func(n *treeNode)) {
	for _, n := range roots {
		fn(n)
		walkTree(n.Children, fn)
	}
}

func (m treeMaker) Render(w io.Writer, doc *chart.Document) error {
	roots, err := buildForest(doc.Rows)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return chart.ErrNoData
	}

	c := NewCanvas(w, doc, m.Kind())
	o := c.Opts
	boxW := math.Max(40, o.Float("box_width", defaultBoxWidth))
	boxH := math.Max(20, o.Float("box_height", defaultBoxHeight))
	slotW := boxW + treeHGap
	levelH := boxH + treeVGap

	slots, levels := layoutForest(roots, slotW, levelH)
	contentW := float64(slots)*slotW - treeHGap
	contentH := float64(levels)*levelH - treeVGap
	width := math.Max(contentW+2*margin, c.HeaderWidth())
	top := c.HeaderHeight()
	c.FitContent(width, top+contentH+margin)

	offsetX := (c.Width-contentW)/2 - treeHGap/2
	c.Start()
	top = c.Header()

	// connectors first so boxes paint over them
	c.Gid(c.NewID("links"))
	walkTree(roots, func(n *treeNode) {
		if n.Parent == nil {
			return
		}
		px0, py0 := offsetX+n.Parent.X, top+n.Parent.Y+boxH
		px1, py1 := offsetX+n.X, top+n.Y
		midY := (py0 + py1) / 2
		c.Path("M "+num(px0)+" "+num(py0)+" V "+num(midY)+" H "+num(px1)+" V "+num(py1),
			`fill="none"`, stroke(c.Theme.Axis, 1.5))
	})
	c.Gend()

	shadow := c.Shadow()
	nameSize := c.FontSize
	subSize := c.FontSize * 0.9
	walkTree(roots, func(n *treeNode) {
		col := n.Color
		if col == "" {
			col = c.Palette.At(n.Depth)
		}
		x := offsetX + n.X - boxW/2
		y := top + n.Y
		id := c.NewID("node")
		c.Gid(id)
		c.Roundrect(px(x), px(y), px(boxW), px(boxH), 8, 8, fill(col), `filter="`+shadow+`"`)

		lines := c.Measure.Wrap(n.Name, boxW-12, nameSize)
		if len(lines) > 2 {
			lines = append(lines[:1], c.Measure.Truncate(lines[1]+" "+lines[2], boxW-12, nameSize))
		}
		textCol := color.Contrast(col)
		if n.Subtitle == "" {
			c.Lines(x+boxW/2, y+boxH/2, lines, nameSize, textCol, "middle", `font-weight="bold"`)
		} else {
			sub := c.Measure.Truncate(n.Subtitle, boxW-12, subSize)
			blockH := float64(len(lines))*nameSize*1.25 + subSize*1.25
			nameCY := y + boxH/2 - blockH/2 + float64(len(lines))*nameSize*1.25/2
			c.Lines(x+boxW/2, nameCY, lines, nameSize, textCol, "middle", `font-weight="bold"`)
			c.Label(x+boxW/2, y+boxH/2+blockH/2-subSize*0.3, sub, subSize, textCol, "middle", `opacity="0.85"`)
		}
		c.Gend()
		c.FadeIn(id, float64(n.Depth)*0.2)
	})

	c.End()
	return nil
}
