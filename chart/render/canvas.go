package render

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/chart/textutil"
	"github.com/yuuki0xff/svgchart/info"
)

const (
	margin          = 16.0
	defaultFontSize = 12.0
	minFontSize     = 6.0
	maxFontSize     = 48.0
	animationDur    = 0.8
)

var idPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

type Theme struct {
	Background string
	Text       string
	Muted      string
	Grid       string
	Axis       string
	Surface    string
	Border     string
}

var (
	lightTheme = Theme{
		Background: "#ffffff",
		Text:       "#1f2328",
		Muted:      "#656d76",
		Grid:       "#e6e8eb",
		Axis:       "#8c959f",
		Surface:    "#f6f8fa",
		Border:     "#d0d7de",
	}
	darkTheme = Theme{
		Background: "#0d1117",
		Text:       "#e6edf3",
		Muted:      "#8d96a0",
		Grid:       "#30363d",
		Axis:       "#6e7681",
		Surface:    "#161b22",
		Border:     "#30363d",
	}
)

// Canvas wraps an svgo canvas with the options shared by every maker.
// Layout code works in Width x Height user units; the emitted width and
// height attributes may differ when a maker sizes its own view box.
type Canvas struct {
	*svg.SVG
	Opts     chart.Options
	// Explicit holds only the options written in the document.
	Explicit chart.Options
	Width    float64
	Height   float64
	Theme    Theme
	Palette  color.Palette
	FontSize float64
	Animate  bool
	Measure  *textutil.Measurer

	outW      int
	outH      int
	prefix    string
	ids       int
	gradients map[string]string
	shadow    string
	arrows    map[string]string
}

func NewCanvas(w io.Writer, doc *chart.Document, kind string) *Canvas {
	o := doc.Options()
	theme := lightTheme
	if o.Bool("dark", false) {
		theme = darkTheme
	}
	theme.Background = o.Color("background", theme.Background)

	fontSize := o.Float("font_size", defaultFontSize)
	fontSize = math.Max(minFontSize, math.Min(maxFontSize, fontSize))

	prefix := idPattern.ReplaceAllString(o.String("id", kind), "")
	if prefix == "" {
		prefix = kind
	}

	width := o.Size("width", info.DefaultWidth)
	height := o.Size("height", info.DefaultHeight)
	return &Canvas{
		SVG:       svg.New(w),
		Opts:      o,
		Explicit:  doc.Config,
		Width:     float64(width),
		Height:    float64(height),
		Theme:     theme,
		Palette:   color.Custom(o.List("colors"), color.Named(o.String("palette", info.DefaultPalette))),
		FontSize:  fontSize,
		Animate:   o.Bool("animate", false),
		Measure:   textutil.Default(),
		outW:      width,
		outH:      height,
		prefix:    prefix,
		gradients: map[string]string{},
		arrows:    map[string]string{},
	}
}

// FitContent sets the view box to the content size. The output size follows
// the content unless width or height were given explicitly.
func (c *Canvas) FitContent(w, h float64) {
	c.Width = math.Ceil(w)
	c.Height = math.Ceil(h)
	if !c.Explicit.Has("width") {
		c.outW = int(c.Width)
	}
	if !c.Explicit.Has("height") {
		c.outH = int(c.Height)
	}
}

// Start writes the svg root, the accessible title and the background.
func (c *Canvas) Start() {
	c.SVG.Start(c.outW, c.outH,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, int(c.Width), int(c.Height)),
		`font-family="Helvetica, Arial, sans-serif"`,
	)
	if title := c.Opts.String("title", ""); title != "" {
		c.Title(title)
	}
	c.Rect(0, 0, int(c.Width), int(c.Height), fmt.Sprintf(`fill="%s"`, c.Theme.Background))
}

func (c *Canvas) End() {
	c.SVG.End()
}

// NewID returns a document unique element id.
func (c *Canvas) NewID(name string) string {
	c.ids++
	return fmt.Sprintf("%s-%s-%d", c.prefix, name, c.ids)
}

// HeaderHeight returns the y coordinate Header would return.
func (c *Canvas) HeaderHeight() float64 {
	y := margin
	if c.Opts.String("title", "") != "" {
		y += c.FontSize * 1.9
	}
	if c.Opts.String("subtitle", "") != "" {
		y += c.FontSize * 1.2
	}
	return y + margin/2
}

// HeaderWidth returns the width needed by the title and subtitle.
func (c *Canvas) HeaderWidth() float64 {
	w := c.Measure.Width(c.Opts.String("title", ""), c.FontSize*1.5, true)
	if sw := c.Measure.Width(c.Opts.String("subtitle", ""), c.FontSize, false); sw > w {
		w = sw
	}
	return w + 2*margin
}

// Header draws the title and subtitle. It returns the y coordinate where
// the content area starts.
func (c *Canvas) Header() float64 {
	y := margin
	if title := c.Opts.String("title", ""); title != "" {
		size := c.FontSize * 1.5
		title = c.Measure.Truncate(title, c.Width-2*margin, size)
		y += size
		c.Text(px(c.Width/2), px(y), title,
			`text-anchor="middle"`, fontSize(size), `font-weight="bold"`, fill(c.Theme.Text))
		y += size * 0.4
	}
	if subtitle := c.Opts.String("subtitle", ""); subtitle != "" {
		subtitle = c.Measure.Truncate(subtitle, c.Width-2*margin, c.FontSize)
		y += c.FontSize * 1.2
		c.Text(px(c.Width/2), px(y), subtitle,
			`text-anchor="middle"`, fontSize(c.FontSize), fill(c.Theme.Muted))
	}
	return y + margin/2
}

// Label draws a single line of text.
func (c *Canvas) Label(x, y float64, s string, size float64, color, anchor string, extra ...string) {
	attrs := append([]string{fontSize(size), fill(color), `text-anchor="` + anchor + `"`}, extra...)
	c.Text(px(x), px(y), s, attrs...)
}

// Lines draws pre-wrapped lines centered vertically around cy.
func (c *Canvas) Lines(x, cy float64, lines []string, size float64, color, anchor string, extra ...string) {
	lh := textutil.LineHeight(size)
	top := cy - lh*float64(len(lines))/2 + size*0.8
	for i, line := range lines {
		c.Label(x, top+lh*float64(i), line, size, color, anchor, extra...)
	}
}

// Gradient returns a fill reference for a gradient based on base.
func (c *Canvas) Gradient(base string, vertical bool) string {
	key := fmt.Sprintf("%s/%t", base, vertical)
	if ref, ok := c.gradients[key]; ok {
		return ref
	}
	id := c.NewID("grad")
	var x2, y2 uint8 = 100, 0
	if vertical {
		x2, y2 = 0, 100
	}
	c.Def()
	c.LinearGradient(id, 0, 0, x2, y2, []svg.Offcolor{
		{Offset: 0, Color: color.Lighten(base, 0.25), Opacity: 1},
		{Offset: 100, Color: color.Darken(base, 0.1), Opacity: 1},
	})
	c.DefEnd()
	ref := "url(#" + id + ")"
	c.gradients[key] = ref
	return ref
}

// Shadow returns a filter reference for a soft drop shadow.
func (c *Canvas) Shadow() string {
	if c.shadow == "" {
		id := c.NewID("shadow")
		fmt.Fprintf(c.Writer, `<defs><filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+
			`<feDropShadow dx="0" dy="1" stdDeviation="1.5" flood-color="#000000" flood-opacity="0.25"/>`+
			"</filter></defs>\n", id)
		c.shadow = "url(#" + id + ")"
	}
	return c.shadow
}

// Arrow returns a marker reference for an arrowhead in the given colour.
func (c *Canvas) Arrow(col string) string {
	if ref, ok := c.arrows[col]; ok {
		return ref
	}
	id := c.NewID("arrow")
	fmt.Fprintf(c.Writer, `<defs><marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" `+
		`markerWidth="7" markerHeight="7" orient="auto-start-reverse">`+
		`<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker></defs>`+"\n", id, col)
	ref := "url(#" + id + ")"
	c.arrows[col] = ref
	return ref
}

// FadeIn animates the opacity of the element with the given id.
func (c *Canvas) FadeIn(id string, delay float64) {
	if !c.Animate {
		return
	}
	c.SVG.Animate("#"+id, "opacity", 0, 1, animationDur, 1,
		fmt.Sprintf(`begin="%ss"`, num(delay)), `fill="freeze"`)
}

// Grow animates attr of the element with the given id from from to to.
func (c *Canvas) Grow(id, attr string, from, to int) {
	if !c.Animate {
		return
	}
	c.SVG.Animate("#"+id, attr, from, to, animationDur, 1, `fill="freeze"`)
}

// Area is a rectangle in user units.
type Area struct {
	X, Y, W, H float64
}

func (a Area) Right() float64  { return a.X + a.W }
func (a Area) Bottom() float64 { return a.Y + a.H }

type point struct {
	X, Y float64
}

func px(f float64) int {
	return int(math.Round(f))
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func fill(c string) string {
	return `fill="` + c + `"`
}

func stroke(c string, width float64) string {
	return fmt.Sprintf(`stroke="%s" stroke-width="%s"`, c, num(width))
}

func fontSize(size float64) string {
	return `font-size="` + num(size) + `"`
}

// formatValue prints a data value without float noise.
func formatValue(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if math.Abs(r) < 1e4 {
		return s
	}
	// group thousands of the integer part
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
