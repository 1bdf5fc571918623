package render

import (
	"bytes"
	"encoding/xml"
	"html/template"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/info"
)

const (
	minPNGScale = 0.1
	maxPNGScale = 4.0
	// maxPNGPixels bounds the raster buffer (4 bytes per pixel).
	maxPNGPixels = chart.MaxCanvasSize * chart.MaxCanvasSize
)

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body{margin:0;padding:16px;background:{{.Background}}}</style>
</head>
<body>
{{.SVG}}
</body>
</html>
`))

// Render draws doc with the maker registered for kind and writes it to w in
// the requested format.
func Render(w io.Writer, kind string, format chart.Format, doc *chart.Document) error {
	m, ok := Lookup(kind)
	if !ok {
		return errors.Wrapf(chart.ErrUnknownKind, "%q", kind)
	}
	if format == chart.FormatSVG {
		return m.Render(w, doc)
	}

	var buf bytes.Buffer
	if err := m.Render(&buf, doc); err != nil {
		return err
	}
	switch format {
	case chart.FormatHTML:
		return writeHTML(w, doc, buf.Bytes())
	case chart.FormatPNG:
		return writePNG(w, doc, buf.Bytes())
	default:
		return errors.Wrapf(chart.ErrUnknownFormat, "%q", format)
	}
}

// stripProlog removes the XML declaration, which is not allowed inside HTML.
func stripProlog(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if !bytes.HasPrefix(b, []byte("<?xml")) {
		return b
	}
	if i := bytes.Index(b, []byte("?>")); i >= 0 {
		return bytes.TrimSpace(b[i+2:])
	}
	return b
}

func writeHTML(w io.Writer, doc *chart.Document, svgData []byte) error {
	o := doc.Options()
	title := o.String("title", info.AppName)
	background := lightTheme.Background
	if o.Bool("dark", false) {
		background = darkTheme.Background
	}
	err := htmlPage.Execute(w, struct {
		Title      string
		Background string
		SVG        template.HTML
	}{
		Title:      title,
		Background: o.Color("background", background),
		SVG:        template.HTML(stripProlog(svgData)),
	})
	return errors.Wrap(err, "write html")
}

// rootSize returns the width and height attributes of the root element.
// Zero is returned for a missing or non-numeric attribute.
func rootSize(svgData []byte) (w, h float64) {
	dec := xml.NewDecoder(bytes.NewReader(svgData))
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range se.Attr {
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(attr.Value), "px"), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				continue
			}
			switch attr.Name.Local {
			case "width":
				w = v
			case "height":
				h = v
			}
		}
		return w, h
	}
}

// writePNG rasterises the svg at the size of its root element. Text elements
// are not drawn.
func writePNG(w io.Writer, doc *chart.Document, svgData []byte) error {
	o := doc.Options()
	outW, outH := rootSize(svgData)
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return errors.Wrap(err, "parse svg for rasterisation")
	}
	if outW <= 0 || outH <= 0 {
		outW, outH = icon.ViewBox.W, icon.ViewBox.H
	}
	if outW <= 0 || outH <= 0 {
		outW = float64(o.Size("width", info.DefaultWidth))
		outH = float64(o.Size("height", info.DefaultHeight))
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		icon.ViewBox.W, icon.ViewBox.H = outW, outH
	}

	s := clamp(o.Float("scale", 1), minPNGScale, maxPNGScale)
	fw := math.Max(1, math.Round(outW*s))
	fh := math.Max(1, math.Round(outH*s))
	if fw*fh > maxPNGPixels {
		return errors.Wrapf(chart.ErrInvalidInput, "png of %.0fx%.0f pixels is larger than %d pixels", fw, fh, maxPNGPixels)
	}
	width, height := int(fw), int(fh)
	icon.SetTarget(0, 0, fw, fh)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return errors.Wrap(png.Encode(w, img), "encode png")
}
