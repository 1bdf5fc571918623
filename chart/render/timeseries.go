package render

import (
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/chart/scale"
	"github.com/yuuki0xff/svgchart/info"
)

const dateLayout = "2006-01-02"

type timeseriesMaker struct{}

type datedRow struct {
	Time   time.Time
	Values []string
}

func init() {
	Register(timeseriesMaker{})
}

func (timeseriesMaker) Kind() string { return "timeseries" }

func (timeseriesMaker) Description() string {
	return "Values over calendar time; rows are date|v1[|v2...]"
}

func (timeseriesMaker) Example() string {
	return `title=Daily signups
series=Organic,Paid
y_label=signups
---
2024-03-01|120|40
2024-03-02|132|38
2024-03-03|101|52
2024-03-04|154|61
2024-03-05|149|70
2024-03-06|170|66
2024-03-07|188|74
`
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseDatedRows skips rows with an unparsable date and sorts the rest.
func parseDatedRows(rows []chart.Row) []datedRow {
	var out []datedRow
	for _, row := range rows {
		t, ok := parseDate(row.Cell(0))
		if !ok || len(row) < 2 {
			continue
		}
		out = append(out, datedRow{Time: t, Values: row[1:]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func goColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

func (m timeseriesMaker) Render(w io.Writer, doc *chart.Document) error {
	rows := parseDatedRows(doc.Rows)
	if len(rows) < 2 || rows[0].Time.Equal(rows[len(rows)-1].Time) {
		return errors.Wrap(chart.ErrNoData, "timeseries needs at least two distinct dates")
	}

	o := doc.Options()
	palette := color.Custom(o.List("colors"), color.Named(o.String("palette", info.DefaultPalette)))
	names := o.List("series")
	theme := lightTheme
	if o.Bool("dark", false) {
		theme = darkTheme
	}
	bg := o.Color("background", theme.Background)

	nseries := 0
	for _, r := range rows {
		if len(r.Values) > nseries {
			nseries = len(r.Values)
		}
	}

	min, max := math.Inf(1), math.Inf(-1)
	var list []gochart.Series
	for j := 0; j < nseries; j++ {
		ts := gochart.TimeSeries{
			Name: seriesName(names, j),
			Style: gochart.Style{
				StrokeColor: goColor(palette.At(j)),
				StrokeWidth: 2.5,
			},
		}
		for _, r := range rows {
			if j >= len(r.Values) || !chart.IsNumber(r.Values[j]) {
				continue
			}
			v := chart.ParseNumber(r.Values[j])
			ts.XValues = append(ts.XValues, r.Time)
			ts.YValues = append(ts.YValues, v)
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
		if len(ts.XValues) > 0 {
			list = append(list, ts)
		}
	}
	if len(list) == 0 {
		return errors.Wrap(chart.ErrNoData, "no numeric values")
	}

	s := scale.New(o.Float("min", min), o.Float("max", max), o.Int("ticks", scale.DefaultMaxTicks))
	var ticks []gochart.Tick
	for _, t := range s.Ticks() {
		ticks = append(ticks, gochart.Tick{Value: t, Label: s.Label(t)})
	}

	fontSize := math.Max(minFontSize, math.Min(maxFontSize, o.Float("font_size", defaultFontSize)))
	axisStyle := gochart.Style{
		FontColor:   goColor(theme.Muted),
		StrokeColor: goColor(theme.Axis),
		FontSize:    fontSize,
	}
	graph := gochart.Chart{
		Title:      o.String("title", ""),
		TitleStyle: gochart.Style{FontColor: goColor(theme.Text), FontSize: fontSize * 1.5},
		Width:      o.Size("width", info.DefaultWidth),
		Height:     o.Size("height", info.DefaultHeight),
		Background: gochart.Style{
			FillColor: goColor(bg),
			Padding:   gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: goColor(bg)},
		XAxis: gochart.XAxis{
			Name:           o.String("x_label", ""),
			NameStyle:      axisStyle,
			Style:          axisStyle,
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name:      o.String("y_label", ""),
			NameStyle: axisStyle,
			Style:     axisStyle,
			Range:     &gochart.ContinuousRange{Min: s.NiceMin, Max: s.NiceMax},
			Ticks:     ticks,
			GridMajorStyle: gochart.Style{
				StrokeColor: goColor(theme.Grid),
				StrokeWidth: 1,
			},
		},
		Series: list,
	}
	if o.Bool("legend", len(list) > 1) {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return errors.Wrap(graph.Render(gochart.SVG, w), "render timeseries")
}
