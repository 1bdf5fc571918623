package color

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"
)

type Palette []string

// At returns the i-th colour, wrapping around.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return "#808080"
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// ByLabel picks a stable colour for a label.
func (p Palette) ByLabel(label string) string {
	h := fnv.New64()
	if _, err := h.Write([]byte(label)); err != nil {
		panic(err)
	}
	if len(p) == 0 {
		return "#808080"
	}
	return p[h.Sum64()%uint64(len(p))]
}

const rainbowColors = 12

var palettes = map[string]Palette{
	"default": {"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac"},
	"pastel":  {"#a1c9f4", "#ffb482", "#8de5a1", "#ff9f9b", "#d0bbff", "#debb9b", "#fab0e4", "#cfcfcf", "#fffea3", "#b9f2f0"},
	"vivid":   {"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe"},
	"ocean":   {"#03045e", "#023e8a", "#0077b6", "#0096c7", "#00b4d8", "#48cae4", "#90e0ef", "#ade8f4"},
	"sunset":  {"#f94144", "#f3722c", "#f8961e", "#f9844a", "#f9c74f", "#90be6d", "#43aa8b", "#577590"},
	"mono":    {"#212529", "#343a40", "#495057", "#6c757d", "#adb5bd", "#ced4da"},
	"rainbow": Generate(rainbowColors, 0.6, 0.85),
}

// Named returns the palette with the given name, or the default palette.
func Named(name string) Palette {
	if p, ok := palettes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return palettes["default"]
}

// Names returns all palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Custom builds a palette from user supplied colours. Invalid entries are
// dropped; if nothing remains the fallback is returned.
func Custom(colors []string, fallback Palette) Palette {
	var p Palette
	for _, c := range colors {
		if hex, ok := Normalize(c); ok {
			p = append(p, hex)
		}
	}
	if len(p) == 0 {
		return fallback
	}
	return p
}

// Generate returns ncolors evenly spaced hues.
func Generate(ncolors int, s, v float64) Palette {
	if ncolors < 0 {
		panic("ncolors must not be negative")
	}

	colors := make(Palette, ncolors)
	for i := range colors {
		h := float64(i) / float64(ncolors)
		colors[i] = colorStr(hsv2rgb(h, s, v))
	}
	return colors
}

// convert color space from HSV to RGB
// 0.0 <= h,s,v <= 1.0
// 0 <= return_value <= 255
func hsv2rgb(h, s, v float64) [3]int {
	hh := 360 * h / 60
	sector := int(hh) % 6
	c := v * s
	x := c * (1 - math.Abs(math.Mod(hh, 2)-1))
	convertTable := [][3]float64{
		{c, x, 0},
		{x, c, 0},
		{0, c, x},
		{0, x, c},
		{x, 0, c},
		{c, 0, x},
	}

	rgb := convertTable[sector]
	m := v - c
	return [3]int{
		int(math.Round(255 * (m + rgb[0]))), // R
		int(math.Round(255 * (m + rgb[1]))), // G
		int(math.Round(255 * (m + rgb[2]))), // B
	}
}
