package color

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// a small set of CSS colour names accepted verbatim.
var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"red":       "#ff0000",
	"green":     "#008000",
	"blue":      "#0000ff",
	"yellow":    "#ffff00",
	"orange":    "#ffa500",
	"purple":    "#800080",
	"gray":      "#808080",
	"grey":      "#808080",
	"silver":    "#c0c0c0",
	"navy":      "#000080",
	"teal":      "#008080",
	"maroon":    "#800000",
	"olive":     "#808000",
	"lime":      "#00ff00",
	"aqua":      "#00ffff",
	"fuchsia":   "#ff00ff",
	"pink":      "#ffc0cb",
	"brown":     "#a52a2a",
	"gold":      "#ffd700",
	"indigo":    "#4b0082",
	"crimson":   "#dc143c",
	"coral":     "#ff7f50",
	"tomato":    "#ff6347",
	"steelblue": "#4682b4",
	"slategray": "#708090",
}

// Normalize returns s as a lower-case #rrggbb string. Only hex colours and
// a fixed set of names are accepted.
func Normalize(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		return hex, true
	}
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	h := m[1]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return "#" + h, true
}

func Valid(s string) bool {
	_, ok := Normalize(s)
	return ok
}

// RGB decodes a colour accepted by Normalize. Invalid input yields black.
func RGB(s string) [3]int {
	hex, ok := Normalize(s)
	if !ok {
		return [3]int{0, 0, 0}
	}
	v, _ := strconv.ParseUint(hex[1:], 16, 32)
	return [3]int{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

func colorStr(rgb [3]int) string {
	for i := range rgb {
		if rgb[i] < 0 {
			rgb[i] = 0
		} else if rgb[i] > 255 {
			rgb[i] = 255
		}
	}
	return fmt.Sprintf("#%02x%02x%02x",
		rgb[0], rgb[1], rgb[2])
}

// Lighten mixes the colour with white. 0 <= amount <= 1
func Lighten(s string, amount float64) string {
	return mix(RGB(s), [3]int{255, 255, 255}, amount)
}

// Darken mixes the colour with black. 0 <= amount <= 1
func Darken(s string, amount float64) string {
	return mix(RGB(s), [3]int{0, 0, 0}, amount)
}

func mix(a, b [3]int, amount float64) string {
	amount = math.Max(0, math.Min(1, amount))
	var out [3]int
	for i := range out {
		out[i] = int(math.Round(float64(a[i]) + (float64(b[i])-float64(a[i]))*amount))
	}
	return colorStr(out)
}

// Luminance returns the WCAG relative luminance of the colour.
func Luminance(s string) float64 {
	rgb := RGB(s)
	var lin [3]float64
	for i, c := range rgb {
		v := float64(c) / 255
		if v <= 0.03928 {
			lin[i] = v / 12.92
		} else {
			lin[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
	return 0.2126*lin[0] + 0.7152*lin[1] + 0.0722*lin[2]
}

// Contrast returns a text colour readable on top of s.
func Contrast(s string) string {
	if Luminance(s) > 0.4 {
		return "#1f2328"
	}
	return "#ffffff"
}
