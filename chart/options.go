package chart

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yuuki0xff/svgchart/chart/color"
)

const (
	MinCanvasSize = 50
	MaxCanvasSize = 4000
)

// Options holds the config block of a document. Keys are lower-case.
// Unparsable values fall back to the caller's default.
type Options map[string]string

func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o Options) Has(key string) bool {
	_, ok := o[normalizeKey(key)]
	return ok
}

func (o Options) String(key, def string) string {
	v, ok := o[normalizeKey(key)]
	if !ok || v == "" {
		return def
	}
	return v
}

func (o Options) Int(key string, def int) int {
	v, ok := o[normalizeKey(key)]
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def
		}
		return int(math.Round(f))
	}
	return i
}

func (o Options) Float(key string, def float64) float64 {
	v, ok := o[normalizeKey(key)]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func (o Options) Bool(key string, def bool) bool {
	v, ok := o[normalizeKey(key)]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}

// List splits a comma separated value. Empty items are dropped.
func (o Options) List(key string) []string {
	v, ok := o[normalizeKey(key)]
	if !ok {
		return nil
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Color returns a normalized colour or def when the value is not a safe colour.
func (o Options) Color(key, def string) string {
	v, ok := o[normalizeKey(key)]
	if !ok {
		return def
	}
	if c, ok := color.Normalize(v); ok {
		return c
	}
	return def
}

// Size returns a canvas dimension clamped to [MinCanvasSize, MaxCanvasSize].
func (o Options) Size(key string, def int) int {
	v := o.Int(key, def)
	if v < MinCanvasSize {
		return MinCanvasSize
	}
	if v > MaxCanvasSize {
		return MaxCanvasSize
	}
	return v
}

// ParseNumber parses a data cell. Thousands separators and a trailing percent
// sign are accepted. Anything else unparsable becomes 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// IsNumber reports whether the cell holds a parsable number.
func IsNumber(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}
