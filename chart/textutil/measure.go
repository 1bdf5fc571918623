// Package textutil estimates rendered text widths and wraps labels.
package textutil

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font faces are created at this size and scaled linearly.
const baseSize = 100

// Measurer estimates the width of text rendered in a sans-serif font.
// It is safe for concurrent use.
type Measurer struct {
	m       sync.Mutex
	regular font.Face
	bold    font.Face
}

var (
	defaultMeasurer     *Measurer
	defaultMeasurerOnce sync.Once
)

// Default returns a shared Measurer.
func Default() *Measurer {
	defaultMeasurerOnce.Do(func() {
		m, err := NewMeasurer()
		if err != nil {
			// the embedded fonts are always valid.
			panic(err)
		}
		defaultMeasurer = m
	})
	return defaultMeasurer
}

func NewMeasurer() (*Measurer, error) {
	regular, err := newFace(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := newFace(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &Measurer{
		regular: regular,
		bold:    bold,
	}, nil
}

func newFace(ttf []byte) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    baseSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Width returns the advance width of s in pixels at the given font size.
func (m *Measurer) Width(s string, size float64, bold bool) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	face := m.regular
	if bold {
		face = m.bold
	}
	m.m.Lock()
	adv := font.MeasureString(face, s)
	m.m.Unlock()
	return float64(adv) / 64 * size / baseSize
}

// Wrap breaks s into lines no wider than maxWidth. Words wider than
// maxWidth are split between runes.
func (m *Measurer) Wrap(s string, maxWidth, size float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := ""
	for _, word := range words {
		if m.Width(word, size, false) > maxWidth {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			parts := m.splitWord(word, maxWidth, size)
			lines = append(lines, parts[:len(parts)-1]...)
			line = parts[len(parts)-1]
			continue
		}

		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.Width(candidate, size, false) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func (m *Measurer) splitWord(word string, maxWidth, size float64) []string {
	var parts []string
	current := []rune{}
	for _, r := range word {
		next := append(current, r)
		if len(current) > 0 && m.Width(string(next), size, false) > maxWidth {
			parts = append(parts, string(current))
			current = []rune{r}
			continue
		}
		current = next
	}
	return append(parts, string(current))
}

// Truncate shortens s with an ellipsis so that it fits into maxWidth.
func (m *Measurer) Truncate(s string, maxWidth, size float64) string {
	if m.Width(s, size, false) <= maxWidth {
		return s
	}
	const ellipsis = "…"
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + ellipsis
		if m.Width(candidate, size, false) <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

// LineHeight is the distance between baselines of consecutive lines.
func LineHeight(size float64) float64 {
	return math.Round(size*1.25*100) / 100
}
