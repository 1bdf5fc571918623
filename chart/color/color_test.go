package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	a := assert.New(t)
	for in, want := range map[string]string{
		"#ABC":     "#aabbcc",
		"abcdef":   "#abcdef",
		" #123456": "#123456",
		"Red":      "#ff0000",
	} {
		got, ok := Normalize(in)
		a.True(ok, in)
		a.Equal(want, got, in)
	}
	for _, in := range []string{"", "#12", "#1234567", `red" onload="x`, "url(#x)"} {
		_, ok := Normalize(in)
		a.False(ok, in)
	}
}

func TestRGB(t *testing.T) {
	a := assert.New(t)
	a.Equal([3]int{0x4e, 0x79, 0xa7}, RGB("#4e79a7"))
	a.Equal([3]int{0, 0, 0}, RGB("bogus"))
}

func TestLightenDarken(t *testing.T) {
	a := assert.New(t)
	a.Equal("#ffffff", Lighten("#000000", 1))
	a.Equal("#000000", Darken("#ffffff", 1))
	a.Equal("#808080", Lighten("#000000", 0.5))
	a.Equal("#4e79a7", Lighten("#4e79a7", 0))
}

func TestContrast(t *testing.T) {
	a := assert.New(t)
	a.Equal("#ffffff", Contrast("#000000"))
	a.Equal("#1f2328", Contrast("#ffffff"))
	a.Equal("#1f2328", Contrast("#ffff00"))
}

func TestGenerate(t *testing.T) {
	a := assert.New(t)
	p := Generate(6, 1, 1)
	a.Equal(Palette{"#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff", "#ff00ff"}, p)
	a.Len(Generate(0, 0.5, 0.5), 0)
	a.Panics(func() {
		Generate(-1, 0.5, 0.5)
	})
}

func TestPalette(t *testing.T) {
	a := assert.New(t)
	p := Palette{"#000000", "#ffffff"}
	a.Equal("#000000", p.At(0))
	a.Equal("#ffffff", p.At(3))
	a.Equal(p.ByLabel("north"), p.ByLabel("north"))
	a.Equal("#808080", Palette{}.At(1))

	a.Equal(Named("default"), Named("no-such-palette"))
	a.Len(Named("rainbow"), rainbowColors)
	a.Contains(Names(), "ocean")

	a.Equal(Palette{"#aabbcc"}, Custom([]string{"bad", "#abc"}, p))
	a.Equal(p, Custom([]string{"bad"}, p))
}
