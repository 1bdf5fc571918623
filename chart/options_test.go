package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	o := Options{
		"title":  "Hello",
		"empty":  "",
		"width":  "640",
		"height": "480.6",
		"bad":    "abc",
		"ratio":  "0.25",
		"nan":    "NaN",
		"yes":    "Yes",
		"off":    "off",
		"series": " a, ,b ,c",
		"fill":   "#ABC",
		"evil":   `red" onload="alert(1)`,
		"huge":   "100000",
		"tiny":   "1",
	}
	t.Run("string", func(t *testing.T) {
		a := assert.New(t)
		a.Equal("Hello", o.String("TITLE", "x"))
		a.Equal("x", o.String("empty", "x"))
		a.Equal("x", o.String("missing", "x"))
	})
	t.Run("int", func(t *testing.T) {
		a := assert.New(t)
		a.Equal(640, o.Int("width", 1))
		a.Equal(481, o.Int("height", 1))
		a.Equal(7, o.Int("bad", 7))
		a.Equal(7, o.Int("nan", 7))
		a.Equal(7, o.Int("missing", 7))
	})
	t.Run("float", func(t *testing.T) {
		a := assert.New(t)
		a.Equal(0.25, o.Float("ratio", 1))
		a.Equal(1.0, o.Float("bad", 1))
		a.Equal(1.0, o.Float("nan", 1))
	})
	t.Run("bool", func(t *testing.T) {
		a := assert.New(t)
		a.True(o.Bool("yes", false))
		a.False(o.Bool("off", true))
		a.True(o.Bool("bad", true))
		a.False(o.Bool("missing", false))
	})
	t.Run("list", func(t *testing.T) {
		a := assert.New(t)
		a.Equal([]string{"a", "b", "c"}, o.List("series"))
		a.Nil(o.List("missing"))
	})
	t.Run("color", func(t *testing.T) {
		a := assert.New(t)
		a.Equal("#aabbcc", o.Color("fill", "#000000"))
		a.Equal("#000000", o.Color("evil", "#000000"))
		a.Equal("#000000", o.Color("missing", "#000000"))
	})
	t.Run("size", func(t *testing.T) {
		a := assert.New(t)
		a.Equal(MaxCanvasSize, o.Size("huge", 800))
		a.Equal(MinCanvasSize, o.Size("tiny", 800))
		a.Equal(800, o.Size("missing", 800))
	})
	t.Run("keys", func(t *testing.T) {
		a := assert.New(t)
		keys := o.Keys()
		a.Len(keys, len(o))
		a.Equal("bad", keys[0])
		a.True(o.Has("Title"))
		a.False(o.Has("missing"))
	})
}

func TestParseNumber(t *testing.T) {
	a := assert.New(t)
	for in, want := range map[string]float64{
		"12":        12,
		" -3.5 ":    -3.5,
		"1,234,567": 1234567,
		"1_000":     1000,
		"45%":       45,
		"1e3":       1000,
		"":          0,
		"n/a":       0,
		"NaN":       0,
		"Inf":       0,
	} {
		a.Equal(want, ParseNumber(in), in)
	}
	a.True(IsNumber("1,000"))
	a.False(IsNumber("x"))
	a.False(IsNumber(""))
}

func TestParseFormat(t *testing.T) {
	a := assert.New(t)
	f, err := ParseFormat("")
	a.NoError(err)
	a.Equal(FormatSVG, f)

	f, err = ParseFormat("PNG")
	a.NoError(err)
	a.Equal(FormatPNG, f)
	a.Equal("image/png", f.ContentType())
	a.Equal(".png", f.Ext())

	_, err = ParseFormat("pdf")
	a.Error(err)
	a.Equal(ErrUnknownFormat, errorsCause(err))
}
