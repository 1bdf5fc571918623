package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/info"
)

func TestConfigDefaults(t *testing.T) {
	a := assert.New(t)
	c := NewConfig("")
	a.NoError(c.Load())
	a.Equal(info.DefaultListenAddr, c.Listen)
	a.Equal(int64(info.DefaultMaxBodyBytes), c.MaxBodyBytes)
	a.Equal("", c.Cache.Path)
	a.Equal(RenderConfig{
		DefaultWidth:  info.DefaultWidth,
		DefaultHeight: info.DefaultHeight,
		Palette:       info.DefaultPalette,
	}, c.Render)
}

func TestConfigFileAndEnv(t *testing.T) {
	a := assert.New(t)
	file := filepath.Join(t.TempDir(), "svgchart.yaml")
	a.NoError(ioutil.WriteFile(file, []byte(`
listen: 0.0.0.0:9000
max_body_bytes: 2048
render:
  default_width: 1024
  palette: ocean
`), 0644))
	t.Setenv("SVGCHART_CACHE_PATH", "/tmp/renders.db")
	t.Setenv("SVGCHART_RENDER_DEFAULT_HEIGHT", "300")

	c := NewConfig(file)
	a.NoError(c.Load())
	a.Equal("0.0.0.0:9000", c.Listen)
	a.Equal(int64(2048), c.MaxBodyBytes)
	a.Equal("/tmp/renders.db", c.Cache.Path)
	a.Equal(1024, c.Render.DefaultWidth)
	a.Equal(300, c.Render.DefaultHeight)
	a.Equal("ocean", c.Render.Palette)
}

func TestConfigErrors(t *testing.T) {
	t.Run("missing-file", func(t *testing.T) {
		a := assert.New(t)
		a.Error(NewConfig(filepath.Join(t.TempDir(), "nope.yaml")).Load())
	})
	t.Run("max-body", func(t *testing.T) {
		a := assert.New(t)
		t.Setenv("SVGCHART_MAX_BODY_BYTES", "0")
		a.Error(NewConfig("").Load())
	})
	t.Run("width", func(t *testing.T) {
		a := assert.New(t)
		t.Setenv("SVGCHART_RENDER_DEFAULT_WIDTH", "10")
		a.Error(NewConfig("").Load())
	})
}

func TestConfigBindFlag(t *testing.T) {
	a := assert.New(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("listen", "p", "", "")

	c := NewConfig("")
	a.NoError(c.BindFlag(KeyListen, fs.Lookup("listen")))
	a.Error(c.BindFlag(KeyListen, fs.Lookup("missing")))
	a.NoError(fs.Parse([]string{"-p", "127.0.0.1:0"}))
	a.NoError(c.Load())
	a.Equal("127.0.0.1:0", c.Listen)
}

func TestRenderConfigApply(t *testing.T) {
	a := assert.New(t)
	doc := chart.ParseString("width=300\n---\na|1\n")
	RenderConfig{DefaultWidth: 640, DefaultHeight: 200, Palette: "mono"}.Apply(doc)
	o := doc.Options()
	a.Equal("300", o["width"])
	a.Equal("200", o["height"])
	a.Equal("mono", o["palette"])
	a.False(doc.Config.Has("height"))
}
