package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/info"
)

// Config keys, as used in config files. Environment variables use the
// upper-cased key with "." replaced by "_" and the SVGCHART_ prefix.
const (
	KeyListen        = "listen"
	KeyMaxBodyBytes  = "max_body_bytes"
	KeyCachePath     = "cache.path"
	KeyDefaultWidth  = "render.default_width"
	KeyDefaultHeight = "render.default_height"
	KeyPalette       = "render.palette"
)

type Config struct {
	Listen       string       `mapstructure:"listen"`
	MaxBodyBytes int64        `mapstructure:"max_body_bytes"`
	Cache        CacheConfig  `mapstructure:"cache"`
	Render       RenderConfig `mapstructure:"render"`

	file string
	v    *viper.Viper
}

type CacheConfig struct {
	// Path of the bbolt database. Empty keeps renders in memory only.
	Path string `mapstructure:"path"`
}

// RenderConfig holds the defaults injected into documents that do not set
// them.
type RenderConfig struct {
	DefaultWidth  int    `mapstructure:"default_width"`
	DefaultHeight int    `mapstructure:"default_height"`
	Palette       string `mapstructure:"palette"`
}

// NewConfig returns a config that reads file, if given, on Load.
func NewConfig(file string) *Config {
	v := viper.New()
	v.SetDefault(KeyListen, info.DefaultListenAddr)
	v.SetDefault(KeyMaxBodyBytes, info.DefaultMaxBodyBytes)
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyDefaultWidth, info.DefaultWidth)
	v.SetDefault(KeyDefaultHeight, info.DefaultHeight)
	v.SetDefault(KeyPalette, info.DefaultPalette)
	v.SetEnvPrefix(info.DefaultConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Config{
		file: file,
		v:    v,
	}
}

// BindFlag lets a command line flag override key when the flag was set.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.Errorf("flag for %s not found", key)
	}
	return errors.Wrapf(c.v.BindPFlag(key, flag), "bind flag %s", flag.Name)
}

// Load reads the config file and the environment.
func (c *Config) Load() error {
	if c.file != "" {
		c.v.SetConfigFile(c.file)
		if err := c.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", c.file)
		}
	}
	if err := c.v.Unmarshal(c); err != nil {
		return errors.Wrap(err, "decode config")
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Listen == "" {
		c.Listen = info.DefaultListenAddr
	}
	if c.MaxBodyBytes <= 0 {
		return errors.Errorf("%s must be positive: %d", KeyMaxBodyBytes, c.MaxBodyBytes)
	}
	if c.Render.DefaultWidth < chart.MinCanvasSize || c.Render.DefaultWidth > chart.MaxCanvasSize {
		return errors.Errorf("%s out of range: %d", KeyDefaultWidth, c.Render.DefaultWidth)
	}
	if c.Render.DefaultHeight < chart.MinCanvasSize || c.Render.DefaultHeight > chart.MaxCanvasSize {
		return errors.Errorf("%s out of range: %d", KeyDefaultHeight, c.Render.DefaultHeight)
	}
	if c.Render.Palette == "" {
		c.Render.Palette = info.DefaultPalette
	}
	return nil
}

// Apply registers the render defaults on doc. Values written in doc win.
func (r RenderConfig) Apply(doc *chart.Document) {
	doc.SetDefault("width", strconv.Itoa(r.DefaultWidth))
	doc.SetDefault("height", strconv.Itoa(r.DefaultHeight))
	doc.SetDefault("palette", r.Palette)
}
