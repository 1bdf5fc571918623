package info

const (
	AppName = "svgchart"
	Version = "0.1.0"

	DefaultConfigEnvPrefix = "SVGCHART"
	DefaultListenAddr      = "127.0.0.1:8080"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultWidth           = 800
	DefaultHeight          = 480
	DefaultPalette         = "default"
	DefaultUserAgent       = "svgchart-restapi-client"
)
