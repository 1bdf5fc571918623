package chart

import (
	"strings"

	"github.com/pkg/errors"
)

type Format string

const (
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
)

var formatContentTypes = map[Format]string{
	FormatSVG:  "image/svg+xml",
	FormatHTML: "text/html; charset=utf-8",
	FormatPNG:  "image/png",
}

// ParseFormat accepts "svg", "html" or "png". An empty string means svg.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatSVG, nil
	}
	if _, ok := formatContentTypes[f]; !ok {
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
	return f, nil
}

func (f Format) ContentType() string {
	return formatContentTypes[f]
}

func (f Format) Ext() string {
	return "." + string(f)
}
