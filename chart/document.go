package chart

import (
	"strings"
)

// Row is a single data line. Cells are already trimmed.
type Row []string

// Cell returns the i-th cell, or "" if the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Number returns the i-th cell parsed with ParseNumber.
func (r Row) Number(i int) float64 {
	return ParseNumber(r.Cell(i))
}

// Document is the parsed form of every input format.
type Document struct {
	Config Options
	// Defaults fill in keys that Config lacks. They are not treated as set
	// by the author, so a maker may still size itself to its content.
	Defaults Options
	Rows     []Row
}

func NewDocument() *Document {
	return &Document{
		Config:   Options{},
		Defaults: Options{},
	}
}

// SetDefault stores a fallback value for key.
func (d *Document) SetDefault(key, value string) {
	if d.Defaults == nil {
		d.Defaults = Options{}
	}
	d.Defaults[normalizeKey(key)] = value
}

// Options returns Config layered over Defaults.
func (d *Document) Options() Options {
	if len(d.Defaults) == 0 {
		return d.Config
	}
	o := make(Options, len(d.Config)+len(d.Defaults))
	for k, v := range d.Defaults {
		o[k] = v
	}
	for k, v := range d.Config {
		o[k] = v
	}
	return o
}

func (d *Document) appendRow(cells []string) {
	row := make(Row, 0, len(cells))
	empty := true
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" {
			empty = false
		}
		row = append(row, c)
	}
	if empty {
		return
	}
	d.Rows = append(d.Rows, row)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
