package chart

import (
	"io"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
)

const (
	sectionSeparator = "---"
	cellSeparator    = "|"
	commentPrefix    = "#"
)

// ParseText parses the key=value / --- / pipe-delimited mini-language.
//
//	title=Quarterly revenue
//	width=640
//	---
//	Q1|120|#4e79a7
//	Q2|150
//
// Without a separator every line is a data row.
func ParseText(r io.Reader) (*Document, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read the chart source")
	}
	return ParseString(string(data)), nil
}

// ParseString is ParseText for an in-memory source. It never fails.
func ParseString(src string) *Document {
	lines := strings.Split(src, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
	}

	sep := -1
	for i, line := range lines {
		if line == sectionSeparator {
			sep = i
			break
		}
	}

	doc := NewDocument()
	dataStart := 0
	if sep >= 0 {
		for _, line := range lines[:sep] {
			if skipLine(line) {
				continue
			}
			idx := strings.Index(line, "=")
			if idx < 0 {
				continue
			}
			key := normalizeKey(line[:idx])
			if key == "" {
				continue
			}
			doc.Config[key] = strings.TrimSpace(line[idx+1:])
		}
		dataStart = sep + 1
	}

	for _, line := range lines[dataStart:] {
		if skipLine(line) {
			continue
		}
		doc.appendRow(strings.Split(line, cellSeparator))
	}
	return doc
}

func skipLine(line string) bool {
	return line == "" || strings.HasPrefix(line, commentPrefix)
}

// Text serializes the document back into the mini-language.
func (d *Document) Text() string {
	var b strings.Builder
	for _, key := range d.Config.Keys() {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(d.Config[key])
		b.WriteString("\n")
	}
	b.WriteString(sectionSeparator)
	b.WriteString("\n")
	for _, row := range d.Rows {
		b.WriteString(strings.Join(row, cellSeparator))
		b.WriteString("\n")
	}
	return b.String()
}
