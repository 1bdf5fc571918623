package chart

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
)

const (
	ContentTypeText     = "text/plain"
	ContentTypeJSON     = "application/json"
	ContentTypeWorkbook = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Parse picks a parser from a Content-Type header value.
// Unknown or empty types are parsed as the text mini-language.
func Parse(r io.Reader, contentType string) (*Document, error) {
	switch MediaType(contentType) {
	case ContentTypeJSON:
		return ParseJSON(r)
	case ContentTypeWorkbook:
		return ParseWorkbook(r)
	default:
		return ParseText(r)
	}
}

// ContentTypeFromPath guesses the input type from a file extension.
func ContentTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ContentTypeJSON
	case ".xlsx":
		return ContentTypeWorkbook
	default:
		return ContentTypeText
	}
}

// MediaType returns the lower-cased media type of a Content-Type value without
// parameters.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
