package chart

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const ConfigSheetName = "config"

// ParseWorkbook reads an xlsx workbook. A sheet named "config" supplies
// key/value pairs from columns A and B; the first other sheet supplies rows.
func ParseWorkbook(r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	defer f.Close() // nolint: errcheck

	doc := NewDocument()
	dataSheet := ""
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, ConfigSheetName) {
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read sheet %q", name)
			}
			for _, row := range rows {
				if len(row) == 0 {
					continue
				}
				key := normalizeKey(row[0])
				if key == "" || strings.HasPrefix(key, commentPrefix) {
					continue
				}
				value := ""
				if len(row) > 1 {
					value = strings.TrimSpace(row[1])
				}
				doc.Config[key] = value
			}
			continue
		}
		if dataSheet == "" {
			dataSheet = name
		}
	}
	if dataSheet == "" {
		return doc, nil
	}

	rows, err := f.GetRows(dataSheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", dataSheet)
	}
	for _, row := range rows {
		doc.appendRow(row)
	}
	return doc, nil
}
