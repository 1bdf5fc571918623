package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func errorsCause(err error) error {
	return errors.Cause(err)
}

func TestParseJSON(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		a := assert.New(t)
		doc, err := ParseJSON(strings.NewReader(`{
			"config": {"Title": "Revenue", "width": 640, "donut": true, "ratio": 0.25, "none": null},
			"rows": [["Q1", 10, "#ff0000"], ["Q2", 12.5, null]],
			"data": [
				{"label": "Q3", "value": 9, "color": "#00ff00"},
				{"label": "Q4", "values": [1, 2, 3]}
			]
		}`))
		a.NoError(err)
		a.Equal(Options{
			"title": "Revenue",
			"width": "640",
			"donut": "true",
			"ratio": "0.25",
			"none":  "",
		}, doc.Config)
		a.Equal([]Row{
			{"Q1", "10", "#ff0000"},
			{"Q2", "12.5", ""},
			{"Q3", "9", "#00ff00"},
			{"Q4", "1", "2", "3"},
		}, doc.Rows)
	})
	t.Run("equivalent-to-text", func(t *testing.T) {
		a := assert.New(t)
		js, err := ParseJSON(strings.NewReader(`{"config":{"title":"T"},"rows":[["a","1"],["b","2"]]}`))
		a.NoError(err)
		a.Equal(ParseString("title=T\n---\na|1\nb|2\n"), js)
	})
	t.Run("malformed", func(t *testing.T) {
		a := assert.New(t)
		_, err := ParseJSON(strings.NewReader(`{"rows": [`))
		a.Error(err)
		a.Equal(ErrInvalidInput, errors.Cause(err))
	})
}

func newWorkbook(t *testing.T, withConfig bool) []byte {
	f := excelize.NewFile()
	defer f.Close() // nolint: errcheck

	data := [][]interface{}{
		{"Q1", 120, "#4e79a7"},
		{"Q2", 150},
		{},
		{"Q3", 90.5},
	}
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if withConfig {
		if _, err := f.NewSheet("config"); err != nil {
			t.Fatal(err)
		}
		for i, kv := range [][]interface{}{{"Title", "Revenue"}, {"width", 640}} {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := kv
			if err := f.SetSheetRow("config", cell, &r); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	t.Run("with-config", func(t *testing.T) {
		a := assert.New(t)
		doc, err := ParseWorkbook(bytes.NewReader(newWorkbook(t, true)))
		a.NoError(err)
		a.Equal(Options{"title": "Revenue", "width": "640"}, doc.Config)
		a.Equal([]Row{
			{"Q1", "120", "#4e79a7"},
			{"Q2", "150"},
			{"Q3", "90.5"},
		}, doc.Rows)
	})
	t.Run("data-only", func(t *testing.T) {
		a := assert.New(t)
		doc, err := ParseWorkbook(bytes.NewReader(newWorkbook(t, false)))
		a.NoError(err)
		a.Empty(doc.Config)
		a.Len(doc.Rows, 3)
	})
	t.Run("not-a-workbook", func(t *testing.T) {
		a := assert.New(t)
		_, err := ParseWorkbook(strings.NewReader("a|1"))
		a.Error(err)
		a.Equal(ErrInvalidInput, errors.Cause(err))
	})
}

func TestParse(t *testing.T) {
	a := assert.New(t)
	doc, err := Parse(strings.NewReader(`{"rows":[["a",1]]}`), "application/json; charset=utf-8")
	a.NoError(err)
	a.Equal([]Row{{"a", "1"}}, doc.Rows)

	doc, err = Parse(strings.NewReader("a|1"), "")
	a.NoError(err)
	a.Equal([]Row{{"a", "1"}}, doc.Rows)

	doc, err = Parse(bytes.NewReader(newWorkbook(t, false)), ContentTypeWorkbook)
	a.NoError(err)
	a.Len(doc.Rows, 3)

	a.Equal(ContentTypeJSON, ContentTypeFromPath("x/data.JSON"))
	a.Equal(ContentTypeWorkbook, ContentTypeFromPath("data.xlsx"))
	a.Equal(ContentTypeText, ContentTypeFromPath("data.txt"))
	a.Equal(ContentTypeText, ContentTypeFromPath("-"))
}
