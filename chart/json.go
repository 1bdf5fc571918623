package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

type jsonDocument struct {
	Config map[string]interface{} `json:"config"`
	Rows   [][]interface{}        `json:"rows"`
	Data   []jsonDatum            `json:"data"`
}

type jsonDatum struct {
	Label  string        `json:"label"`
	Value  interface{}   `json:"value"`
	Values []interface{} `json:"values"`
	Color  string        `json:"color"`
}

// ParseJSON decodes the JSON form of a document:
//
//	{"config": {"title": "x"}, "rows": [["a", 1]], "data": [{"label": "b", "value": 2}]}
func ParseJSON(r io.Reader) (*Document, error) {
	var js jsonDocument
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&js); err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}

	doc := NewDocument()
	for k, v := range js.Config {
		key := normalizeKey(k)
		if key == "" {
			continue
		}
		doc.Config[key] = scalarString(v)
	}
	for _, row := range js.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = scalarString(v)
		}
		doc.appendRow(cells)
	}
	for _, d := range js.Data {
		cells := []string{d.Label}
		if len(d.Values) > 0 {
			for _, v := range d.Values {
				cells = append(cells, scalarString(v))
			}
		} else {
			cells = append(cells, scalarString(d.Value))
		}
		if d.Color != "" {
			cells = append(cells, d.Color)
		}
		doc.appendRow(cells)
	}
	return doc, nil
}

func scalarString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
