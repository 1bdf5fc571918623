package render

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/yuuki0xff/svgchart/chart"
)

// Maker converts a parsed document into one kind of chart.
type Maker interface {
	Kind() string
	Description() string
	// Example returns a source in the text mini-language that renders a
	// representative chart.
	Example() string
	Render(w io.Writer, doc *chart.Document) error
}

var (
	makersLock sync.RWMutex
	makers     = map[string]Maker{}
)

// Register adds a maker. It panics when the kind is already registered.
func Register(m Maker) {
	makersLock.Lock()
	defer makersLock.Unlock()
	kind := strings.ToLower(m.Kind())
	if _, exists := makers[kind]; exists {
		panic("render: maker already registered: " + kind)
	}
	makers[kind] = m
}

func Lookup(kind string) (Maker, bool) {
	makersLock.RLock()
	defer makersLock.RUnlock()
	m, ok := makers[strings.ToLower(strings.TrimSpace(kind))]
	return m, ok
}

// Kinds returns all registered makers sorted by kind.
func Kinds() []Maker {
	makersLock.RLock()
	list := make([]Maker, 0, len(makers))
	for _, m := range makers {
		list = append(list, m)
	}
	makersLock.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Kind() < list[j].Kind()
	})
	return list
}
