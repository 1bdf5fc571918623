package textutil

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasurer_Width(t *testing.T) {
	a := assert.New(t)
	m := Default()
	a.Equal(0.0, m.Width("", 12, false))
	a.Equal(0.0, m.Width("abc", 0, false))

	w12 := m.Width("Revenue", 12, false)
	w24 := m.Width("Revenue", 24, false)
	a.True(w12 > 0)
	a.InDelta(w12*2, w24, 0.01)
	a.True(m.Width("WWW", 12, false) > m.Width("iii", 12, false))
	a.True(m.Width("Revenue", 12, true) >= w12)
}

func TestMeasurer_Wrap(t *testing.T) {
	m := Default()
	t.Run("fits", func(t *testing.T) {
		a := assert.New(t)
		a.Equal([]string{"short"}, m.Wrap("short", 1000, 12))
	})
	t.Run("empty", func(t *testing.T) {
		a := assert.New(t)
		a.Nil(m.Wrap("   ", 100, 12))
	})
	t.Run("no-width", func(t *testing.T) {
		a := assert.New(t)
		a.Equal([]string{"a b c"}, m.Wrap(" a  b c ", 0, 12))
	})
	t.Run("words", func(t *testing.T) {
		a := assert.New(t)
		text := "the quick brown fox jumps over the lazy dog"
		max := m.Width("quick brown", 12, false)
		lines := m.Wrap(text, max, 12)
		a.True(len(lines) > 1)
		a.Equal(text, strings.Join(lines, " "))
		for _, line := range lines {
			a.True(m.Width(line, 12, false) <= max, line)
		}
	})
	t.Run("long-word", func(t *testing.T) {
		a := assert.New(t)
		max := m.Width("abcd", 12, false)
		lines := m.Wrap("abcdefghijkl", max, 12)
		a.True(len(lines) >= 3)
		a.Equal("abcdefghijkl", strings.Join(lines, ""))
	})
}

func TestMeasurer_Truncate(t *testing.T) {
	a := assert.New(t)
	m := Default()
	a.Equal("short", m.Truncate("short", 1000, 12))

	s := m.Truncate("a very long category label", 60, 12)
	a.True(strings.HasSuffix(s, "…"))
	a.True(m.Width(s, 12, false) <= 60)
	a.Equal("…", m.Truncate("abc", 0.1, 12))
}

func TestMeasurer_concurrent(t *testing.T) {
	a := assert.New(t)
	m := Default()
	want := m.Width("concurrency", 14, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				a.Equal(want, m.Width("concurrency", 14, false))
			}
		}()
	}
	wg.Wait()
}
