package cache

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	a := assert.New(t)
	k := NewKey("bar", "svg", "text/plain", []byte("a|1"))
	a.Equal(k, NewKey("bar", "svg", "text/plain", []byte("a|1")))
	a.NotEqual(k, NewKey("bar", "png", "text/plain", []byte("a|1")))
	a.NotEqual(k, NewKey("bar", "svg", "text/plain", []byte("a|2")))
	a.NotEqual(NewKey("ab", "c", "", nil), NewKey("a", "bc", "", nil))
	a.Len(k.String(), 16)
}

func TestCacheMemory(t *testing.T) {
	a := assert.New(t)
	c, err := Open("", nil)
	a.NoError(err)
	defer c.Close() // nolint: errcheck
	a.False(c.Persistent())

	_, ok := c.Get(1)
	a.False(ok)
	c.Put(1, []byte("one"))
	data, ok := c.Get(1)
	a.True(ok)
	a.Equal("one", string(data))

	c.MaxEntries = 2
	c.Put(2, []byte("two"))
	c.Put(2, []byte("two again"))
	c.Put(3, []byte("three"))
	a.Equal(2, c.Len())
	_, ok = c.Get(1)
	a.False(ok)
	data, _ = c.Get(2)
	a.Equal("two again", string(data))
}

func TestCacheDo(t *testing.T) {
	t.Run("single-call", func(t *testing.T) {
		a := assert.New(t)
		c, _ := Open("", nil)
		var calls int32
		fn := func() ([]byte, error) {
			atomic.AddInt32(&calls, 1)
			return []byte("svg"), nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				data, _, err := c.Do(42, fn)
				a.NoError(err)
				a.Equal("svg", string(data))
			}()
		}
		wg.Wait()
		a.Equal(int32(1), atomic.LoadInt32(&calls))

		_, hit, err := c.Do(42, fn)
		a.NoError(err)
		a.True(hit)
	})
	t.Run("errors-are-not-cached", func(t *testing.T) {
		a := assert.New(t)
		c, _ := Open("", nil)
		failure := errors.New("boom")
		_, hit, err := c.Do(7, func() ([]byte, error) { return nil, failure })
		a.Equal(failure, err)
		a.False(hit)
		a.Equal(0, c.Len())

		data, hit, err := c.Do(7, func() ([]byte, error) { return []byte("ok"), nil })
		a.NoError(err)
		a.False(hit)
		a.Equal("ok", string(data))
	})
}

func TestCachePersistent(t *testing.T) {
	a := assert.New(t)
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(path, nil)
	if !a.NoError(err) {
		return
	}
	a.True(c.Persistent())
	key := NewKey("pie", "svg", "text/plain", []byte("a|1"))
	c.Put(key, []byte("<svg/>"))
	a.NoError(c.Close())

	c, err = Open(path, nil)
	if !a.NoError(err) {
		return
	}
	defer c.Close() // nolint: errcheck
	a.Equal(0, c.Len())
	data, ok := c.Get(key)
	a.True(ok)
	a.Equal("<svg/>", string(data))
	a.Equal(1, c.Len())
}
