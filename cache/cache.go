// Package cache keeps rendered charts keyed by a hash of their request.
//
// Entries live in a bounded in-memory table and, when a path is configured,
// in a bbolt database that survives restarts.
package cache

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"log"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxEntries is the size of the in-memory table.
	DefaultMaxEntries = 256
	openTimeout       = time.Second
)

var bucketName = []byte("renders")

// Key identifies a render request.
type Key uint64

// NewKey hashes the parts of a request that determine its output.
func NewKey(kind, format, contentType string, body []byte) Key {
	d := xxhash.New()
	for _, s := range []string{kind, format, contentType} {
		d.WriteString(s)   // nolint: errcheck
		d.Write([]byte{0}) // nolint: errcheck
	}
	d.Write(body) // nolint: errcheck
	return Key(d.Sum64())
}

func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

func (k Key) bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

type Cache struct {
	Logger     *log.Logger
	MaxEntries int

	m     sync.RWMutex
	mem   map[Key][]byte
	order []Key

	db    *bbolt.DB
	enc   *zstd.Encoder
	dec   *zstd.Decoder
	group singleflight.Group
}

// Open returns a cache. An empty path keeps entries in memory only.
func Open(path string, logger *log.Logger) (*Cache, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	c := &Cache{
		Logger:     logger,
		MaxEntries: DefaultMaxEntries,
		mem:        map[Key][]byte{},
	}
	if path == "" {
		return c, nil
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "open cache %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close() // nolint: errcheck
		return nil, errors.Wrap(err, "create cache bucket")
	}
	c.enc, err = zstd.NewWriter(nil)
	if err != nil {
		db.Close() // nolint: errcheck
		return nil, errors.Wrap(err, "zstd encoder")
	}
	c.dec, err = zstd.NewReader(nil)
	if err != nil {
		db.Close() // nolint: errcheck
		return nil, errors.Wrap(err, "zstd decoder")
	}
	c.db = db
	return c, nil
}

// Persistent reports whether entries are written to disk.
func (c *Cache) Persistent() bool {
	return c.db != nil
}

// Get looks up key in memory first, then on disk.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.m.RLock()
	data, ok := c.mem[key]
	c.m.RUnlock()
	if ok {
		return data, true
	}
	if c.db == nil {
		return nil, false
	}

	var compressed []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(key.bytes()); v != nil {
			// v is only valid inside the transaction
			compressed = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		c.Logger.Println(errors.Wrapf(err, "read cache entry %s", key))
		return nil, false
	}
	if compressed == nil {
		return nil, false
	}
	data, err = c.dec.DecodeAll(compressed, nil)
	if err != nil {
		c.Logger.Println(errors.Wrapf(err, "decode cache entry %s", key))
		return nil, false
	}
	c.remember(key, data)
	return data, true
}

// Put stores data. Disk failures are logged and otherwise ignored.
func (c *Cache) Put(key Key, data []byte) {
	c.remember(key, data)
	if c.db == nil {
		return
	}
	compressed := c.enc.EncodeAll(data, nil)
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(key.bytes(), compressed)
	})
	if err != nil {
		c.Logger.Println(errors.Wrapf(err, "write cache entry %s", key))
	}
}

// remember adds an entry to the memory table, evicting the oldest one when
// the table is full.
func (c *Cache) remember(key Key, data []byte) {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.mem[key]; ok {
		c.mem[key] = data
		return
	}
	max := c.MaxEntries
	if max <= 0 {
		max = DefaultMaxEntries
	}
	for len(c.order) >= max {
		delete(c.mem, c.order[0])
		c.order = c.order[1:]
	}
	c.mem[key] = data
	c.order = append(c.order, key)
}

// Do returns the cached value for key, or calls fn to produce it. Concurrent
// calls for the same key share one fn call. Errors are not cached.
func (c *Cache) Do(key Key, fn func() ([]byte, error)) (data []byte, hit bool, err error) {
	if data, ok := c.Get(key); ok {
		return data, true, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// a previous flight may have finished since the lookup above
		if data, ok := c.Get(key); ok {
			return data, nil
		}
		data, err := fn()
		if err != nil {
			return nil, err
		}
		c.Put(key, data)
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return len(c.mem)
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	c.enc.Close() // nolint: errcheck
	c.dec.Close()
	return errors.Wrap(c.db.Close(), "close cache")
}
