package memdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/ashishtz/carbon-bear-xrpl/db"
)

func init() {
	db.Register("memdb", func(string) (db.Database, error) {
		return New(), nil
	})
}

type memdb struct {
	sync.RWMutex
	buckets map[string]map[string][]byte
}

// New creates a memory-based key-value store
// which is mainly used for testing.
func New() db.Database {
	return &memdb{buckets: make(map[string]map[string][]byte)}
}

func (m *memdb) NewBucket(name string) error {
	m.Lock()
	defer m.Unlock()

	if m.buckets == nil {
		return db.ErrClosed
	}
	if _, ok := m.buckets[name]; !ok {
		m.buckets[name] = make(map[string][]byte)
	}
	return nil
}

// Put writes the key/value pair to database.
func (m *memdb) Put(bucket string, key, value []byte) error {
	m.Lock()
	defer m.Unlock()
	return m.put(bucket, key, value)
}

func (m *memdb) put(bucket string, key, value []byte) error {
	if m.buckets == nil {
		return db.ErrClosed
	}
	b, ok := m.buckets[bucket]
	if !ok {
		return db.ErrBucketNotExist
	}
	b[string(key)] = append([]byte(nil), value...)
	return nil
}

// Delete deletes the key from the database.
func (m *memdb) Delete(bucket string, key []byte) error {
	m.Lock()
	defer m.Unlock()
	return m.del(bucket, key)
}

func (m *memdb) del(bucket string, key []byte) error {
	if m.buckets == nil {
		return db.ErrClosed
	}
	b, ok := m.buckets[bucket]
	if !ok {
		return db.ErrBucketNotExist
	}
	delete(b, string(key))
	return nil
}

// Get retrieves the value of the key from database.
func (m *memdb) Get(bucket string, key []byte) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()

	if m.buckets == nil {
		return nil, db.ErrClosed
	}
	if val, ok := m.buckets[bucket][string(key)]; ok {
		return append([]byte(nil), val...), nil
	}
	return nil, nil
}

// GetAll retrieves the values of the keys with prefix in key order.
func (m *memdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	m.RLock()
	defer m.RUnlock()

	if m.buckets == nil {
		return nil, db.ErrClosed
	}

	var keys []string
	for k := range m.buckets[bucket] {
		if strings.HasPrefix(k, string(keyPrefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var vals [][]byte
	for _, k := range keys {
		vals = append(vals, append([]byte(nil), m.buckets[bucket][k]...))
	}
	return vals, nil
}

// Close closes the underlying database.
func (m *memdb) Close() error {
	m.Lock()
	defer m.Unlock()

	m.buckets = nil
	return nil
}

// Begin returns a transaction which buffers writes until Commit.
func (m *memdb) Begin() (db.Tx, error) {
	m.RLock()
	defer m.RUnlock()
	if m.buckets == nil {
		return nil, db.ErrClosed
	}
	return &memdbTx{m: m}, nil
}

type write struct {
	bucket string
	key    []byte
	value  []byte
	delete bool
}

type memdbTx struct {
	m      *memdb
	writes []write
}

func (t *memdbTx) Get(bucket string, key []byte) ([]byte, error) {
	for i := len(t.writes) - 1; i >= 0; i-- {
		w := t.writes[i]
		if w.bucket == bucket && string(w.key) == string(key) {
			if w.delete {
				return nil, nil
			}
			return append([]byte(nil), w.value...), nil
		}
	}
	return t.m.Get(bucket, key)
}

// GetAll only sees committed values.
func (t *memdbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	return t.m.GetAll(bucket, keyPrefix)
}

func (t *memdbTx) Put(bucket string, key, value []byte) error {
	t.writes = append(t.writes, write{bucket: bucket, key: key, value: value})
	return nil
}

func (t *memdbTx) Delete(bucket string, key []byte) error {
	t.writes = append(t.writes, write{bucket: bucket, key: key, delete: true})
	return nil
}

func (t *memdbTx) Rollback() error {
	t.writes = nil
	return nil
}

func (t *memdbTx) Commit() error {
	t.m.Lock()
	defer t.m.Unlock()
	for _, w := range t.writes {
		var err error
		if w.delete {
			err = t.m.del(w.bucket, w.key)
		} else {
			err = t.m.put(w.bucket, w.key, w.value)
		}
		if err != nil {
			return err
		}
	}
	t.writes = nil
	return nil
}
