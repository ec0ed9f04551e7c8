package db

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrBucketNotExist = errors.New("bucket not exist")
	ErrClosed         = errors.New("database is closed")
)

var (
	mu           sync.RWMutex
	constructors = make(map[string]DBCtor)
)

// Getter reads values from a bucket. A missing key yields
// a nil value and a nil error.
type Getter interface {
	Get(bucket string, key []byte) ([]byte, error)
	GetAll(bucket string, keyPrefix []byte) ([][]byte, error)
}

// Putter writes key/value pairs to a bucket.
type Putter interface {
	Put(bucket string, key, value []byte) error
}

// Deleter removes keys from a bucket.
type Deleter interface {
	Delete(bucket string, key []byte) error
}

// Tx is a writable transaction of the underlying database.
type Tx interface {
	Getter
	Putter
	Deleter
	Commit() error
	Rollback() error
}

// Database is the generic key/value store used by the
// session and claim managers.
type Database interface {
	Getter
	Putter
	Deleter
	NewBucket(name string) error
	Begin() (Tx, error)
	Close() error
}

// DBCtor creates a new database in the specified path.
type DBCtor func(path string) (Database, error)

// Register is called by a database backend to make itself
// available to the application.
func Register(name string, ctor DBCtor) {
	mu.Lock()
	defer mu.Unlock()
	constructors[name] = ctor
}

// GetDB returns the constructor of the named backend.
func GetDB(name string) (DBCtor, error) {
	mu.RLock()
	defer mu.RUnlock()
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("database %s not registered", name)
	}
	return ctor, nil
}

// Open creates the named backend in path.
func Open(name, path string) (Database, error) {
	ctor, err := GetDB(name)
	if err != nil {
		return nil, err
	}
	return ctor(path)
}
