// Copyright 2019 The go-ultiledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package boltdb

import (
	"bytes"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/ashishtz/carbon-bear-xrpl/db"
)

func init() {
	db.Register("boltdb", New)
}

type boltdb struct {
	db *bolt.DB
}

// New creates a new boltdb instance which can be used by multiple
// goroutines of the same process, BoltDB obtains a file lock on the data
// file so multiple processes cannot open the same database at the same time.
func New(path string) (db.Database, error) {
	bt, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open boltdb %s failed: %v", path, err)
	}
	return &boltdb{db: bt}, nil
}

func (bt *boltdb) NewBucket(name string) error {
	return bt.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

// Put writes the key/value pair to database.
func (bt *boltdb) Put(bucket string, key, value []byte) error {
	return bt.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucket, key, value)
	})
}

// Delete deletes the key from the database.
func (bt *boltdb) Delete(bucket string, key []byte) error {
	return bt.db.Update(func(tx *bolt.Tx) error {
		return del(tx, bucket, key)
	})
}

// Get retrieves the value of the key from database.
func (bt *boltdb) Get(bucket string, key []byte) ([]byte, error) {
	var val []byte
	err := bt.db.View(func(tx *bolt.Tx) error {
		val = get(tx, bucket, key)
		return nil
	})
	return val, err
}

// GetAll retrieves the values of the keys with prefix from database.
func (bt *boltdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	var vals [][]byte
	err := bt.db.View(func(tx *bolt.Tx) error {
		vals = getAll(tx, bucket, keyPrefix)
		return nil
	})
	return vals, err
}

// Close closes the underlying database.
func (bt *boltdb) Close() error {
	if bt.db != nil {
		return bt.db.Close()
	}
	return nil
}

// Begin returns a writable database transaction object
// which can be used to manually managing transaction.
func (bt *boltdb) Begin() (db.Tx, error) {
	tx, err := bt.db.Begin(true)
	if err != nil {
		return nil, err
	}
	return &boltdbTx{tx: tx}, nil
}

// boltdbTx wraps the boltdb transaction to provide the desired interface.
type boltdbTx struct {
	tx *bolt.Tx
}

func (btx *boltdbTx) Get(bucket string, key []byte) ([]byte, error) {
	return get(btx.tx, bucket, key), nil
}

func (btx *boltdbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	return getAll(btx.tx, bucket, keyPrefix), nil
}

func (btx *boltdbTx) Put(bucket string, key, value []byte) error {
	return put(btx.tx, bucket, key, value)
}

func (btx *boltdbTx) Delete(bucket string, key []byte) error {
	return del(btx.tx, bucket, key)
}

func (btx *boltdbTx) Rollback() error {
	return btx.tx.Rollback()
}

func (btx *boltdbTx) Commit() error {
	return btx.tx.Commit()
}

// Values returned by bolt are only valid during the transaction,
// so they are copied before leaving it.
func get(tx *bolt.Tx, bucket string, key []byte) []byte {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return nil
	}
	v := b.Get(key)
	if v == nil {
		return nil
	}
	return append([]byte(nil), v...)
}

func getAll(tx *bolt.Tx, bucket string, keyPrefix []byte) [][]byte {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return nil
	}
	var vals [][]byte
	c := b.Cursor()
	for k, v := c.Seek(keyPrefix); k != nil && bytes.HasPrefix(k, keyPrefix); k, v = c.Next() {
		vals = append(vals, append([]byte(nil), v...))
	}
	return vals
}

func put(tx *bolt.Tx, bucket string, key, value []byte) error {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return db.ErrBucketNotExist
	}
	return b.Put(key, value)
}

func del(tx *bolt.Tx, bucket string, key []byte) error {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return db.ErrBucketNotExist
	}
	return b.Delete(key)
}
