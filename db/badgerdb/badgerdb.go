// Package badgerdb stores buckets in a single badger keyspace, every
// key being prefixed with its bucket name.
package badgerdb

import (
	"fmt"

	"github.com/dgraph-io/badger"

	"github.com/ashishtz/carbon-bear-xrpl/db"
)

const bucketMarker = "__bucket__/"

func init() {
	db.Register("badger", New)
}

type badgerdb struct {
	db *badger.DB
}

// New opens (or creates) a badger database in the directory path.
func New(path string) (db.Database, error) {
	opts := badger.DefaultOptions(path)
	bd, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %s failed: %v", path, err)
	}
	return &badgerdb{db: bd}, nil
}

func bucketKey(bucket string, key []byte) []byte {
	k := make([]byte, 0, len(bucket)+1+len(key))
	k = append(k, bucket...)
	k = append(k, '/')
	return append(k, key...)
}

func (bd *badgerdb) NewBucket(name string) error {
	return bd.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(bucketMarker+name), []byte{1})
	})
}

func (bd *badgerdb) Put(bucket string, key, value []byte) error {
	return bd.db.Update(func(txn *badger.Txn) error {
		return put(txn, bucket, key, value)
	})
}

func (bd *badgerdb) Delete(bucket string, key []byte) error {
	return bd.db.Update(func(txn *badger.Txn) error {
		return del(txn, bucket, key)
	})
}

func (bd *badgerdb) Get(bucket string, key []byte) ([]byte, error) {
	var val []byte
	err := bd.db.View(func(txn *badger.Txn) error {
		var err error
		val, err = get(txn, bucket, key)
		return err
	})
	return val, err
}

func (bd *badgerdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	var vals [][]byte
	err := bd.db.View(func(txn *badger.Txn) error {
		var err error
		vals, err = getAll(txn, bucket, keyPrefix)
		return err
	})
	return vals, err
}

func (bd *badgerdb) Close() error {
	if bd.db != nil {
		return bd.db.Close()
	}
	return nil
}

func (bd *badgerdb) Begin() (db.Tx, error) {
	return &badgerTx{txn: bd.db.NewTransaction(true)}, nil
}

type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Get(bucket string, key []byte) ([]byte, error) {
	return get(t.txn, bucket, key)
}

func (t *badgerTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	return getAll(t.txn, bucket, keyPrefix)
}

func (t *badgerTx) Put(bucket string, key, value []byte) error {
	return put(t.txn, bucket, key, value)
}

func (t *badgerTx) Delete(bucket string, key []byte) error {
	return del(t.txn, bucket, key)
}

func (t *badgerTx) Commit() error {
	return t.txn.Commit()
}

func (t *badgerTx) Rollback() error {
	t.txn.Discard()
	return nil
}

func hasBucket(txn *badger.Txn, bucket string) (bool, error) {
	_, err := txn.Get([]byte(bucketMarker + bucket))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func get(txn *badger.Txn, bucket string, key []byte) ([]byte, error) {
	item, err := txn.Get(bucketKey(bucket, key))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func getAll(txn *badger.Txn, bucket string, keyPrefix []byte) ([][]byte, error) {
	prefix := bucketKey(bucket, keyPrefix)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var vals [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		v, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func put(txn *badger.Txn, bucket string, key, value []byte) error {
	ok, err := hasBucket(txn, bucket)
	if err != nil {
		return err
	}
	if !ok {
		return db.ErrBucketNotExist
	}
	return txn.Set(bucketKey(bucket, key), value)
}

func del(txn *badger.Txn, bucket string, key []byte) error {
	ok, err := hasBucket(txn, bucket)
	if err != nil {
		return err
	}
	if !ok {
		return db.ErrBucketNotExist
	}
	return txn.Delete(bucketKey(bucket, key))
}
