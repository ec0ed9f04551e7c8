package memdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashishtz/carbon-bear-xrpl/db"
)

// Test Memdb.
func TestMemDB(t *testing.T) {
	// open the database
	m := New()
	assert.Nil(t, m.NewBucket("TEST"))

	// test get nonexistance key
	val, err := m.Get("TEST", []byte("none"))
	assert.Nil(t, err)
	assert.Equal(t, []byte(nil), val)

	// test set key/value pair
	err = m.Put("TEST", []byte("testKey"), []byte("testValue"))
	assert.Equal(t, nil, err)

	// test get value of key
	val, err = m.Get("TEST", []byte("testKey"))
	assert.Equal(t, err, nil)
	assert.Equal(t, []byte("testValue"), val)

	// prefix scan is ordered by key
	assert.Nil(t, m.Put("TEST", []byte("testKey0"), []byte("first")))
	vals, err := m.GetAll("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("testValue"), []byte("first")}, vals)

	// missing bucket
	assert.Equal(t, db.ErrBucketNotExist, m.Put("NONE", []byte("k"), nil))

	// closed database
	assert.Nil(t, m.Close())
	_, err = m.Get("TEST", []byte("testKey"))
	assert.Equal(t, db.ErrClosed, err)
}

func TestMemDBTx(t *testing.T) {
	m := New()
	assert.Nil(t, m.NewBucket("TEST"))
	assert.Nil(t, m.Put("TEST", []byte("gone"), []byte("v")))

	tx, err := m.Begin()
	assert.Nil(t, err)
	assert.Nil(t, tx.Put("TEST", []byte("k"), []byte("v")))
	assert.Nil(t, tx.Delete("TEST", []byte("gone")))

	// writes are visible inside the tx only
	v, _ := tx.Get("TEST", []byte("k"))
	assert.Equal(t, []byte("v"), v)
	v, _ = m.Get("TEST", []byte("k"))
	assert.Nil(t, v)
	v, _ = tx.Get("TEST", []byte("gone"))
	assert.Nil(t, v)

	assert.Nil(t, tx.Commit())
	v, _ = m.Get("TEST", []byte("k"))
	assert.Equal(t, []byte("v"), v)
	v, _ = m.Get("TEST", []byte("gone"))
	assert.Nil(t, v)
}
