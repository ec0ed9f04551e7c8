package badgerdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashishtz/carbon-bear-xrpl/db"
)

func TestDBOps(t *testing.T) {
	bd, err := New(t.TempDir())
	assert.Nil(t, err)
	defer bd.Close()

	assert.Nil(t, bd.NewBucket("TEST"))

	val, err := bd.Get("TEST", []byte("none"))
	assert.Nil(t, err)
	assert.Nil(t, val)

	assert.Nil(t, bd.Put("TEST", []byte("testKey"), []byte("testValue")))
	assert.Nil(t, bd.Put("TEST", []byte("testKey2"), []byte("testValue2")))
	assert.Nil(t, bd.Put("TEST", []byte("zzz"), []byte("other")))

	val, err = bd.Get("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("testValue"), val)

	vals, err := bd.GetAll("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("testValue"), []byte("testValue2")}, vals)

	assert.Nil(t, bd.Delete("TEST", []byte("testKey")))
	val, err = bd.Get("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Nil(t, val)

	assert.Equal(t, db.ErrBucketNotExist, bd.Put("NONE", []byte("k"), []byte("v")))
}

func TestTx(t *testing.T) {
	bd, err := New(t.TempDir())
	assert.Nil(t, err)
	defer bd.Close()
	assert.Nil(t, bd.NewBucket("TEST"))

	tx, err := bd.Begin()
	assert.Nil(t, err)
	assert.Nil(t, tx.Put("TEST", []byte("k"), []byte("v")))
	assert.Nil(t, tx.Rollback())
	val, _ := bd.Get("TEST", []byte("k"))
	assert.Nil(t, val)

	tx, err = bd.Begin()
	assert.Nil(t, err)
	assert.Nil(t, tx.Put("TEST", []byte("k"), []byte("v")))
	assert.Nil(t, tx.Commit())
	val, _ = bd.Get("TEST", []byte("k"))
	assert.Equal(t, []byte("v"), val)
}
