package tx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxHistory(t *testing.T) {
	var keys []string

	txh := NewTxHistory()
	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("key-%d", i)
		assert.Nil(t, txh.AddTx(key, uint32(i+1), 10))
		keys = append(keys, key)
	}

	assert.Equal(t, txh.Size(), 4)
	assert.Equal(t, uint32(4), txh.MaxSeqNum)
	assert.Equal(t, int64(40), txh.TotalFees)

	// a lower sequence is rejected
	assert.NotNil(t, txh.AddTx("key-x", 2, 10))

	txh.DeleteTxList(keys[2:])
	assert.Equal(t, uint32(2), txh.MaxSeqNum)
	assert.Equal(t, int64(20), txh.TotalFees)

	txh.DeleteTxList(keys)
	assert.Equal(t, txh.Size(), 0)
}

func TestNextSequence(t *testing.T) {
	txh := NewTxHistory()
	assert.Equal(t, uint32(7), txh.NextSequence(7))

	assert.Nil(t, txh.AddTx("a", 7, 10))
	assert.Equal(t, uint32(8), txh.NextSequence(7))

	// the ledger moved past the pending tx
	assert.Equal(t, uint32(9), txh.NextSequence(9))
}
