package tx

import (
	"fmt"
)

// TxHistory holds the submitted but not yet settled transactions
// of an account so consecutive submits get consecutive sequences.
type TxHistory struct {
	// Max sequence of the pending transactions.
	MaxSeqNum uint32
	// Total fees in drops of the pending transactions.
	TotalFees int64

	// Pending tx hash to its sequence and fee.
	txMap map[string]pendingTx
}

type pendingTx struct {
	seq uint32
	fee int64
}

func NewTxHistory() *TxHistory {
	return &TxHistory{txMap: make(map[string]pendingTx)}
}

// AddTx adds a submitted transaction to the pending list.
func (th *TxHistory) AddTx(hash string, seq uint32, fee int64) error {
	if seq <= th.MaxSeqNum {
		return fmt.Errorf("tx sequence mismatch: max %d, input %d", th.MaxSeqNum, seq)
	}
	th.MaxSeqNum = seq
	th.TotalFees += fee
	th.txMap[hash] = pendingTx{seq: seq, fee: fee}
	return nil
}

// Delete transactions and update fields.
func (th *TxHistory) DeleteTxList(hashes []string) {
	for _, hash := range hashes {
		delete(th.txMap, hash)
	}

	// Recalculate total fees and max sequence.
	maxseq := uint32(0)
	totalFees := int64(0)
	for _, p := range th.txMap {
		if p.seq > maxseq {
			maxseq = p.seq
		}
		totalFees += p.fee
	}
	th.MaxSeqNum = maxseq
	th.TotalFees = totalFees
}

// NextSequence returns the sequence to use for a new tx given the
// account sequence reported by the ledger.
func (th *TxHistory) NextSequence(accountSeq uint32) uint32 {
	if th.MaxSeqNum >= accountSeq {
		return th.MaxSeqNum + 1
	}
	return accountSeq
}

// Get the size of internal tx map.
func (th *TxHistory) Size() int {
	return len(th.txMap)
}
