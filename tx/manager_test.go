package tx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ashishtz/carbon-bear-xrpl/client/build"
	"github.com/ashishtz/carbon-bear-xrpl/client/fake"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db/memdb"
)

const (
	testSeed = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	dst      = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManager(t *testing.T) (*Manager, *fake.Ledger, *crypto.Wallet) {
	w, err := crypto.NewWallet(testSeed)
	require.Nil(t, err)

	l := fake.New()
	l.Fund(w.Address(), 1000000000)

	m, err := NewManager(&ManagerContext{
		Ledger:        l,
		Store:         memdb.New(),
		PollInterval:  time.Millisecond,
		SubmitTimeout: time.Second,
	})
	require.Nil(t, err)
	return m, l, w
}

func payment(t *testing.T) *build.Tx {
	tx, err := build.NewPayment(dst, types.XRP(1000))
	require.Nil(t, err)
	return tx
}

func TestSubmitAndWait(t *testing.T) {
	m, l, w := newManager(t)
	l.PendingPolls = 2

	status, err := m.SubmitAndWait(context.Background(), w, payment(t))
	assert.Nil(t, err)
	assert.Equal(t, types.Validated, status.StatusCode)
	require.Len(t, l.Submissions(), 1)
	assert.Equal(t, l.Submissions()[0].Hash, status.Hash)

	st, err := m.GetTxStatus(status.Hash)
	assert.Nil(t, err)
	assert.Equal(t, types.Validated, st.StatusCode)
}

func TestSubmitRejected(t *testing.T) {
	m, l, w := newManager(t)
	l.EngineResult = "temBAD_AMOUNT"

	f := m.Submit(context.Background(), w, payment(t))
	err := f.Error()
	re, ok := err.(*ResultError)
	require.True(t, ok)
	assert.Equal(t, "temBAD_AMOUNT", re.Code)
	assert.Equal(t, types.Failed, f.Status.StatusCode)
}

func TestSubmitFailedInLedger(t *testing.T) {
	m, l, w := newManager(t)
	l.FinalResult = "tecUNFUNDED_PAYMENT"

	status, err := m.SubmitAndWait(context.Background(), w, payment(t))
	re, ok := err.(*ResultError)
	require.True(t, ok)
	assert.Equal(t, "tecUNFUNDED_PAYMENT", re.Code)
	assert.Equal(t, types.Failed, status.StatusCode)
}

func TestSubmitExpired(t *testing.T) {
	m, l, w := newManager(t)
	l.Lost = true
	l.AutoAdvance = true

	status, err := m.SubmitAndWait(context.Background(), w, payment(t))
	assert.Equal(t, ErrTxExpired, err)
	assert.Equal(t, types.Expired, status.StatusCode)
}

func TestSubmitUnknownAccount(t *testing.T) {
	m, _, _ := newManager(t)
	w, err := crypto.NewWallet(crypto.EncodeSeed([16]byte{1}, crypto.KeyTypeSecp256k1))
	require.Nil(t, err)

	_, err = m.SubmitAndWait(context.Background(), w, payment(t))
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestConsecutiveSequences(t *testing.T) {
	m, l, w := newManager(t)
	l.PendingPolls = 1000

	ctx, cancel := context.WithCancel(context.Background())
	f1 := m.Submit(ctx, w, payment(t))
	f2 := m.Submit(ctx, w, payment(t))

	// both are submitted while still pending
	assert.Eventually(t, func() bool { return len(l.Submissions()) == 2 }, time.Second, time.Millisecond)
	m.mu.Lock()
	assert.Equal(t, uint32(2), m.accTxMap[w.Address()].MaxSeqNum)
	m.mu.Unlock()

	cancel()
	assert.NotNil(t, f1.Error())
	assert.NotNil(t, f2.Error())
	m.Wait()
}
