package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/client/fake"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db/memdb"
	"github.com/ashishtz/carbon-bear-xrpl/tx"
)

const (
	issuerSeed = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	issuer     = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	holder     = "rrrrrrrrrrrrrrrrrrrrBZbvji"
	other      = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
)

var bear = types.Issue{Currency: "BEAR", Issuer: issuer}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManager(t *testing.T, allowRepeat bool) (*Manager, *fake.Ledger) {
	return newManagerTimeout(t, allowRepeat, 0)
}

func newManagerTimeout(t *testing.T, allowRepeat bool, submitTimeout time.Duration) (*Manager, *fake.Ledger) {
	l := fake.New()
	l.Fund(issuer, 1000000000)
	l.Fund(holder, 100000000)
	l.Fund(other, 100000000)

	store := memdb.New()
	tm, err := tx.NewManager(&tx.ManagerContext{
		Ledger:        l,
		Store:         store,
		SubmitTimeout: submitTimeout,
		PollInterval:  time.Millisecond,
	})
	require.Nil(t, err)
	am, err := account.NewManager(l, bear, 10)
	require.Nil(t, err)
	w, err := crypto.NewWallet(issuerSeed)
	require.Nil(t, err)

	m, err := NewManager(&ManagerContext{
		Store:       store,
		TM:          tm,
		AM:          am,
		Issuer:      w,
		Asset:       bear,
		AllowRepeat: allowRepeat,
	})
	require.Nil(t, err)
	return m, l
}

func TestClaimRequiresTrustLine(t *testing.T) {
	m, l := newManager(t, false)
	p, _ := Find("1")

	_, err := m.Claim(context.Background(), holder, p)
	assert.Equal(t, ErrNoTrustLine, err)
	assert.Len(t, l.Submissions(), 0)
}

func TestClaim(t *testing.T) {
	m, l := newManager(t, false)
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: types.CurrencyCode("BEAR"), Balance: "0", Limit: "1000000000"})
	ctx := context.Background()
	p, _ := Find("1")

	rec, err := m.Claim(ctx, holder, p)
	require.Nil(t, err)
	assert.Equal(t, "600", rec.Amount)
	require.Len(t, l.Submissions(), 1)
	assert.Equal(t, l.Submissions()[0].Hash, rec.TxHash)

	// the same product cannot be claimed twice
	_, err = m.Claim(ctx, holder, p)
	assert.Equal(t, ErrAlreadyClaimed, err)

	p2, _ := Find("2")
	_, err = m.Claim(ctx, holder, p2)
	assert.Nil(t, err)

	recs, err := m.Claims(holder)
	assert.Nil(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].ProductID)
	assert.Equal(t, 2, recs[1].ProductID)

	claimed, err := m.ClaimedProducts(holder)
	assert.Nil(t, err)
	assert.True(t, claimed.Contains(1))
	assert.True(t, claimed.Contains(2))

	// a copy is returned
	claimed.Remove(1)
	claimed, _ = m.ClaimedProducts(holder)
	assert.True(t, claimed.Contains(1))
}

func TestRepeatClaims(t *testing.T) {
	m, l := newManager(t, true)
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "0", Limit: "1000000000"})
	p, _ := Find("2")

	_, err := m.Claim(context.Background(), holder, p)
	assert.Nil(t, err)
	_, err = m.Claim(context.Background(), holder, p)
	assert.Nil(t, err)
	assert.Len(t, l.Submissions(), 2)
}

func TestClaimMintFailure(t *testing.T) {
	m, l := newManager(t, false)
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "0", Limit: "1000000000"})
	l.EngineResult = "temBAD_CURRENCY"
	p, _ := Find("1")

	_, err := m.Claim(context.Background(), holder, p)
	assert.NotNil(t, err)
	recs, _ := m.Claims(holder)
	assert.Len(t, recs, 0)

	// a rejected mint leaves the product claimable
	l.EngineResult = "tesSUCCESS"
	_, err = m.Claim(context.Background(), holder, p)
	assert.Nil(t, err)
	assert.Len(t, l.Submissions(), 2)
}

func TestClaimOutlivesRequest(t *testing.T) {
	m, l := newManager(t, false)
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "0", Limit: "1000000000"})
	l.PendingPolls = 5
	p, _ := Find("1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec, err := m.Claim(ctx, holder, p)
	require.Nil(t, err)
	assert.False(t, rec.Pending)
	require.Len(t, l.Submissions(), 1)
	assert.Equal(t, l.Submissions()[0].Hash, rec.TxHash)

	_, err = m.Claim(context.Background(), holder, p)
	assert.Equal(t, ErrAlreadyClaimed, err)
	assert.Len(t, l.Submissions(), 1)
}

func TestClaimUnknownOutcome(t *testing.T) {
	m, l := newManagerTimeout(t, false, 20*time.Millisecond)
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "0", Limit: "1000000000"})
	l.Lost = true
	p, _ := Find("1")

	_, err := m.Claim(context.Background(), holder, p)
	assert.NotNil(t, err)
	require.Len(t, l.Submissions(), 1)

	recs, err := m.Claims(holder)
	require.Nil(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Pending)
	assert.Equal(t, l.Submissions()[0].Hash, recs[0].TxHash)

	// the mint may still land, so the product stays claimed
	_, err = m.Claim(context.Background(), holder, p)
	assert.Equal(t, ErrAlreadyClaimed, err)
	assert.Len(t, l.Submissions(), 1)
}

func TestClaimLockPerAccount(t *testing.T) {
	m, l := newManager(t, false)
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "0", Limit: "1000000000"})
	l.AddTrustLine(other, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "0", Limit: "1000000000"})
	p, _ := Find("1")

	unlock := m.lock(holder)

	// another account is not held up
	_, err := m.Claim(context.Background(), other, p)
	assert.Nil(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := m.Claim(context.Background(), holder, p)
		done <- err
	}()
	select {
	case <-done:
		t.Fatal("claim ran while the account was locked")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("claim did not finish")
	}

	m.mu.Lock()
	assert.Len(t, m.locks, 0)
	m.mu.Unlock()
}

func TestIssuerMismatch(t *testing.T) {
	w, err := crypto.NewWallet(issuerSeed)
	require.Nil(t, err)
	err = ValidateManagerContext(&ManagerContext{
		Store:  memdb.New(),
		TM:     &tx.Manager{},
		AM:     &account.Manager{},
		Issuer: w,
		Asset:  types.Issue{Currency: "BEAR", Issuer: holder},
	})
	assert.NotNil(t, err)
}
