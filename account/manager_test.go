package account

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishtz/carbon-bear-xrpl/client/fake"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

const (
	issuer  = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	holder  = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
	unknown = "rrrrrrrrrrrrrrrrrrrrBZbvji"
)

var bear = types.Issue{Currency: "BEAR", Issuer: issuer}

func newManager(t *testing.T) (*Manager, *fake.Ledger) {
	l := fake.New()
	am, err := NewManager(l, bear, 10)
	require.Nil(t, err)
	return am, l
}

func TestGetAccount(t *testing.T) {
	am, l := newManager(t)
	l.Fund(holder, 25000000)
	ctx := context.Background()

	acc, err := am.GetAccount(ctx, holder)
	assert.Nil(t, err)
	assert.Equal(t, "25000000", acc.Balance)

	_, err = am.GetAccount(ctx, unknown)
	assert.Equal(t, ErrAccountNotExist, err)

	_, err = am.GetAccount(ctx, "not-an-account")
	assert.Equal(t, ErrInvalidAccount, err)
}

func TestExistsCached(t *testing.T) {
	am, l := newManager(t)
	l.Fund(holder, 25000000)
	ctx := context.Background()

	ok, err := am.Exists(ctx, holder)
	assert.Nil(t, err)
	assert.True(t, ok)

	// a cached account does not hit the ledger
	l.Err = errors.New("ledger down")
	ok, err = am.Exists(ctx, holder)
	assert.Nil(t, err)
	assert.True(t, ok)

	_, err = am.Exists(ctx, unknown)
	assert.NotNil(t, err)

	l.Err = nil
	ok, err = am.Exists(ctx, unknown)
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestBalances(t *testing.T) {
	am, l := newManager(t)
	l.Fund(holder, 25500000)
	ctx := context.Background()

	b, err := am.Balances(ctx, holder)
	assert.Nil(t, err)
	assert.False(t, b.HasTrustLine)
	assert.Equal(t, "25.5", b.XRPString())
	assert.Equal(t, "0", b.TokenString())

	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: types.CurrencyCode("BEAR"), Balance: "600", Limit: "1000000000"})
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "BEAR", Balance: "400.5", Limit: "1000000000"})
	// other currencies are ignored
	l.AddTrustLine(holder, types.TrustLine{Account: issuer, Currency: "USD", Balance: "7", Limit: "10"})

	b, err = am.Balances(ctx, holder)
	assert.Nil(t, err)
	assert.True(t, b.HasTrustLine)
	assert.Equal(t, 0, b.Tokens.Cmp(big.NewRat(20010, 20)))

	ok, err := am.HasTrustLine(ctx, holder)
	assert.Nil(t, err)
	assert.True(t, ok)

	_, err = am.Balances(ctx, unknown)
	assert.Equal(t, ErrAccountNotExist, err)
}
