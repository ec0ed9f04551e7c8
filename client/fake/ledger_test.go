package fake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

const account = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"

func TestAccounts(t *testing.T) {
	l := New()
	ctx := context.Background()

	_, err := l.AccountInfo(ctx, account)
	assert.True(t, client.IsRPCError(err, "actNotFound"))

	l.Fund(account, 100)
	acc, err := l.AccountInfo(ctx, account)
	assert.Nil(t, err)
	assert.Equal(t, "100", acc.Balance)
	assert.Equal(t, uint32(1), acc.Sequence)
}

func TestSubmitLifecycle(t *testing.T) {
	l := New()
	l.PendingPolls = 1
	ctx := context.Background()

	res, err := l.Submit(ctx, "1200002200000000")
	assert.Nil(t, err)
	assert.Equal(t, "tesSUCCESS", res.EngineResult)
	assert.Len(t, l.Submissions(), 1)

	st, err := l.Tx(ctx, res.Hash)
	assert.Nil(t, err)
	assert.Equal(t, types.Pending, st.StatusCode)

	st, err = l.Tx(ctx, res.Hash)
	assert.Nil(t, err)
	assert.Equal(t, types.Validated, st.StatusCode)

	_, err = l.Submit(ctx, "zz")
	assert.True(t, client.IsRPCError(err, "invalidParams"))
}

func TestBookOffers(t *testing.T) {
	l := New()
	bear := types.Issue{Currency: "BEAR", Issuer: account}
	xrp := types.Issue{Currency: types.NativeCurrency}
	l.AddOffer(types.Offer{Account: account, Sequence: 1, TakerGets: types.IOU("BEAR", account, "1"), TakerPays: types.XRP(10)})
	l.AddOffer(types.Offer{Account: account, Sequence: 2, TakerGets: types.XRP(10), TakerPays: types.IOU("BEAR", account, "1")})

	offers, err := l.BookOffers(context.Background(), bear, xrp, 0)
	assert.Nil(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, uint32(1), offers[0].Sequence)
}
