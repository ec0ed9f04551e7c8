package op

import (
	"testing"

	"github.com/rubblelabs/ripple/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishtz/carbon-bear-xrpl/client/build"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

const (
	issuer     = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	srcAccount = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
	other      = "rrrrrrrrrrrrrrrrrrrrBZbvji"
)

var bear = types.Issue{Currency: "BEAR", Issuer: issuer}

func TestTrustOp(t *testing.T) {
	trustOp := &Trust{Account: srcAccount, Asset: bear, Limit: "1000000000"}
	tx, err := trustOp.Build()
	require.Nil(t, err)
	_, ok := tx.Tx.(*data.TrustSet)
	assert.True(t, ok)

	// the issuer cannot trust its own asset
	trustOp.Account = issuer
	_, err = trustOp.Build()
	assert.NotNil(t, err)

	_, err = (&Trust{Account: srcAccount, Asset: types.Issue{Currency: types.NativeCurrency}, Limit: "1"}).Build()
	assert.NotNil(t, err)

	_, err = (&Trust{Account: srcAccount, Asset: bear, Limit: "0"}).Build()
	assert.NotNil(t, err)
}

func TestMintOp(t *testing.T) {
	tx, err := (&Mint{Issuer: issuer, Destination: srcAccount, Asset: bear, Amount: "600"}).Build()
	require.Nil(t, err)
	p, ok := tx.Tx.(*data.Payment)
	require.True(t, ok)
	assert.Equal(t, data.PAYMENT, p.TransactionType)

	_, err = (&Mint{Issuer: srcAccount, Destination: other, Asset: bear, Amount: "600"}).Build()
	assert.NotNil(t, err)
	_, err = (&Mint{Issuer: issuer, Destination: issuer, Asset: bear, Amount: "600"}).Build()
	assert.NotNil(t, err)
}

func TestOfferOp(t *testing.T) {
	sell, err := SellOffer(srcAccount, bear, "10", "5")
	require.Nil(t, err)
	assert.Equal(t, "10", sell.TakerGets.Value)
	assert.Equal(t, "5000000", sell.TakerPays.Value)
	tx, err := sell.Build()
	require.Nil(t, err)
	_, ok := tx.Tx.(*data.OfferCreate)
	assert.True(t, ok)

	buy, err := BuyOffer(srcAccount, bear, "5", "10")
	require.Nil(t, err)
	assert.True(t, buy.TakerGets.IsNative())
	assert.Equal(t, "10", buy.TakerPays.Value)

	_, err = SellOffer(srcAccount, bear, "", "5")
	assert.NotNil(t, err)
	_, err = BuyOffer(srcAccount, bear, "-5", "10")
	assert.NotNil(t, err)
}

func TestAcceptOp(t *testing.T) {
	book := &types.Offer{
		Account:   other,
		Sequence:  7,
		TakerGets: types.IOU(types.CurrencyCode("BEAR"), issuer, "10"),
		TakerPays: types.XRP(5000000),
	}
	tx, err := (&Accept{Account: srcAccount, Offer: book}).Build()
	require.Nil(t, err)
	oc, ok := tx.Tx.(*data.OfferCreate)
	require.True(t, ok)
	require.NotNil(t, oc.Flags)
	assert.Equal(t, data.TransactionFlag(build.TfImmediateOrCancel), *oc.Flags)

	_, err = (&Accept{Account: other, Offer: book}).Build()
	assert.Equal(t, ErrOwnOffer, err)
	_, err = (&Accept{Account: srcAccount}).Build()
	assert.NotNil(t, err)
}

func TestDefaultRippleOp(t *testing.T) {
	tx, err := (&DefaultRipple{Issuer: issuer}).Build()
	require.Nil(t, err)
	as, ok := tx.Tx.(*data.AccountSet)
	require.True(t, ok)
	assert.Equal(t, build.AsfDefaultRipple, *as.SetFlag)

	_, err = (&DefaultRipple{}).Build()
	assert.Equal(t, ErrEmptyAccount, err)
}
