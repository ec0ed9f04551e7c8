package exchange

import (
	"errors"
	"math/big"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/util"
)

var ErrUnpricedOffer = errors.New("offer does not trade the token against XRP")

// Offer is a book offer seen from the token/XRP market.
type Offer struct {
	types.Offer
	// Tokens traded by the offer.
	Tokens *big.Rat
	// XRP traded by the offer.
	XRP *big.Rat
	// XRP per token.
	Price *big.Rat
	// Own is set when the viewer placed the offer.
	Own bool
}

// newOffer prices a book offer. Exactly one side must be XRP.
func newOffer(o types.Offer, viewer string) (*Offer, error) {
	var tokenSide, xrpSide types.Amount
	switch {
	case o.TakerGets.IsNative() && !o.TakerPays.IsNative():
		xrpSide, tokenSide = o.TakerGets, o.TakerPays
	case !o.TakerGets.IsNative() && o.TakerPays.IsNative():
		xrpSide, tokenSide = o.TakerPays, o.TakerGets
	default:
		return nil, ErrUnpricedOffer
	}
	tokens, err := tokenSide.Rat()
	if err != nil {
		return nil, err
	}
	xrp, err := xrpSide.Rat()
	if err != nil {
		return nil, err
	}
	if tokens.Sign() <= 0 {
		return nil, ErrUnpricedOffer
	}
	return &Offer{
		Offer:  o,
		Tokens: tokens,
		XRP:    xrp,
		Price:  new(big.Rat).Quo(xrp, tokens),
		Own:    viewer != "" && o.Account == viewer,
	}, nil
}

func (o *Offer) TokenString() string { return util.FormatRat(o.Tokens, 6) }
func (o *Offer) XRPString() string   { return util.FormatRat(o.XRP, 6) }
func (o *Offer) PriceString() string { return util.FormatRat(o.Price, 6) }
