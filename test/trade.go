package test

import (
	"context"
	"fmt"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
)

func init() {
	Register(&TrustAndMint{})
	Register(&SellAndAccept{})
}

// TrustAndMint tests that a holder trusting the token receives
// minted tokens.
type TrustAndMint struct{}

func (tm *TrustAndMint) Desc() string {
	return "testcase: trust and mint"
}

func (tm *TrustAndMint) Run(ctx context.Context, env *Env) error {
	holder, err := env.newHolder(ctx)
	if err != nil {
		return err
	}
	if err := env.expectTokens(ctx, holder.Address(), "0"); err != nil {
		return err
	}
	if err := env.mint(ctx, holder.Address(), "600"); err != nil {
		return err
	}
	return env.expectTokens(ctx, holder.Address(), "600")
}

// SellAndAccept tests that a sell offer placed by one holder is
// crossed by another holder accepting it.
type SellAndAccept struct{}

func (sa *SellAndAccept) Desc() string {
	return "testcase: sell and accept offer"
}

func (sa *SellAndAccept) Run(ctx context.Context, env *Env) error {
	seller, err := env.newHolder(ctx)
	if err != nil {
		return err
	}
	if err := env.mint(ctx, seller.Address(), "100"); err != nil {
		return err
	}
	buyer, err := env.newHolder(ctx)
	if err != nil {
		return err
	}

	sell, err := op.SellOffer(seller.Address(), env.Asset, "40", "10")
	if err != nil {
		return err
	}
	if err := env.submit(ctx, seller, sell); err != nil {
		return fmt.Errorf("create sell offer failed: %v", err)
	}

	book, err := env.EM.OrderBook(ctx, buyer.Address())
	if err != nil {
		return fmt.Errorf("load order book failed: %v", err)
	}
	var offer *types.Offer
	for _, o := range book.Asks {
		if o.Account == seller.Address() {
			offer = &o.Offer
			break
		}
	}
	if offer == nil {
		return fmt.Errorf("sell offer of %s not in order book", seller.Address())
	}

	accept := &op.Accept{Account: buyer.Address(), Offer: offer}
	if err := env.submit(ctx, buyer, accept); err != nil {
		return fmt.Errorf("accept offer failed: %v", err)
	}

	if err := env.expectTokens(ctx, buyer.Address(), "40"); err != nil {
		return err
	}
	return env.expectTokens(ctx, seller.Address(), "60")
}
