package exchange

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/util"
)

// Manager reads the token/XRP order books from the ledger.
type Manager struct {
	ledger client.Ledger
	asset  types.Issue
	limit  int
}

func NewManager(ledger client.Ledger, asset types.Issue, limit int) *Manager {
	return &Manager{ledger: ledger, asset: asset, limit: limit}
}

// Book holds both sides of the token/XRP market.
type Book struct {
	// Offers selling tokens for XRP, cheapest first.
	Asks []*Offer
	// Offers selling XRP for tokens, highest price first.
	Bids []*Offer
}

// OrderBook loads the asks and bids in parallel. Offers are marked
// own when viewer placed them.
func (m *Manager) OrderBook(ctx context.Context, viewer string) (*Book, error) {
	xrp := types.Issue{Currency: types.NativeCurrency}
	book := &Book{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		offers, err := m.load(gctx, m.asset, xrp, viewer, false)
		if err != nil {
			return fmt.Errorf("load asks failed: %v", err)
		}
		book.Asks = offers
		return nil
	})
	g.Go(func() error {
		offers, err := m.load(gctx, xrp, m.asset, viewer, true)
		if err != nil {
			return fmt.Errorf("load bids failed: %v", err)
		}
		book.Bids = offers
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return book, nil
}

func (m *Manager) load(ctx context.Context, gets, pays types.Issue, viewer string, desc bool) ([]*Offer, error) {
	raw, err := m.ledger.BookOffers(ctx, gets, pays, m.limit)
	if err != nil {
		return nil, err
	}
	offers := make([]*Offer, 0, len(raw))
	for _, o := range raw {
		offer, err := newOffer(o, viewer)
		if err != nil {
			log.Warnw("skip book offer", "account", o.Account, "seq", o.Sequence, "err", err)
			continue
		}
		offers = append(offers, offer)
	}
	util.SortStable(OfferSlice(offers), desc)
	return offers, nil
}

// Find looks up an offer by its owner and sequence on both sides.
func (b *Book) Find(owner string, seq uint32) (*types.Offer, bool) {
	for _, side := range [][]*Offer{b.Asks, b.Bids} {
		for _, o := range side {
			if o.Account == owner && o.Sequence == seq {
				offer := o.Offer
				return &offer, true
			}
		}
	}
	return nil, false
}

// TokensForSale sums the tokens offered by all asks.
func (b *Book) TokensForSale() *big.Rat {
	tokens := make([]*big.Rat, 0, len(b.Asks))
	for _, o := range b.Asks {
		tokens = append(tokens, o.Tokens)
	}
	return util.SumRat(tokens...)
}

// TokensOnSale sums the tokens offered by the account's asks.
func (b *Book) TokensOnSale(account string) *big.Rat {
	var tokens []*big.Rat
	for _, o := range b.Asks {
		if o.Account == account {
			tokens = append(tokens, o.Tokens)
		}
	}
	return util.SumRat(tokens...)
}
