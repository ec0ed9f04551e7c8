package op

import (
	"errors"

	"github.com/ashishtz/carbon-bear-xrpl/client/build"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

// Offer places an offer giving TakerGets in exchange for TakerPays.
type Offer struct {
	Account   string
	TakerGets types.Amount
	TakerPays types.Amount
	Flags     uint32
}

// SellOffer offers tokens of asset for xrp, both decimal strings.
func SellOffer(account string, asset types.Issue, tokens, xrp string) (*Offer, error) {
	gets, err := types.ParseIOU(asset, tokens)
	if err != nil {
		return nil, err
	}
	pays, err := types.ParseXRP(xrp)
	if err != nil {
		return nil, err
	}
	return &Offer{Account: account, TakerGets: gets, TakerPays: pays}, nil
}

// BuyOffer offers xrp for tokens of asset, both decimal strings.
func BuyOffer(account string, asset types.Issue, xrp, tokens string) (*Offer, error) {
	gets, err := types.ParseXRP(xrp)
	if err != nil {
		return nil, err
	}
	pays, err := types.ParseIOU(asset, tokens)
	if err != nil {
		return nil, err
	}
	return &Offer{Account: account, TakerGets: gets, TakerPays: pays}, nil
}

func (o *Offer) validate() error {
	if o.Account == "" {
		return ErrEmptyAccount
	}
	if o.TakerGets.Issue.Equal(o.TakerPays.Issue) {
		return errors.New("offer must trade two different assets")
	}
	return nil
}

func (o *Offer) Build() (*build.Tx, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	t, err := build.NewOfferCreate(o.TakerGets, o.TakerPays)
	if err != nil {
		return nil, err
	}
	if o.Flags != 0 {
		if err := t.Add(&build.Flags{Flags: o.Flags}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Accept takes an offer from the book by placing an offer that
// exactly crosses it and is cancelled if it does not fill.
type Accept struct {
	Account string
	Offer   *types.Offer
}

func (a *Accept) validate() error {
	if a.Account == "" {
		return ErrEmptyAccount
	}
	if a.Offer == nil {
		return errors.New("offer is nil")
	}
	if a.Offer.Account == a.Account {
		return ErrOwnOffer
	}
	return nil
}

func (a *Accept) Build() (*build.Tx, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	o := &Offer{
		Account:   a.Account,
		TakerGets: a.Offer.TakerPays,
		TakerPays: a.Offer.TakerGets,
		Flags:     build.TfImmediateOrCancel,
	}
	return o.Build()
}
