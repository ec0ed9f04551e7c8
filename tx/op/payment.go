package op

import (
	"errors"

	"github.com/ashishtz/carbon-bear-xrpl/client/build"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

// Mint issues new tokens by paying them from the issuer.
type Mint struct {
	Issuer      string
	Destination string
	Asset       types.Issue
	Amount      string
}

func (m *Mint) validate() error {
	if m.Issuer == "" || m.Destination == "" {
		return ErrEmptyAccount
	}
	if m.Asset.IsNative() || m.Asset.Issuer != m.Issuer {
		return errors.New("only the issuer can mint its asset")
	}
	if m.Destination == m.Issuer {
		return errors.New("cannot mint to the issuer")
	}
	return nil
}

func (m *Mint) Build() (*build.Tx, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	amount, err := types.ParseIOU(m.Asset, m.Amount)
	if err != nil {
		return nil, err
	}
	return build.NewPayment(m.Destination, amount)
}
