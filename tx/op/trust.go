package op

import (
	"errors"

	"github.com/ashishtz/carbon-bear-xrpl/client/build"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
)

// Trust creates or changes the trust line of an account to
// an issued asset.
type Trust struct {
	Account string
	Asset   types.Issue
	Limit   string
}

func (t *Trust) validate() error {
	if t.Account == "" {
		return ErrEmptyAccount
	}
	if t.Asset.IsNative() {
		return errors.New("cannot trust native asset")
	}
	if t.Asset.Issuer == t.Account {
		return errors.New("issuer cannot trust itself")
	}
	if !crypto.IsValidAddress(t.Asset.Issuer) {
		return errors.New("invalid asset issuer")
	}
	return nil
}

func (t *Trust) Build() (*build.Tx, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	limit, err := types.ParseIOU(t.Asset, t.Limit)
	if err != nil {
		return nil, err
	}
	return build.NewTrustSet(limit)
}
