// Copyright 2019 The go-ultiledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package build

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rubblelabs/ripple/data"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
)

// AccountSet flags.
const (
	AsfRequireDest    uint32 = 1
	AsfDefaultRipple  uint32 = 8
	AsfAllowTrustLine uint32 = 15
)

// OfferCreate flags.
const (
	TfPassive           uint32 = 0x00010000
	TfImmediateOrCancel uint32 = 0x00020000
	TfFillOrKill        uint32 = 0x00040000
	TfSell              uint32 = 0x00080000
)

// Tx serves as the main object for building a transaction.
type Tx struct {
	Tx data.Transaction
}

// NewTrustSet creates or changes the trust line of limit's currency
// towards limit's issuer.
func NewTrustSet(limit types.Amount) (*Tx, error) {
	if limit.IsNative() {
		return nil, errors.New("trust line limit must be an issued currency")
	}
	la, err := amount(limit)
	if err != nil {
		return nil, err
	}
	ts := &data.TrustSet{LimitAmount: la}
	ts.TransactionType = data.TRUST_SET
	return &Tx{Tx: ts}, nil
}

func NewPayment(destination string, amt types.Amount) (*Tx, error) {
	dst, err := crypto.DecodeAddress(destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination: %v", err)
	}
	a, err := amount(amt)
	if err != nil {
		return nil, err
	}
	p := &data.Payment{Destination: data.Account(dst), Amount: a}
	p.TransactionType = data.PAYMENT
	return &Tx{Tx: p}, nil
}

// NewOfferCreate places an offer giving takerGets for takerPays.
func NewOfferCreate(takerGets, takerPays types.Amount) (*Tx, error) {
	if takerGets.IsNative() && takerPays.IsNative() {
		return nil, errors.New("offer cannot trade XRP for XRP")
	}
	gets, err := amount(takerGets)
	if err != nil {
		return nil, err
	}
	pays, err := amount(takerPays)
	if err != nil {
		return nil, err
	}
	oc := &data.OfferCreate{TakerGets: gets, TakerPays: pays}
	oc.TransactionType = data.OFFER_CREATE
	return &Tx{Tx: oc}, nil
}

func NewAccountSet(setFlag uint32) *Tx {
	flag := setFlag
	as := &data.AccountSet{SetFlag: &flag}
	as.TransactionType = data.ACCOUNT_SET
	return &Tx{Tx: as}
}

// Base returns the common fields of the tx.
func (t *Tx) Base() *data.TxBase {
	if t == nil || t.Tx == nil {
		return nil
	}
	return t.Tx.GetBase()
}

// Add adds one or more mutators to the underlying transaction
// and if any of the mutation fails the method fails.
func (t *Tx) Add(ms ...TxMutator) error {
	base := t.Base()
	if base == nil {
		return ErrNilTx
	}
	for _, m := range ms {
		if err := m.Mutate(base); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) validate() error {
	base := t.Base()
	if base == nil {
		return ErrNilTx
	}
	var zero data.Account
	if base.Account == zero {
		return errors.New("empty account id")
	}
	if base.Sequence == 0 {
		return errors.New("sequence is zero")
	}
	if base.SigningPubKey == nil || base.TxnSignature == nil {
		return errors.New("tx is not signed")
	}
	return nil
}

// Encode serializes the signed tx and returns its hash and the
// upper case hex blob for submission.
func (t *Tx) Encode() (string, string, error) {
	if err := t.validate(); err != nil {
		return "", "", fmt.Errorf("tx is invalid: %v", err)
	}
	hash, raw, err := data.Raw(t.Tx)
	if err != nil {
		return "", "", fmt.Errorf("encode tx failed: %v", err)
	}
	return hash.String(), strings.ToUpper(hex.EncodeToString(raw)), nil
}
