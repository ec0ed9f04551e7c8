package build

import (
	"errors"
	"fmt"

	"github.com/rubblelabs/ripple/data"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
)

var ErrNilTx = errors.New("tx is nil")

// TxMutator defines the method which all the transaction
// mutators should implement.
type TxMutator interface {
	Mutate(tx *data.TxBase) error
}

// AccountID sets the sending account of the tx.
type AccountID struct {
	AccountID string
}

func (a *AccountID) validate() error {
	if a.AccountID == "" {
		return errors.New("empty account id")
	}
	if !crypto.IsValidAddress(a.AccountID) {
		return errors.New("invalid account address")
	}
	return nil
}

// Mutate changes the Account field of the tx.
func (a *AccountID) Mutate(tx *data.TxBase) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := a.validate(); err != nil {
		return err
	}
	id, _ := crypto.DecodeAddress(a.AccountID)
	tx.Account = data.Account(id)
	return nil
}

// Sequence sets the account sequence of the tx.
type Sequence struct {
	Sequence uint32
}

func (s *Sequence) validate() error {
	if s.Sequence == 0 {
		return errors.New("sequence is zero")
	}
	return nil
}

func (s *Sequence) Mutate(tx *data.TxBase) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := s.validate(); err != nil {
		return err
	}
	tx.Sequence = s.Sequence
	return nil
}

// Fee sets the transaction cost in drops.
type Fee struct {
	Drops int64
}

func (f *Fee) validate() error {
	if f.Drops <= 0 {
		return errors.New("fee is not positive")
	}
	return nil
}

func (f *Fee) Mutate(tx *data.TxBase) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := f.validate(); err != nil {
		return err
	}
	v, err := data.NewNativeValue(f.Drops)
	if err != nil {
		return fmt.Errorf("fee value failed: %v", err)
	}
	tx.Fee = *v
	return nil
}

// LastLedger sets the last ledger the tx may be included in.
type LastLedger struct {
	Sequence uint32
}

func (l *LastLedger) Mutate(tx *data.TxBase) error {
	if tx == nil {
		return ErrNilTx
	}
	if l.Sequence == 0 {
		return errors.New("last ledger sequence is zero")
	}
	seq := l.Sequence
	tx.LastLedgerSequence = &seq
	return nil
}

// Flags ors the flags into the tx flags.
type Flags struct {
	Flags uint32
}

func (f *Flags) Mutate(tx *data.TxBase) error {
	if tx == nil {
		return ErrNilTx
	}
	var flags data.TransactionFlag
	if tx.Flags != nil {
		flags = *tx.Flags
	}
	flags |= data.TransactionFlag(f.Flags)
	tx.Flags = &flags
	return nil
}

// amount converts an amount to its ledger form.
func amount(a types.Amount) (data.Amount, error) {
	if a.IsNative() {
		drops, err := a.Drops()
		if err != nil {
			return data.Amount{}, fmt.Errorf("invalid drops %q: %v", a.Value, err)
		}
		if drops <= 0 {
			return data.Amount{}, errors.New("amount is not positive")
		}
		v, err := data.NewNativeValue(drops)
		if err != nil {
			return data.Amount{}, err
		}
		return data.Amount{Value: v}, nil
	}

	r, err := a.Rat()
	if err != nil {
		return data.Amount{}, err
	}
	if r.Sign() < 0 {
		return data.Amount{}, errors.New("amount is negative")
	}
	v, err := data.NewValue(a.Value, false)
	if err != nil {
		return data.Amount{}, fmt.Errorf("invalid value %q: %v", a.Value, err)
	}
	currency, err := data.NewCurrency(types.CurrencyCode(a.Currency))
	if err != nil {
		return data.Amount{}, fmt.Errorf("invalid currency %q: %v", a.Currency, err)
	}
	issuer, err := crypto.DecodeAddress(a.Issuer)
	if err != nil {
		return data.Amount{}, fmt.Errorf("invalid issuer %q: %v", a.Issuer, err)
	}
	return data.Amount{Value: v, Currency: currency, Issuer: data.Account(issuer)}, nil
}
