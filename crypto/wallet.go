package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	rcrypto "github.com/rubblelabs/ripple/crypto"
	"github.com/rubblelabs/ripple/data"
)

// Wallet is a signing key derived from a family seed.
type Wallet struct {
	seed    string
	keyType KeyType
	key     rcrypto.Key
	keySeq  *uint32
	account data.Account
}

// NewWallet derives the signing key and the account of the seed.
func NewWallet(seed string) (*Wallet, error) {
	entropy, kt, err := DecodeSeed(strings.TrimSpace(seed))
	if err != nil {
		return nil, err
	}
	return newWallet(entropy, kt)
}

func newWallet(entropy [16]byte, kt KeyType) (w *Wallet, err error) {
	// the key derivation of the sdk panics on bad input
	defer func() {
		if r := recover(); r != nil {
			w, err = nil, fmt.Errorf("derive key failed: %v", r)
		}
	}()

	s := data.Seed(entropy)
	w = &Wallet{seed: EncodeSeed(entropy, kt), keyType: kt}
	switch kt {
	case KeyTypeEd25519:
		w.key = s.Key(data.Ed25519)
		w.account = s.AccountId(data.Ed25519, nil)
	default:
		var zero uint32
		w.keySeq = &zero
		w.key = s.Key(data.ECDSA)
		w.account = s.AccountId(data.ECDSA, w.keySeq)
	}
	return w, nil
}

// ValidateWallet derives the wallet of seed and checks that it
// controls accountID.
func ValidateWallet(seed, accountID string) (*Wallet, error) {
	w, err := NewWallet(seed)
	if err != nil {
		return nil, ErrInvalidSeed
	}
	if w.Address() != accountID {
		return nil, ErrInvalidSeed
	}
	return w, nil
}

func (w *Wallet) Seed() string { return w.seed }

func (w *Wallet) KeyType() KeyType { return w.keyType }

func (w *Wallet) Account() data.Account { return w.account }

// Address returns the classic address of the wallet account.
func (w *Wallet) Address() string {
	return EncodeAddress([20]byte(w.account))
}

// PublicKey returns the hex encoded public key.
func (w *Wallet) PublicKey() string {
	return strings.ToUpper(hex.EncodeToString(w.key.Public(w.keySeq)))
}

// Sign fills in the signing public key and the signature of tx.
func (w *Wallet) Sign(tx data.Transaction) error {
	if err := data.Sign(tx, w.key, w.keySeq); err != nil {
		return fmt.Errorf("sign tx failed: %v", err)
	}
	return nil
}
