// Package op turns the application's ledger operations into
// transactions ready for submission.
package op

import (
	"errors"

	"github.com/ashishtz/carbon-bear-xrpl/client/build"
)

var (
	ErrEmptyAccount = errors.New("empty account id")
	ErrOwnOffer     = errors.New("cannot accept own offer")
)

// Op represents the interface with which various
// ledger operations should comply.
type Op interface {
	Build() (*build.Tx, error)
}
