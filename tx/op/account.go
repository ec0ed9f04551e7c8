package op

import (
	"github.com/ashishtz/carbon-bear-xrpl/client/build"
)

// DefaultRipple lets the issued asset of an account flow between
// holders of trust lines to it.
type DefaultRipple struct {
	Issuer string
}

func (d *DefaultRipple) Build() (*build.Tx, error) {
	if d.Issuer == "" {
		return nil, ErrEmptyAccount
	}
	return build.NewAccountSet(build.AsfDefaultRipple), nil
}
