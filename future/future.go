// Package future defines futures used to wait for the outcome
// of work running in the background.
package future

import (
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

type Future interface {
	Error() error
}

// Allow a future to respond an error in the future
type deferError struct {
	err       error
	errChan   chan error
	responded bool
}

// Every future should call this method to initialize
// underlying error channel
func (d *deferError) Init() {
	d.errChan = make(chan error, 1)
}

// Each future should respond error once and multiple
// calling with different error on the same future will
// have no effects.
func (d *deferError) Respond(err error) {
	if d.errChan == nil || d.responded {
		return
	}
	d.errChan <- err
	close(d.errChan)
	d.responded = true
}

// Error always return the first responded error
func (d *deferError) Error() error {
	if d.err != nil {
		return d.err
	}
	if d.errChan == nil {
		panic("waiting for response on nil channel")
	}
	d.err = <-d.errChan
	return d.err
}

// Future for a submitted transaction. Hash is known once the tx
// has been signed and Status once the future responded.
type Tx struct {
	deferError
	Hash   string
	Status *types.TxStatus
}
