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

package future

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

func TestTxFuture(t *testing.T) {
	txf := Tx{}
	// test respond without Init will panic
	assert.Panics(t, func() { txf.Error() })
	// test error response
	txf.Init()
	txf.Respond(errors.New("tx error"))
	assert.Error(t, txf.Error())
}

func TestTxFutureStatus(t *testing.T) {
	txf := &Tx{}
	txf.Init()
	go func() {
		txf.Hash = "ABCD"
		txf.Status = &types.TxStatus{StatusCode: types.Validated, Hash: "ABCD"}
		txf.Respond(nil)
	}()
	assert.NoError(t, txf.Error())
	assert.Equal(t, types.Validated, txf.Status.StatusCode)
}

func TestRespondOnce(t *testing.T) {
	txf := Tx{}
	txf.Init()
	txf.Respond(errors.New("tx error"))
	// test reuse the same future will have no effect,
	// we still will get the first error
	txf.Respond(errors.New("another tx error"))
	assert.Error(t, txf.Error())
	assert.Equal(t, "tx error", txf.Error().Error())
}
