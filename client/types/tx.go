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

package types

import "strings"

type TxStatusCode uint8

const (
	// The tx is unknown to the ledger.
	NotExist TxStatusCode = iota
	// The tx has been submitted but is not in a validated ledger yet.
	Pending
	// The tx is in a validated ledger with tesSUCCESS.
	Validated
	// The tx is in a validated ledger or was rejected with
	// a result other than tesSUCCESS.
	Failed
	// The last ledger sequence of the tx has passed.
	Expired
	// Status could not be determined.
	Unknown
)

func (ts TxStatusCode) String() string {
	switch ts {
	case NotExist:
		return "not exist"
	case Pending:
		return "pending"
	case Validated:
		return "validated"
	case Failed:
		return "failed"
	case Expired:
		return "expired"
	case Unknown:
		return "unknown"
	}
	return ""
}

// TxStatus is the observed state of a submitted transaction.
type TxStatus struct {
	StatusCode   TxStatusCode
	EngineResult string
	Hash         string
	LedgerIndex  uint32
}

// SubmitResult is the preliminary result of a submit.
type SubmitResult struct {
	EngineResult        string
	EngineResultMessage string
	Hash                string
}

// Retryable reports whether the preliminary result may still lead
// to the tx being applied.
func (r *SubmitResult) Retryable() bool {
	switch {
	case r.EngineResult == "tesSUCCESS", r.EngineResult == "terQUEUED":
		return true
	case strings.HasPrefix(r.EngineResult, "tem"),
		strings.HasPrefix(r.EngineResult, "tef"),
		strings.HasPrefix(r.EngineResult, "tel"):
		return false
	}
	// ter and tec results can still be included in a ledger
	return true
}
