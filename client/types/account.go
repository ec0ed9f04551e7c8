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

// Account is the account root entry returned by account_info.
type Account struct {
	// Classic address of the account.
	Account string `json:"Account"`
	// Balance in drops.
	Balance string `json:"Balance"`
	// Sequence of the next transaction.
	Sequence uint32 `json:"Sequence"`
	// Number of objects owned by the account.
	OwnerCount uint32 `json:"OwnerCount"`
	Flags      uint32 `json:"Flags"`
}

// TrustLine is a line returned by account_lines, seen from the
// requesting account.
type TrustLine struct {
	Account  string `json:"account"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
	Limit    string `json:"limit"`
	NoRipple bool   `json:"no_ripple,omitempty"`
}

// Offer is an order book entry returned by book_offers.
type Offer struct {
	Account   string `json:"Account"`
	Sequence  uint32 `json:"Sequence"`
	TakerGets Amount `json:"TakerGets"`
	TakerPays Amount `json:"TakerPays"`
	Quality   string `json:"quality,omitempty"`
	Flags     uint32 `json:"Flags"`
}

// Fee holds the transaction costs in drops.
type Fee struct {
	BaseFee       int64
	MinimumFee    int64
	OpenLedgerFee int64
}

// Credentials of a newly funded account.
type Credentials struct {
	Address   string
	PublicKey string
	Seed      string
	// Funded balance in XRP.
	Balance string
}
