// Package fake provides an in-memory ledger for tests.
package fake

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

var txIDPrefix = []byte{'T', 'X', 'N', 0}

// Submission is a transaction blob received by Submit.
type Submission struct {
	Hash string
	Blob string
}

// Ledger keeps accounts, trust lines and offers in memory. Submitted
// transactions are recorded but not applied to the state.
type Ledger struct {
	mu        sync.Mutex
	accounts  map[string]types.Account
	lines     map[string][]types.TrustLine
	offers    []types.Offer
	current   uint32
	fee       types.Fee
	submitted []Submission
	txs       map[string]*txEntry

	// EngineResult is the preliminary result of every submit.
	EngineResult string
	// FinalResult is the result a submitted tx is validated with.
	FinalResult string
	// PendingPolls is the number of Tx lookups reporting a
	// submitted tx as pending before it is validated.
	PendingPolls int
	// Lost makes submitted transactions never reach a ledger.
	Lost bool
	// AutoAdvance closes a ledger on every LedgerCurrent call.
	AutoAdvance bool
	// Err is returned by every call when set.
	Err error
}

type txEntry struct {
	polls  int
	result string
	ledger uint32
}

func New() *Ledger {
	return &Ledger{
		accounts:     make(map[string]types.Account),
		lines:        make(map[string][]types.TrustLine),
		txs:          make(map[string]*txEntry),
		current:      1000,
		fee:          types.Fee{BaseFee: 10, MinimumFee: 10, OpenLedgerFee: 10},
		EngineResult: "tesSUCCESS",
		FinalResult:  "tesSUCCESS",
	}
}

// SetAccount creates or replaces an account root.
func (l *Ledger) SetAccount(acc types.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acc.Sequence == 0 {
		acc.Sequence = 1
	}
	l.accounts[acc.Account] = acc
}

// Fund creates an account holding drops.
func (l *Ledger) Fund(account string, drops int64) {
	l.SetAccount(types.Account{Account: account, Balance: fmt.Sprintf("%d", drops)})
}

// AddTrustLine adds a line to account's lines.
func (l *Ledger) AddTrustLine(account string, line types.TrustLine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[account] = append(l.lines[account], line)
}

// AddOffer places an offer in the order books.
func (l *Ledger) AddOffer(o types.Offer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.offers = append(l.offers, o)
}

func (l *Ledger) SetFee(fee types.Fee) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fee = fee
}

// Fail makes every later call return err, nil clears it.
func (l *Ledger) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Err = err
}

// Close advances the current ledger by n.
func (l *Ledger) Close(n uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current += n
}

// Submissions returns the transactions received so far.
func (l *Ledger) Submissions() []Submission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Submission(nil), l.submitted...)
}

func (l *Ledger) AccountInfo(ctx context.Context, account string) (*types.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	acc, ok := l.accounts[account]
	if !ok {
		return nil, &client.RPCError{Code: "actNotFound", Message: "Account not found."}
	}
	return &acc, nil
}

func (l *Ledger) AccountLines(ctx context.Context, account, peer string) ([]types.TrustLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	if _, ok := l.accounts[account]; !ok {
		return nil, &client.RPCError{Code: "actNotFound", Message: "Account not found."}
	}
	var lines []types.TrustLine
	for _, line := range l.lines[account] {
		if peer == "" || line.Account == peer {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (l *Ledger) BookOffers(ctx context.Context, takerGets, takerPays types.Issue, limit int) ([]types.Offer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	var offers []types.Offer
	for _, o := range l.offers {
		if !o.TakerGets.Issue.Equal(takerGets) || !o.TakerPays.Issue.Equal(takerPays) {
			continue
		}
		offers = append(offers, o)
		if limit > 0 && len(offers) == limit {
			break
		}
	}
	return offers, nil
}

func (l *Ledger) Fee(ctx context.Context) (*types.Fee, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	fee := l.fee
	return &fee, nil
}

func (l *Ledger) LedgerCurrent(ctx context.Context) (uint32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return 0, l.Err
	}
	if l.AutoAdvance {
		l.current++
	}
	return l.current, nil
}

// Submit records the blob. Unless Lost is set, a retryable result
// makes the tx visible to Tx.
func (l *Ledger) Submit(ctx context.Context, blob string) (*types.SubmitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return nil, &client.RPCError{Code: "invalidParams", Message: "Invalid tx_blob."}
	}
	hash := TxID(raw)
	l.submitted = append(l.submitted, Submission{Hash: hash, Blob: blob})
	if !l.Lost && (&types.SubmitResult{EngineResult: l.EngineResult}).Retryable() {
		l.txs[hash] = &txEntry{polls: l.PendingPolls, result: l.FinalResult, ledger: l.current}
	}
	return &types.SubmitResult{EngineResult: l.EngineResult, Hash: hash}, nil
}

func (l *Ledger) Tx(ctx context.Context, hash string) (*types.TxStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	e, ok := l.txs[hash]
	if !ok {
		return &types.TxStatus{StatusCode: types.NotExist, Hash: hash}, nil
	}
	if e.polls > 0 {
		e.polls--
		return &types.TxStatus{StatusCode: types.Pending, Hash: hash}, nil
	}
	status := &types.TxStatus{Hash: hash, EngineResult: e.result, LedgerIndex: e.ledger}
	if e.result == "tesSUCCESS" {
		status.StatusCode = types.Validated
	} else {
		status.StatusCode = types.Failed
	}
	return status, nil
}

// TxID computes the identifying hash of a serialized signed tx.
func TxID(raw []byte) string {
	h := sha512.New()
	h.Write(txIDPrefix)
	h.Write(raw)
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)[:32]))
}

var _ client.Ledger = (*Ledger)(nil)
