package tx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/build"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db"
	"github.com/ashishtz/carbon-bear-xrpl/future"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/util"
)

var (
	ErrTxExpired = errors.New("tx expired before reaching a validated ledger")
	// ErrNotSubmitted wraps failures that happen before the tx blob
	// is handed to the ledger.
	ErrNotSubmitted = errors.New("tx not submitted")
)

// ResultError is returned when a tx is rejected or validated with
// an engine result other than tesSUCCESS.
type ResultError struct {
	Hash    string
	Code    string
	Message string
}

func (e *ResultError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tx %s failed with %s: %s", e.Hash, e.Code, e.Message)
	}
	return fmt.Sprintf("tx %s failed with %s", e.Hash, e.Code)
}

// ManagerContext represents contextual information Manager needs
type ManagerContext struct {
	Ledger client.Ledger // ledger client
	Store  db.Database   // database instance for tx status
	// Number of ledgers a tx may wait before it expires.
	LastLedgerOffset uint32
	// Lower bound of the fee in drops.
	MinFee int64
	// Upper bound of the wait for a tx outcome.
	SubmitTimeout time.Duration
	// Interval between tx status polls.
	PollInterval time.Duration
}

func ValidateManagerContext(mc *ManagerContext) error {
	if mc == nil {
		return fmt.Errorf("tx context is nil")
	}
	if mc.Ledger == nil {
		return fmt.Errorf("ledger client is nil")
	}
	if mc.Store == nil {
		return fmt.Errorf("database instance is nil")
	}
	return nil
}

// Manager fills in, signs and submits transactions and tracks them
// until they are validated or expired.
type Manager struct {
	ledger client.Ledger
	store  db.Database
	bucket string

	lastLedgerOffset uint32
	minFee           int64
	submitTimeout    time.Duration
	pollInterval     time.Duration

	// transactions status
	txStatus *lru.Cache

	mu sync.Mutex
	// accountID to pending tx history map
	accTxMap map[string]*TxHistory

	wg sync.WaitGroup
}

// NewManager creates an instance of Manager with ManagerContext
func NewManager(ctx *ManagerContext) (*Manager, error) {
	if err := ValidateManagerContext(ctx); err != nil {
		return nil, fmt.Errorf("tx manager context is invalid: %v", err)
	}
	m := &Manager{
		ledger:           ctx.Ledger,
		store:            ctx.Store,
		bucket:           "TX",
		lastLedgerOffset: ctx.LastLedgerOffset,
		minFee:           ctx.MinFee,
		submitTimeout:    ctx.SubmitTimeout,
		pollInterval:     ctx.PollInterval,
		accTxMap:         make(map[string]*TxHistory),
	}
	if m.lastLedgerOffset == 0 {
		m.lastLedgerOffset = 20
	}
	if m.minFee <= 0 {
		m.minFee = 12
	}
	if m.submitTimeout <= 0 {
		m.submitTimeout = time.Minute
	}
	if m.pollInterval <= 0 {
		m.pollInterval = time.Second
	}
	if err := m.store.NewBucket(m.bucket); err != nil {
		return nil, fmt.Errorf("create tx bucket failed: %v", err)
	}
	cache, err := lru.New(1000)
	if err != nil {
		return nil, fmt.Errorf("create tx status LRU cache failed: %v", err)
	}
	m.txStatus = cache
	return m, nil
}

// Wait blocks until all background submissions have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// SubmitAndWait submits the tx and blocks until its outcome is known.
func (m *Manager) SubmitAndWait(ctx context.Context, w *crypto.Wallet, t *build.Tx) (*types.TxStatus, error) {
	f := m.Submit(ctx, w, t)
	if err := f.Error(); err != nil {
		return f.Status, err
	}
	return f.Status, nil
}

// Submit fills in the account, sequence, fee and last ledger of the
// tx, signs it with the wallet and submits it. The returned future
// responds once the tx is validated, failed or expired.
func (m *Manager) Submit(ctx context.Context, w *crypto.Wallet, t *build.Tx) *future.Tx {
	f := &future.Tx{}
	f.Init()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, m.submitTimeout)
		defer cancel()

		status, err := m.submit(ctx, w, t, f)
		f.Status = status
		f.Respond(err)
	}()

	return f
}

func (m *Manager) submit(ctx context.Context, w *crypto.Wallet, t *build.Tx, f *future.Tx) (*types.TxStatus, error) {
	account := w.Address()

	m.mu.Lock()
	defer m.mu.Unlock()
	seq, fee, lastLedger, err := m.autofill(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSubmitted, err)
	}
	err = t.Add(
		&build.AccountID{AccountID: account},
		&build.Sequence{Sequence: seq},
		&build.Fee{Drops: fee},
		&build.LastLedger{Sequence: lastLedger},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: autofill tx failed: %v", ErrNotSubmitted, err)
	}
	if err := w.Sign(t.Tx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSubmitted, err)
	}
	hash, blob, err := t.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSubmitted, err)
	}

	res, err := m.ledger.Submit(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("submit tx %s failed: %v", hash, err)
	}
	if res.Hash != "" {
		hash = res.Hash
	}
	f.Hash = hash
	log.Infow("tx submitted", "hash", hash, "account", account, "seq", seq, "result", res.EngineResult)

	if !res.Retryable() {
		status := &types.TxStatus{StatusCode: types.Failed, EngineResult: res.EngineResult, Hash: hash}
		m.updateTxStatus(status)
		return status, &ResultError{Hash: hash, Code: res.EngineResult, Message: res.EngineResultMessage}
	}

	h, ok := m.accTxMap[account]
	if !ok {
		h = NewTxHistory()
		m.accTxMap[account] = h
	}
	if err := h.AddTx(hash, seq, fee); err != nil {
		log.Warnf("track tx %s failed: %v", hash, err)
	}
	m.updateTxStatus(&types.TxStatus{StatusCode: types.Pending, EngineResult: res.EngineResult, Hash: hash})

	// release the lock while waiting so other submits can proceed
	m.mu.Unlock()
	status, err := m.wait(ctx, hash, lastLedger)
	m.mu.Lock()

	h.DeleteTxList([]string{hash})
	if h.Size() == 0 {
		delete(m.accTxMap, account)
	}
	if err != nil {
		return nil, err
	}
	m.updateTxStatus(status)

	switch status.StatusCode {
	case types.Validated:
		return status, nil
	case types.Expired:
		return status, ErrTxExpired
	}
	return status, &ResultError{Hash: hash, Code: status.EngineResult}
}

// autofill computes the sequence, fee and last ledger sequence for
// a new tx of the account.
func (m *Manager) autofill(ctx context.Context, account string) (uint32, int64, uint32, error) {
	acc, err := m.ledger.AccountInfo(ctx, account)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("get account %s failed: %v", account, err)
	}
	seq := acc.Sequence
	if h, ok := m.accTxMap[account]; ok {
		seq = h.NextSequence(seq)
	}

	fee, err := m.ledger.Fee(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("get fee failed: %v", err)
	}
	drops := util.MaxInt64(m.minFee, util.MaxInt64(fee.BaseFee, fee.OpenLedgerFee))

	current, err := m.ledger.LedgerCurrent(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("get current ledger failed: %v", err)
	}
	return seq, drops, current + m.lastLedgerOffset, nil
}

// wait polls the tx until it is in a validated ledger or the current
// ledger is past lastLedger without the tx being found.
func (m *Manager) wait(ctx context.Context, hash string, lastLedger uint32) (*types.TxStatus, error) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		status, err := m.ledger.Tx(ctx, hash)
		if err != nil {
			log.Warnf("query tx %s failed: %v", hash, err)
		} else {
			switch status.StatusCode {
			case types.Validated, types.Failed:
				return status, nil
			case types.NotExist:
				current, err := m.ledger.LedgerCurrent(ctx)
				if err == nil && current > lastLedger {
					return &types.TxStatus{StatusCode: types.Expired, Hash: hash}, nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for tx %s failed: %v", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// GetTxStatus returns the last observed status of the tx.
func (m *Manager) GetTxStatus(hash string) (*types.TxStatus, error) {
	if st, ok := m.txStatus.Get(hash); ok {
		return st.(*types.TxStatus), nil
	}

	b, err := m.store.Get(m.bucket, []byte(hash))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &types.TxStatus{StatusCode: types.NotExist, Hash: hash}, nil
	}
	status := &types.TxStatus{}
	if err := json.Unmarshal(b, status); err != nil {
		return nil, fmt.Errorf("decode tx status failed: %v", err)
	}
	return status, nil
}

func (m *Manager) updateTxStatus(status *types.TxStatus) {
	m.txStatus.Add(status.Hash, status)

	b, err := json.Marshal(status)
	if err != nil {
		log.Errorf("encode tx status failed: %v", err)
		return
	}
	if err := m.store.Put(m.bucket, []byte(status.Hash), b); err != nil {
		log.Errorf("save tx status in db failed: %v", err)
	}
}
