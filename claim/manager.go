package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/tx"
	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
)

var (
	ErrAlreadyClaimed = errors.New("product already claimed")
	ErrNoTrustLine    = errors.New("account does not trust the token")
)

// Record of a claimed purchase. A pending record belongs to a mint
// whose outcome is not known yet and still counts as claimed.
type Record struct {
	Account   string
	ProductID int
	Amount    string
	TxHash    string
	Pending   bool
	CreatedAt time.Time
}

// ManagerContext represents contextual information Manager needs
type ManagerContext struct {
	Store  db.Database
	TM     *tx.Manager
	AM     *account.Manager
	Issuer *crypto.Wallet
	Asset  types.Issue
	// Let an account claim the same product more than once.
	AllowRepeat bool
}

func ValidateManagerContext(mc *ManagerContext) error {
	if mc == nil {
		return fmt.Errorf("claim context is nil")
	}
	if mc.Store == nil {
		return fmt.Errorf("database instance is nil")
	}
	if mc.TM == nil {
		return fmt.Errorf("tx manager is nil")
	}
	if mc.AM == nil {
		return fmt.Errorf("account manager is nil")
	}
	if mc.Issuer == nil {
		return fmt.Errorf("issuer wallet is nil")
	}
	if mc.Issuer.Address() != mc.Asset.Issuer {
		return fmt.Errorf("issuer wallet %s does not issue the token", mc.Issuer.Address())
	}
	return nil
}

// Manager pays out tokens for purchase claims and keeps their
// records.
type Manager struct {
	store  db.Database
	bucket string

	tm     *tx.Manager
	am     *account.Manager
	issuer *crypto.Wallet
	asset  types.Issue

	allowRepeat bool

	mu sync.Mutex
	// accountID to the lock serializing its claims
	locks map[string]*accountLock
	// accountID to the set of claimed product ids
	claimed *lru.Cache
}

type accountLock struct {
	sync.Mutex
	refs int
}

func NewManager(ctx *ManagerContext) (*Manager, error) {
	if err := ValidateManagerContext(ctx); err != nil {
		return nil, fmt.Errorf("claim manager context is invalid: %v", err)
	}
	m := &Manager{
		store:       ctx.Store,
		bucket:      "CLAIM",
		tm:          ctx.TM,
		am:          ctx.AM,
		issuer:      ctx.Issuer,
		asset:       ctx.Asset,
		allowRepeat: ctx.AllowRepeat,
		locks:       make(map[string]*accountLock),
	}
	if err := m.store.NewBucket(m.bucket); err != nil {
		return nil, fmt.Errorf("create claim bucket failed: %v", err)
	}
	cache, err := lru.New(1000)
	if err != nil {
		return nil, fmt.Errorf("create claim LRU cache failed: %v", err)
	}
	m.claimed = cache
	return m, nil
}

// lock acquires the claim lock of the account and returns its
// release function.
func (m *Manager) lock(accountID string) func() {
	m.mu.Lock()
	l, ok := m.locks[accountID]
	if !ok {
		l = &accountLock{}
		m.locks[accountID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, accountID)
		}
		m.mu.Unlock()
	}
}

// Claim mints the carbon tokens of the product to the account and
// records the claim. The mint outlives ctx: once the tx is handed to
// the ledger the claim is kept as pending until its outcome is known.
func (m *Manager) Claim(ctx context.Context, accountID string, p *Product) (*Record, error) {
	unlock := m.lock(accountID)
	defer unlock()

	if !m.allowRepeat {
		claimed, err := m.loadClaimed(accountID)
		if err != nil {
			return nil, err
		}
		if claimed.Contains(p.ID) {
			return nil, ErrAlreadyClaimed
		}
	}

	ok, err := m.am.HasTrustLine(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoTrustLine
	}

	amount := strconv.Itoa(p.Carbon)
	mint := &op.Mint{
		Issuer:      m.issuer.Address(),
		Destination: accountID,
		Asset:       m.asset,
		Amount:      amount,
	}
	t, err := mint.Build()
	if err != nil {
		return nil, fmt.Errorf("build mint tx failed: %v", err)
	}

	rec := &Record{
		Account:   accountID,
		ProductID: p.ID,
		Amount:    amount,
		Pending:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.save(rec); err != nil {
		return nil, err
	}
	defer m.claimed.Remove(accountID)

	f := m.tm.Submit(context.WithoutCancel(ctx), m.issuer, t)
	err = f.Error()
	rec.TxHash = f.Hash
	if err != nil {
		if mayHaveApplied(err) {
			if serr := m.save(rec); serr != nil {
				log.Errorw("save pending claim failed", "account", accountID, "product", p.ID, "hash", rec.TxHash, "err", serr)
			}
			log.Warnw("claim outcome unknown", "account", accountID, "product", p.ID, "hash", rec.TxHash, "err", err)
		} else if derr := m.store.Delete(m.bucket, recordKey(rec)); derr != nil {
			log.Errorw("drop failed claim failed", "account", accountID, "product", p.ID, "err", derr)
		}
		return nil, fmt.Errorf("mint %s tokens to %s failed: %w", amount, accountID, err)
	}

	rec.Pending = false
	if err := m.save(rec); err != nil {
		// the tokens are paid out at this point
		log.Errorw("save claim record failed", "account", accountID, "product", p.ID, "hash", rec.TxHash, "err", err)
	}
	log.Infow("purchase claimed", "account", accountID, "product", p.ID, "amount", amount, "hash", rec.TxHash)
	return rec, nil
}

// mayHaveApplied reports whether a failed mint may still have been applied.
func mayHaveApplied(err error) bool {
	var re *tx.ResultError
	switch {
	case errors.Is(err, tx.ErrNotSubmitted),
		errors.Is(err, tx.ErrTxExpired),
		errors.As(err, &re):
		return false
	}
	return true
}

func recordKey(rec *Record) []byte {
	return []byte(fmt.Sprintf("%s/%020d/%04d", rec.Account, rec.CreatedAt.UnixNano(), rec.ProductID))
}

func (m *Manager) save(rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode claim failed: %v", err)
	}
	return m.store.Put(m.bucket, recordKey(rec), b)
}

// Claims returns the claims of the account, oldest first.
func (m *Manager) Claims(accountID string) ([]*Record, error) {
	vals, err := m.store.GetAll(m.bucket, []byte(accountID+"/"))
	if err != nil {
		return nil, fmt.Errorf("load claims of %s failed: %v", accountID, err)
	}
	recs := make([]*Record, 0, len(vals))
	for _, v := range vals {
		rec := &Record{}
		if err := json.Unmarshal(v, rec); err != nil {
			return nil, fmt.Errorf("decode claim failed: %v", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ClaimedProducts returns the ids of the products the account
// has claimed.
func (m *Manager) ClaimedProducts(accountID string) (mapset.Set, error) {
	if s, ok := m.claimed.Get(accountID); ok {
		return s.(mapset.Set).Clone(), nil
	}
	return m.loadClaimed(accountID)
}

// loadClaimed reads the claimed product ids from the store and
// refreshes the cache.
func (m *Manager) loadClaimed(accountID string) (mapset.Set, error) {
	recs, err := m.Claims(accountID)
	if err != nil {
		return nil, err
	}
	s := mapset.NewSet()
	for _, rec := range recs {
		s.Add(rec.ProductID)
	}
	m.claimed.Add(accountID, s)
	return s.Clone(), nil
}
