package account

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	lru "github.com/hashicorp/golang-lru"

	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/util"
)

var (
	ErrAccountNotExist = errors.New("account not exist")
	ErrInvalidAccount  = errors.New("invalid account id")
)

// Balances of an account in XRP and in the token.
type Balances struct {
	XRP          *big.Rat
	Tokens       *big.Rat
	HasTrustLine bool
}

func (b *Balances) XRPString() string   { return util.FormatRat(b.XRP, 6) }
func (b *Balances) TokenString() string { return util.FormatRat(b.Tokens, 6) }

// Manager answers account queries against the ledger.
type Manager struct {
	ledger client.Ledger
	// the token accounts hold
	asset types.Issue

	// LRU cache for accounts
	accounts *lru.Cache
}

func NewManager(ledger client.Ledger, asset types.Issue, cacheSize int) (*Manager, error) {
	if cacheSize <= 0 {
		cacheSize = 10000
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create account manager LRU cache failed: %v", err)
	}
	return &Manager{ledger: ledger, asset: asset, accounts: cache}, nil
}

// Asset returns the token managed accounts are queried for.
func (am *Manager) Asset() types.Issue {
	return am.asset
}

// GetAccount queries the account root from the ledger.
func (am *Manager) GetAccount(ctx context.Context, accountID string) (*types.Account, error) {
	if !crypto.IsValidAddress(accountID) {
		return nil, ErrInvalidAccount
	}
	acc, err := am.ledger.AccountInfo(ctx, accountID)
	if client.IsRPCError(err, "actNotFound") {
		am.accounts.Remove(accountID)
		return nil, ErrAccountNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s failed: %v", accountID, err)
	}

	// cache the account and return a copy
	am.accounts.Add(accountID, acc)
	accCopy := *acc
	return &accCopy, nil
}

// Exists checks whether the account is on the ledger. Accounts are
// never deleted by this application so a cached hit is trusted.
func (am *Manager) Exists(ctx context.Context, accountID string) (bool, error) {
	if am.accounts.Contains(accountID) {
		return true, nil
	}
	_, err := am.GetAccount(ctx, accountID)
	if err == ErrAccountNotExist || err == ErrInvalidAccount {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// trustLines returns the lines of the account towards the issuer
// of the token.
func (am *Manager) trustLines(ctx context.Context, accountID string) ([]types.TrustLine, error) {
	lines, err := am.ledger.AccountLines(ctx, accountID, am.asset.Issuer)
	if client.IsRPCError(err, "actNotFound") {
		return nil, ErrAccountNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("get trust lines of %s failed: %v", accountID, err)
	}
	var matched []types.TrustLine
	for _, line := range lines {
		issue := types.Issue{Currency: line.Currency, Issuer: line.Account}
		if issue.Equal(am.asset) {
			matched = append(matched, line)
		}
	}
	return matched, nil
}

// HasTrustLine checks whether the account trusts the token.
func (am *Manager) HasTrustLine(ctx context.Context, accountID string) (bool, error) {
	lines, err := am.trustLines(ctx, accountID)
	if err != nil {
		return false, err
	}
	return len(lines) > 0, nil
}

// Balances returns the XRP balance and the token balance summed
// over the matching trust lines.
func (am *Manager) Balances(ctx context.Context, accountID string) (*Balances, error) {
	acc, err := am.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	xrp, err := types.XRP(0).Rat()
	if err != nil {
		return nil, err
	}
	if acc.Balance != "" {
		xrp, err = types.Amount{Issue: types.Issue{Currency: types.NativeCurrency}, Value: acc.Balance}.Rat()
		if err != nil {
			return nil, fmt.Errorf("parse balance of %s failed: %v", accountID, err)
		}
	}

	lines, err := am.trustLines(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balances := make([]*big.Rat, 0, len(lines))
	for _, line := range lines {
		r, ok := new(big.Rat).SetString(line.Balance)
		if !ok {
			log.Warnw("skip malformed trust line balance", "account", accountID, "balance", line.Balance)
			continue
		}
		balances = append(balances, r)
	}
	return &Balances{XRP: xrp, Tokens: util.SumRat(balances...), HasTrustLine: len(lines) > 0}, nil
}
