package test

import (
	"context"
	"fmt"
	"time"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/api"
	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db/memdb"
	"github.com/ashishtz/carbon-bear-xrpl/exchange"
	"github.com/ashishtz/carbon-bear-xrpl/node"
	"github.com/ashishtz/carbon-bear-xrpl/tx"
	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
)

var cases []TestCase

// Register the input test case in the global cases slice.
func Register(tc TestCase) {
	cases = append(cases, tc)
}

// GetAll returns the registered test cases in registration order.
func GetAll() []TestCase {
	return cases
}

// TestCase abstracts a scenario run against a live test network.
// Each concrete test case should have the Run method implemented.
type TestCase interface {
	Desc() string
	Run(ctx context.Context, env *Env) error
}

// Env holds the clients and managers the test cases share.
type Env struct {
	Ledger client.Ledger
	Funder api.Funder
	TM     *tx.Manager
	AM     *account.Manager
	EM     *exchange.Manager
	Issuer *crypto.Wallet
	Asset  types.Issue
	// Limit of the trust lines set by the cases.
	TrustLimit string
}

// NewEnv connects to the ledger and faucet of the config.
func NewEnv(c *node.Config) (*Env, error) {
	ledger := client.New(c.LedgerURL, 30*time.Second)
	issuer, err := crypto.NewWallet(c.IssuerSeed)
	if err != nil {
		return nil, fmt.Errorf("load issuer wallet failed: %v", err)
	}
	tm, err := tx.NewManager(&tx.ManagerContext{
		Ledger:           ledger,
		Store:            memdb.New(),
		LastLedgerOffset: c.LastLedgerOffset,
		SubmitTimeout:    c.SubmitTimeout,
	})
	if err != nil {
		return nil, err
	}
	am, err := account.NewManager(ledger, c.Asset(), 100)
	if err != nil {
		return nil, err
	}
	return &Env{
		Ledger:     ledger,
		Funder:     client.NewFaucet(c.FaucetURL, ledger),
		TM:         tm,
		AM:         am,
		EM:         exchange.NewManager(ledger, c.Asset(), c.OrderBookLimit),
		Issuer:     issuer,
		Asset:      c.Asset(),
		TrustLimit: c.TrustLimit,
	}, nil
}

// newHolder creates a funded account trusting the token.
func (env *Env) newHolder(ctx context.Context) (*crypto.Wallet, error) {
	cred, err := env.Funder.CreateAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("create test account failed: %v", err)
	}
	w, err := crypto.NewWallet(cred.Seed)
	if err != nil {
		return nil, fmt.Errorf("load test account wallet failed: %v", err)
	}
	trust := &op.Trust{Account: w.Address(), Asset: env.Asset, Limit: env.TrustLimit}
	if err := env.submit(ctx, w, trust); err != nil {
		return nil, fmt.Errorf("set trust line of %s failed: %v", w.Address(), err)
	}
	return w, nil
}

// mint pays amount tokens from the issuer to the account.
func (env *Env) mint(ctx context.Context, dest, amount string) error {
	mint := &op.Mint{Issuer: env.Issuer.Address(), Destination: dest, Asset: env.Asset, Amount: amount}
	if err := env.submit(ctx, env.Issuer, mint); err != nil {
		return fmt.Errorf("mint %s tokens to %s failed: %v", amount, dest, err)
	}
	return nil
}

func (env *Env) submit(ctx context.Context, w *crypto.Wallet, o op.Op) error {
	t, err := o.Build()
	if err != nil {
		return fmt.Errorf("build tx failed: %v", err)
	}
	_, err = env.TM.SubmitAndWait(ctx, w, t)
	return err
}

// expectTokens checks the token balance of the account.
func (env *Env) expectTokens(ctx context.Context, accountID, want string) error {
	b, err := env.AM.Balances(ctx, accountID)
	if err != nil {
		return fmt.Errorf("get balances of %s failed: %v", accountID, err)
	}
	if got := b.TokenString(); got != want {
		return fmt.Errorf("account %s with unexpected token balance: %s, want %s", accountID, got, want)
	}
	return nil
}
