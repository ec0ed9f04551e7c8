package test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
)

func init() {
	Register(&IssuerSetup{})
	Register(&CreateTestAccount{})
}

// lsfDefaultRipple is the account root flag set by asfDefaultRipple.
const lsfDefaultRipple = 0x00800000

// IssuerSetup makes sure the issuer lets its token ripple between
// holders.
type IssuerSetup struct{}

func (is *IssuerSetup) Desc() string {
	return "testcase: issuer default ripple"
}

func (is *IssuerSetup) Run(ctx context.Context, env *Env) error {
	acc, err := env.AM.GetAccount(ctx, env.Issuer.Address())
	if err != nil {
		return fmt.Errorf("get issuer account failed: %v", err)
	}
	if acc.Flags&lsfDefaultRipple != 0 {
		return nil
	}
	if err := env.submit(ctx, env.Issuer, &op.DefaultRipple{Issuer: env.Issuer.Address()}); err != nil {
		return fmt.Errorf("enable default ripple failed: %v", err)
	}
	acc, err = env.AM.GetAccount(ctx, env.Issuer.Address())
	if err != nil {
		return fmt.Errorf("get issuer account failed: %v", err)
	}
	if acc.Flags&lsfDefaultRipple == 0 {
		return errors.New("issuer without default ripple flag")
	}
	return nil
}

// CreateTestAccount tests the correctness of creating a test account.
type CreateTestAccount struct{}

func (cta *CreateTestAccount) Desc() string {
	return "testcase: create test account"
}

func (cta *CreateTestAccount) Run(ctx context.Context, env *Env) error {
	cred, err := env.Funder.CreateAccount(ctx)
	if err != nil {
		return fmt.Errorf("create test account failed: %v", err)
	}
	ok, err := env.AM.Exists(ctx, cred.Address)
	if err != nil {
		return fmt.Errorf("look up test account failed: %v", err)
	}
	if !ok {
		return errors.New("test account not found on ledger")
	}
	b, err := env.AM.Balances(ctx, cred.Address)
	if err != nil {
		return fmt.Errorf("get balances failed: %v", err)
	}
	if b.XRP.Sign() <= 0 {
		return fmt.Errorf("test account with unexpected balance: %s", b.XRPString())
	}
	if b.HasTrustLine {
		return errors.New("new test account already trusts the token")
	}
	return nil
}
