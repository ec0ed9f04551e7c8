package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/log"
)

var ErrFundTimeout = errors.New("funded account did not appear on ledger")

// Faucet funds new accounts on a test network.
type Faucet struct {
	url    string
	ledger Ledger
	http   *http.Client
	// Amount of XRP requested, empty for the faucet default.
	Amount string
	// Interval between existence checks of a funded account.
	PollInterval time.Duration
	// Number of existence checks before giving up.
	PollAttempts int
}

func NewFaucet(url string, ledger Ledger) *Faucet {
	return &Faucet{
		url:          url,
		ledger:       ledger,
		http:         &http.Client{Timeout: 30 * time.Second},
		PollInterval: time.Second,
		PollAttempts: 20,
	}
}

type faucetRequest struct {
	Destination string `json:"destination"`
	XRPAmount   string `json:"xrpAmount,omitempty"`
}

type faucetResponse struct {
	Account struct {
		Address        string `json:"address"`
		ClassicAddress string `json:"classicAddress"`
	} `json:"account"`
	Amount  json.Number `json:"amount"`
	Balance json.Number `json:"balance"`
}

// CreateAccount generates a new wallet locally, asks the faucet to
// fund it and waits until the account exists on the ledger.
func (f *Faucet) CreateAccount(ctx context.Context) (*types.Credentials, error) {
	seed, err := crypto.GenerateSeed(crypto.KeyTypeEd25519)
	if err != nil {
		return nil, fmt.Errorf("generate seed failed: %v", err)
	}
	w, err := crypto.NewWallet(seed)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(&faucetRequest{Destination: w.Address(), XRPAmount: f.Amount})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("faucet request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("faucet returned %d", resp.StatusCode)
	}
	var out faucetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode faucet response failed: %v", err)
	}
	addr := out.Account.ClassicAddress
	if addr == "" {
		addr = out.Account.Address
	}
	if addr != "" && addr != w.Address() {
		return nil, fmt.Errorf("faucet funded %s instead of %s", addr, w.Address())
	}

	balance := out.Amount.String()
	if balance == "" {
		balance = out.Balance.String()
	}
	log.Infow("faucet funded account", "account", w.Address(), "amount", balance)

	if err := f.waitForAccount(ctx, w.Address()); err != nil {
		return nil, err
	}

	return &types.Credentials{
		Address:   w.Address(),
		PublicKey: w.PublicKey(),
		Seed:      w.Seed(),
		Balance:   balance,
	}, nil
}

func (f *Faucet) waitForAccount(ctx context.Context, account string) error {
	ticker := time.NewTicker(f.PollInterval)
	defer ticker.Stop()
	for i := 0; i < f.PollAttempts; i++ {
		_, err := f.ledger.AccountInfo(ctx, account)
		if err == nil {
			return nil
		}
		if !IsRPCError(err, "actNotFound") {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return ErrFundTimeout
}
