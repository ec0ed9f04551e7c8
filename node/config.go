package node

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
)

type Config struct {
	// listen address of the web server
	Addr string
	// listen address of the gRPC health server, disabled when empty
	HealthAddr string
	// JSON-RPC endpoint of the ledger
	LedgerURL string
	// faucet endpoint funding new accounts
	FaucetURL string
	// base URL of the ledger explorer
	ExplorerURL string
	// issuer of the token and its seed
	IssuerAccount string
	IssuerSeed    string
	// token currency code
	TokenCurrency string
	// limit of the trust lines set for new accounts
	TrustLimit string
	// database backend
	DBBackend string
	// database file path
	DBPath string
	// HMAC key of the session cookies
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	// allow claiming a product more than once
	AllowRepeatClaims bool
	// number of ledgers a submitted tx stays valid
	LastLedgerOffset uint32
	// upper bound of the wait for a tx outcome
	SubmitTimeout time.Duration
	// maximum number of offers loaded per order book side
	OrderBookLimit int
}

// SetDefaults registers the default values of the optional keys.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":3000")
	v.SetDefault("ledger_url", "https://s.altnet.rippletest.net:51234")
	v.SetDefault("faucet_url", "https://faucet.altnet.rippletest.net/accounts")
	v.SetDefault("explorer_url", "https://testnet.xrpl.org")
	v.SetDefault("token_currency", "BEAR")
	v.SetDefault("trust_limit", "1000000000")
	v.SetDefault("db_backend", "boltdb")
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("last_ledger_offset", 20)
	v.SetDefault("submit_timeout", "2m")
	v.SetDefault("order_book_limit", 50)
}

func NewConfig(v *viper.Viper) (*Config, error) {
	if v.GetString("addr") == "" {
		return nil, errors.New("listen address is missing")
	}
	if v.GetString("ledger_url") == "" {
		return nil, errors.New("ledger url is missing")
	}
	if v.GetString("issuer_account") == "" {
		return nil, errors.New("issuer account is empty")
	}
	if v.GetString("issuer_seed") == "" {
		return nil, errors.New("issuer seed is empty")
	}
	if v.GetString("db_backend") == "" {
		return nil, errors.New("db backend is empty")
	}
	if v.GetString("db_backend") != "memdb" && v.GetString("db_path") == "" {
		return nil, errors.New("db path is empty")
	}
	if len(v.GetString("session_secret")) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}

	if !crypto.IsValidAddress(v.GetString("issuer_account")) {
		return nil, fmt.Errorf("issuer account %s is invalid", v.GetString("issuer_account"))
	}
	if _, err := crypto.ValidateWallet(v.GetString("issuer_seed"), v.GetString("issuer_account")); err != nil {
		return nil, fmt.Errorf("issuer seed does not match issuer account: %v", err)
	}
	c := Config{
		Addr:              v.GetString("addr"),
		HealthAddr:        v.GetString("health_addr"),
		LedgerURL:         v.GetString("ledger_url"),
		FaucetURL:         v.GetString("faucet_url"),
		ExplorerURL:       v.GetString("explorer_url"),
		IssuerAccount:     v.GetString("issuer_account"),
		IssuerSeed:        v.GetString("issuer_seed"),
		TokenCurrency:     v.GetString("token_currency"),
		TrustLimit:        v.GetString("trust_limit"),
		DBBackend:         v.GetString("db_backend"),
		DBPath:            v.GetString("db_path"),
		SessionSecret:     v.GetString("session_secret"),
		SessionTTL:        v.GetDuration("session_ttl"),
		CookieSecure:      v.GetBool("cookie_secure"),
		AllowRepeatClaims: v.GetBool("allow_repeat_claims"),
		LastLedgerOffset:  v.GetUint32("last_ledger_offset"),
		SubmitTimeout:     v.GetDuration("submit_timeout"),
		OrderBookLimit:    v.GetInt("order_book_limit"),
	}
	if _, err := types.ParseIOU(c.Asset(), c.TrustLimit); err != nil {
		return nil, fmt.Errorf("trust limit is invalid: %v", err)
	}

	return &c, nil
}

// Asset is the token issued by the configured issuer.
func (c *Config) Asset() types.Issue {
	return types.Issue{
		Currency: types.CurrencyCode(c.TokenCurrency),
		Issuer:   c.IssuerAccount,
	}
}
