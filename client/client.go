// Package client talks to a rippled server over its JSON-RPC
// interface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

// Ledger is the set of ledger queries and commands the application
// relies on. It is implemented by Client and by the in-memory fake.
type Ledger interface {
	AccountInfo(ctx context.Context, account string) (*types.Account, error)
	AccountLines(ctx context.Context, account, peer string) ([]types.TrustLine, error)
	BookOffers(ctx context.Context, takerGets, takerPays types.Issue, limit int) ([]types.Offer, error)
	Fee(ctx context.Context) (*types.Fee, error)
	LedgerCurrent(ctx context.Context) (uint32, error)
	Submit(ctx context.Context, blob string) (*types.SubmitResult, error)
	Tx(ctx context.Context, hash string) (*types.TxStatus, error)
}

// RPCError is an error reported by the server in the result
// of a call, e.g. actNotFound.
type RPCError struct {
	Code    string
	Message string
}

func (e *RPCError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRPCError reports whether err is an RPCError with the code.
func IsRPCError(err error, code string) bool {
	re, ok := err.(*RPCError)
	return ok && re.Code == code
}

type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, timeout: timeout, http: &http.Client{}}
}

type request struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type resultStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// call sends the command and decodes its result into out.
func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	b, err := json.Marshal(&request{Method: method, Params: []interface{}{params}})
	if err != nil {
		return fmt.Errorf("encode %s request failed: %v", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %v", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d", method, resp.StatusCode)
	}

	var body struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode %s response failed: %v", method, err)
	}
	var status resultStatus
	if err := json.Unmarshal(body.Result, &status); err != nil {
		return fmt.Errorf("decode %s status failed: %v", method, err)
	}
	if status.Status == "error" || status.Error != "" {
		return &RPCError{Code: status.Error, Message: status.ErrorMessage}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body.Result, out); err != nil {
		return fmt.Errorf("decode %s result failed: %v", method, err)
	}
	return nil
}

func (c *Client) AccountInfo(ctx context.Context, account string) (*types.Account, error) {
	params := map[string]interface{}{
		"account":      account,
		"ledger_index": "current",
	}
	var result struct {
		AccountData types.Account `json:"account_data"`
	}
	if err := c.call(ctx, "account_info", params, &result); err != nil {
		return nil, err
	}
	return &result.AccountData, nil
}

// AccountLines returns the trust lines of account, only those with
// peer when peer is not empty. All pages are fetched.
func (c *Client) AccountLines(ctx context.Context, account, peer string) ([]types.TrustLine, error) {
	var lines []types.TrustLine
	var marker json.RawMessage
	for {
		params := map[string]interface{}{
			"account":      account,
			"ledger_index": "validated",
		}
		if peer != "" {
			params["peer"] = peer
		}
		if len(marker) > 0 {
			params["marker"] = marker
		}
		var result struct {
			Lines  []types.TrustLine `json:"lines"`
			Marker json.RawMessage   `json:"marker"`
		}
		if err := c.call(ctx, "account_lines", params, &result); err != nil {
			return nil, err
		}
		lines = append(lines, result.Lines...)
		if len(result.Marker) == 0 || string(result.Marker) == "null" {
			break
		}
		marker = result.Marker
	}
	return lines, nil
}

// BookOffers lists offers whose owners give takerGets for takerPays,
// best quality first.
func (c *Client) BookOffers(ctx context.Context, takerGets, takerPays types.Issue, limit int) ([]types.Offer, error) {
	params := map[string]interface{}{
		"taker_gets":   takerGets,
		"taker_pays":   takerPays,
		"ledger_index": "validated",
	}
	if limit > 0 {
		params["limit"] = limit
	}
	var result struct {
		Offers []types.Offer `json:"offers"`
	}
	if err := c.call(ctx, "book_offers", params, &result); err != nil {
		return nil, err
	}
	return result.Offers, nil
}

func (c *Client) Fee(ctx context.Context) (*types.Fee, error) {
	var result struct {
		Drops struct {
			BaseFee       string `json:"base_fee"`
			MinimumFee    string `json:"minimum_fee"`
			OpenLedgerFee string `json:"open_ledger_fee"`
		} `json:"drops"`
	}
	if err := c.call(ctx, "fee", map[string]interface{}{}, &result); err != nil {
		return nil, err
	}
	fee := &types.Fee{}
	var err error
	if fee.BaseFee, err = parseDrops(result.Drops.BaseFee); err != nil {
		return nil, err
	}
	if fee.MinimumFee, err = parseDrops(result.Drops.MinimumFee); err != nil {
		return nil, err
	}
	if fee.OpenLedgerFee, err = parseDrops(result.Drops.OpenLedgerFee); err != nil {
		return nil, err
	}
	return fee, nil
}

func parseDrops(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse drops %q failed: %v", s, err)
	}
	return d, nil
}

func (c *Client) LedgerCurrent(ctx context.Context) (uint32, error) {
	var result struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}
	if err := c.call(ctx, "ledger_current", map[string]interface{}{}, &result); err != nil {
		return 0, err
	}
	return result.LedgerCurrentIndex, nil
}

// Submit sends a signed transaction blob in hex.
func (c *Client) Submit(ctx context.Context, blob string) (*types.SubmitResult, error) {
	var result struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
		TxJSON              struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := c.call(ctx, "submit", map[string]interface{}{"tx_blob": blob}, &result); err != nil {
		return nil, err
	}
	return &types.SubmitResult{
		EngineResult:        result.EngineResult,
		EngineResultMessage: result.EngineResultMessage,
		Hash:                result.TxJSON.Hash,
	}, nil
}

// Tx looks up a transaction by hash. An unknown transaction is
// reported as NotExist rather than as an error.
func (c *Client) Tx(ctx context.Context, hash string) (*types.TxStatus, error) {
	var result struct {
		Hash        string `json:"hash"`
		LedgerIndex uint32 `json:"ledger_index"`
		Validated   bool   `json:"validated"`
		Meta        struct {
			TransactionResult string `json:"TransactionResult"`
		} `json:"meta"`
	}
	err := c.call(ctx, "tx", map[string]interface{}{"transaction": hash}, &result)
	if IsRPCError(err, "txnNotFound") {
		return &types.TxStatus{StatusCode: types.NotExist, Hash: hash}, nil
	}
	if err != nil {
		return nil, err
	}

	status := &types.TxStatus{
		Hash:         hash,
		EngineResult: result.Meta.TransactionResult,
		LedgerIndex:  result.LedgerIndex,
	}
	switch {
	case !result.Validated:
		status.StatusCode = types.Pending
	case result.Meta.TransactionResult == "tesSUCCESS":
		status.StatusCode = types.Validated
	default:
		status.StatusCode = types.Failed
	}
	return status, nil
}
