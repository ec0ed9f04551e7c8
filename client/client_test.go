package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
)

const testAccount = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"

type rpcRequest struct {
	Method string                   `json:"method"`
	Params []map[string]interface{} `json:"params"`
}

// rpcServer answers each method with the canned result.
func rpcServer(t *testing.T, results map[string]string, seen chan<- rpcRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.Nil(t, json.NewDecoder(r.Body).Decode(&req))
		if seen != nil {
			seen <- req
		}
		result, ok := results[req.Method]
		if !ok {
			http.Error(w, "unknown method", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":` + result + `}`))
	}))
}

func TestAccountInfo(t *testing.T) {
	seen := make(chan rpcRequest, 1)
	srv := rpcServer(t, map[string]string{
		"account_info": `{"status":"success","account_data":{"Account":"` + testAccount + `","Balance":"1000000000","Sequence":7,"OwnerCount":1,"Flags":0}}`,
	}, seen)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	acc, err := c.AccountInfo(context.Background(), testAccount)
	assert.Nil(t, err)
	assert.Equal(t, testAccount, acc.Account)
	assert.Equal(t, "1000000000", acc.Balance)
	assert.Equal(t, uint32(7), acc.Sequence)

	req := <-seen
	assert.Equal(t, "account_info", req.Method)
	assert.Equal(t, testAccount, req.Params[0]["account"])
}

func TestAccountNotFound(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"account_info": `{"status":"error","error":"actNotFound","error_message":"Account not found."}`,
	}, nil)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.AccountInfo(context.Background(), testAccount)
	assert.True(t, IsRPCError(err, "actNotFound"))
	assert.Equal(t, "actNotFound: Account not found.", err.Error())
}

func TestHTTPError(t *testing.T) {
	srv := rpcServer(t, map[string]string{}, nil)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.LedgerCurrent(context.Background())
	assert.NotNil(t, err)
	assert.False(t, IsRPCError(err, "actNotFound"))
}

func TestBookOffers(t *testing.T) {
	seen := make(chan rpcRequest, 1)
	srv := rpcServer(t, map[string]string{
		"book_offers": `{"status":"success","offers":[{"Account":"` + testAccount + `","Sequence":12,"TakerGets":{"currency":"4245415200000000000000000000000000000000","issuer":"` + testAccount + `","value":"10"},"TakerPays":"5000000","quality":"500000"}]}`,
	}, seen)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	bear := types.Issue{Currency: "BEAR", Issuer: testAccount}
	offers, err := c.BookOffers(context.Background(), bear, types.Issue{Currency: types.NativeCurrency}, 20)
	assert.Nil(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, uint32(12), offers[0].Sequence)
	assert.True(t, offers[0].TakerPays.IsNative())
	assert.Equal(t, "10", offers[0].TakerGets.Value)

	req := <-seen
	gets := req.Params[0]["taker_gets"].(map[string]interface{})
	assert.Equal(t, "4245415200000000000000000000000000000000", gets["currency"])
	assert.Equal(t, float64(20), req.Params[0]["limit"])
}

func TestAccountLinesPaging(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.Nil(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		if _, ok := req.Params[0]["marker"]; !ok {
			w.Write([]byte(`{"result":{"status":"success","lines":[{"account":"a","balance":"1","currency":"USD","limit":"10"}],"marker":"next"}}`))
			return
		}
		w.Write([]byte(`{"result":{"status":"success","lines":[{"account":"b","balance":"2","currency":"EUR","limit":"10"}]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	lines, err := c.AccountLines(context.Background(), testAccount, "")
	assert.Nil(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, lines, 2)
	assert.Equal(t, "EUR", lines[1].Currency)
}

func TestFeeAndLedger(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"fee":            `{"status":"success","drops":{"base_fee":"10","minimum_fee":"10","open_ledger_fee":"12"}}`,
		"ledger_current": `{"status":"success","ledger_current_index":800}`,
	}, nil)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	fee, err := c.Fee(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, int64(12), fee.OpenLedgerFee)

	idx, err := c.LedgerCurrent(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, uint32(800), idx)
}

func TestSubmitAndTx(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"submit": `{"status":"success","engine_result":"tesSUCCESS","engine_result_message":"applied","tx_json":{"hash":"ABCD"}}`,
		"tx":     `{"status":"success","hash":"ABCD","ledger_index":801,"validated":true,"meta":{"TransactionResult":"tesSUCCESS"}}`,
	}, nil)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	res, err := c.Submit(context.Background(), "1200")
	assert.Nil(t, err)
	assert.Equal(t, "tesSUCCESS", res.EngineResult)
	assert.Equal(t, "ABCD", res.Hash)

	st, err := c.Tx(context.Background(), "ABCD")
	assert.Nil(t, err)
	assert.Equal(t, types.Validated, st.StatusCode)
	assert.Equal(t, uint32(801), st.LedgerIndex)
}

func TestTxNotFound(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"tx": `{"status":"error","error":"txnNotFound"}`,
	}, nil)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	st, err := c.Tx(context.Background(), "ABCD")
	assert.Nil(t, err)
	assert.Equal(t, types.NotExist, st.StatusCode)
}
