package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxStatusCode(t *testing.T) {
	statusCode := NotExist
	assert.Equal(t, "not exist", statusCode.String())
	statusCode = Pending
	assert.Equal(t, "pending", statusCode.String())
	statusCode = Validated
	assert.Equal(t, "validated", statusCode.String())
	statusCode = Failed
	assert.Equal(t, "failed", statusCode.String())
	statusCode = Expired
	assert.Equal(t, "expired", statusCode.String())
	statusCode = Unknown
	assert.Equal(t, "unknown", statusCode.String())
}

func TestRetryable(t *testing.T) {
	assert.True(t, (&SubmitResult{EngineResult: "tesSUCCESS"}).Retryable())
	assert.True(t, (&SubmitResult{EngineResult: "terQUEUED"}).Retryable())
	assert.True(t, (&SubmitResult{EngineResult: "tecUNFUNDED_OFFER"}).Retryable())
	assert.False(t, (&SubmitResult{EngineResult: "temBAD_AMOUNT"}).Retryable())
	assert.False(t, (&SubmitResult{EngineResult: "tefPAST_SEQ"}).Retryable())
	assert.False(t, (&SubmitResult{EngineResult: "telINSUF_FEE_P"}).Retryable())
}
