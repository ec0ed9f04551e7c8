package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellFormErrorsPerField(t *testing.T) {
	errs := (&sellForm{Seed: "s", Amount: "10", XRP: "0.0000001"}).validate()
	assert.Equal(t, fieldErrors{"xrp": msgXRPDecimals}, errs)

	errs = (&sellForm{Seed: "s", Amount: "1/3", XRP: "5"}).validate()
	assert.Equal(t, fieldErrors{"amount": msgNotPositive}, errs)

	errs = (&sellForm{Seed: "s", Amount: "0.5", XRP: "0.000001"}).validate()
	assert.False(t, errs.any())
}

func TestBuyFormErrorsPerField(t *testing.T) {
	errs := (&buyForm{Seed: "s", XRP: "2/1", Bear: "0"}).validate()
	assert.Equal(t, fieldErrors{"xrp": msgNotPositive, "bear": msgNotPositive}, errs)

	errs = (&buyForm{Seed: "s", XRP: "1.1234567", Bear: "3"}).validate()
	assert.Equal(t, fieldErrors{"xrp": msgXRPDecimals}, errs)
}
