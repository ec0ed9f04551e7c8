package api

import (
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
)

// formError is the key of errors not bound to a field.
const formError = "form"

// fieldErrors maps a field name to its error message.
type fieldErrors map[string]string

func (e fieldErrors) any() bool {
	return len(e) > 0
}

func value(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

const (
	msgNotPositive = "Must be a positive number"
	msgXRPDecimals = "Must be a positive number with at most 6 decimals"
)

func positiveDecimal(s string) bool {
	if !types.IsDecimal(s) {
		return false
	}
	r, ok := new(big.Rat).SetString(s)
	return ok && r.Sign() > 0
}

// requireAmount checks a required positive token amount.
func requireAmount(errs fieldErrors, name, v, requiredMsg string) {
	switch {
	case v == "":
		errs[name] = requiredMsg
	case !positiveDecimal(v):
		errs[name] = msgNotPositive
	}
}

// requireXRP checks a required positive XRP amount that converts to
// whole drops.
func requireXRP(errs fieldErrors, name, v, requiredMsg string) {
	switch {
	case v == "":
		errs[name] = requiredMsg
	case !positiveDecimal(v):
		errs[name] = msgNotPositive
	default:
		if _, err := types.ParseXRP(v); err != nil {
			errs[name] = msgXRPDecimals
		}
	}
}

type loginForm struct {
	AccountID  string
	RedirectTo string
}

func parseLoginForm(r *http.Request) *loginForm {
	return &loginForm{
		AccountID:  value(r, "accountId"),
		RedirectTo: value(r, "redirectTo"),
	}
}

func (f *loginForm) validate() fieldErrors {
	errs := fieldErrors{}
	switch {
	case f.AccountID == "":
		errs["accountId"] = "Account is required"
	case !crypto.IsValidAddress(f.AccountID):
		errs["accountId"] = "Invalid Account provided"
	}
	return errs
}

// sellForm offers tokens for XRP.
type sellForm struct {
	Seed   string
	Amount string
	XRP    string
}

func parseSellForm(r *http.Request) *sellForm {
	return &sellForm{
		Seed:   value(r, "seed"),
		Amount: value(r, "amount"),
		XRP:    value(r, "xrp"),
	}
}

func (f *sellForm) validate() fieldErrors {
	errs := fieldErrors{}
	if f.Seed == "" {
		errs["seed"] = "Account seed is required"
	}
	requireAmount(errs, "amount", f.Amount, "Amount is required")
	requireXRP(errs, "xrp", f.XRP, "XRP Amount is required")
	return errs
}

func (f *sellForm) values() map[string]string {
	return map[string]string{"amount": f.Amount, "xrp": f.XRP}
}

// buyForm offers XRP for tokens.
type buyForm struct {
	Seed string
	XRP  string
	Bear string
}

func parseBuyForm(r *http.Request) *buyForm {
	return &buyForm{
		Seed: value(r, "seed"),
		XRP:  value(r, "xrp"),
		Bear: value(r, "bear"),
	}
}

func (f *buyForm) validate() fieldErrors {
	errs := fieldErrors{}
	if f.Seed == "" {
		errs["seed"] = "Account seed is required"
	}
	requireXRP(errs, "xrp", f.XRP, "XRP Amount is required")
	requireAmount(errs, "bear", f.Bear, "Amount is required")
	return errs
}

func (f *buyForm) values() map[string]string {
	return map[string]string{"xrp": f.XRP, "bear": f.Bear}
}

type trustForm struct {
	Seed string
}

func parseTrustForm(r *http.Request) *trustForm {
	return &trustForm{Seed: value(r, "seed")}
}

func (f *trustForm) validate() fieldErrors {
	errs := fieldErrors{}
	if f.Seed == "" {
		errs["seed"] = "Account seed is required"
	}
	return errs
}

// acceptForm takes the offer of Owner with Sequence.
type acceptForm struct {
	Seed     string
	Sequence uint32
	Owner    string
	Back     string
}

func parseAcceptForm(r *http.Request) (*acceptForm, fieldErrors) {
	f := &acceptForm{
		Seed:  value(r, "seed"),
		Owner: value(r, "owner"),
		Back:  safeRedirect(value(r, "back"), "/buy"),
	}
	errs := fieldErrors{}
	if f.Seed == "" {
		errs["seed"] = "Account seed is required"
	}
	seq, err := strconv.ParseUint(value(r, "sequence"), 10, 32)
	if err != nil || seq == 0 {
		errs[formError] = "Invalid offer selected"
	}
	f.Sequence = uint32(seq)
	if !crypto.IsValidAddress(f.Owner) {
		errs[formError] = "Invalid offer selected"
	}
	return f, errs
}
