package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// NativeCurrency is the currency code of the ledger's base asset.
const NativeCurrency = "XRP"

// DropsPerXRP is the number of drops in one XRP.
const DropsPerXRP = 1000000

var ErrInvalidAmount = errors.New("invalid amount")

var decimalRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// IsDecimal reports whether s is a plain non-negative decimal number
// such as "12" or "0.5".
func IsDecimal(s string) bool {
	return decimalRe.MatchString(s)
}

// Issue identifies an asset: XRP or a currency of an issuer.
type Issue struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
}

func (i Issue) IsNative() bool {
	return i.Currency == NativeCurrency || i.Currency == ""
}

// Equal compares issues with the currency codes normalized.
func (i Issue) Equal(o Issue) bool {
	if i.IsNative() || o.IsNative() {
		return i.IsNative() && o.IsNative()
	}
	return CurrencyCode(i.Currency) == CurrencyCode(o.Currency) && i.Issuer == o.Issuer
}

// MarshalJSON encodes the issue with its currency in ledger form.
func (i Issue) MarshalJSON() ([]byte, error) {
	if i.IsNative() {
		return json.Marshal(map[string]string{"currency": NativeCurrency})
	}
	return json.Marshal(map[string]string{"currency": CurrencyCode(i.Currency), "issuer": i.Issuer})
}

// Amount is either a number of drops of XRP or a decimal value
// of an issued currency.
type Amount struct {
	Issue
	Value string
}

// XRP builds a native amount of drops.
func XRP(drops int64) Amount {
	return Amount{Issue: Issue{Currency: NativeCurrency}, Value: strconv.FormatInt(drops, 10)}
}

// IOU builds an issued currency amount.
func IOU(currency, issuer, value string) Amount {
	return Amount{Issue: Issue{Currency: currency, Issuer: issuer}, Value: value}
}

// ParseXRP converts a positive decimal number of XRP into drops.
func ParseXRP(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if !IsDecimal(s) {
		return Amount{}, ErrInvalidAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() <= 0 {
		return Amount{}, ErrInvalidAmount
	}
	r.Mul(r, big.NewRat(DropsPerXRP, 1))
	if !r.IsInt() || !r.Num().IsInt64() {
		return Amount{}, ErrInvalidAmount
	}
	return XRP(r.Num().Int64()), nil
}

// ParseIOU builds an issued amount from a positive decimal value.
func ParseIOU(issue Issue, s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if !IsDecimal(s) || issue.IsNative() {
		return Amount{}, ErrInvalidAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() <= 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{Issue: issue, Value: s}, nil
}

// Drops returns the drops of a native amount.
func (a Amount) Drops() (int64, error) {
	if !a.IsNative() {
		return 0, ErrInvalidAmount
	}
	return strconv.ParseInt(a.Value, 10, 64)
}

// Rat returns the amount as a rational in whole units, XRP for
// native amounts.
func (a Amount) Rat() (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(a.Value)
	if !ok {
		return nil, ErrInvalidAmount
	}
	if a.IsNative() {
		r.Quo(r, big.NewRat(DropsPerXRP, 1))
	}
	return r, nil
}

func (a Amount) String() string {
	if a.IsNative() {
		return a.Value + " drops"
	}
	return fmt.Sprintf("%s/%s/%s", a.Value, CurrencyName(a.Currency), a.Issuer)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IsNative() {
		return json.Marshal(a.Value)
	}
	return json.Marshal(map[string]string{
		"currency": CurrencyCode(a.Currency),
		"issuer":   a.Issuer,
		"value":    a.Value,
	})
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var drops string
	if err := json.Unmarshal(b, &drops); err == nil {
		*a = Amount{Issue: Issue{Currency: NativeCurrency}, Value: drops}
		return nil
	}
	var iou struct {
		Currency string `json:"currency"`
		Issuer   string `json:"issuer"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal(b, &iou); err != nil {
		return fmt.Errorf("decode amount failed: %v", err)
	}
	*a = Amount{Issue: Issue{Currency: iou.Currency, Issuer: iou.Issuer}, Value: iou.Value}
	return nil
}

// CurrencyCode returns the ledger form of a currency: three letter
// codes as is, longer names as 40 hex characters.
func CurrencyCode(name string) string {
	if len(name) <= 3 || len(name) == 40 {
		return name
	}
	b := make([]byte, 20)
	copy(b, name)
	return strings.ToUpper(hex.EncodeToString(b))
}

// CurrencyName reverses CurrencyCode.
func CurrencyName(code string) string {
	if len(code) != 40 {
		return code
	}
	b, err := hex.DecodeString(code)
	if err != nil || b[0] == 0 {
		return code
	}
	return strings.TrimRight(string(b), "\x00")
}
