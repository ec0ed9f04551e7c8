package crypto

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
)

const (
	accountVersion byte = 0x00
	seedVersion    byte = 0x21
)

var ed25519SeedPrefix = []byte{0x01, 0xE1, 0x4B}

// Alphabet is the base58 alphabet of the ledger.
var Alphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

var (
	ErrInvalidAddress  = errors.New("invalid account address")
	ErrInvalidChecksum = errors.New("invalid checksum")
)

// decodeCheck decodes a base58check string and returns the payload
// with the checksum stripped.
func decodeCheck(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrInvalidAddress
	}
	b, err := base58.DecodeAlphabet(s, Alphabet)
	if err != nil {
		return nil, err
	}
	if len(b) < 5 {
		return nil, ErrInvalidChecksum
	}
	payload, sum := b[:len(b)-4], b[len(b)-4:]
	expect := Checksum(payload)
	if !bytes.Equal(expect[:], sum) {
		return nil, ErrInvalidChecksum
	}
	return payload, nil
}

func encodeCheck(payload []byte) string {
	sum := Checksum(payload)
	b := make([]byte, 0, len(payload)+4)
	b = append(b, payload...)
	b = append(b, sum[:]...)
	return base58.EncodeAlphabet(b, Alphabet)
}

// DecodeAddress decodes a classic "r..." address into the 20 byte
// account id.
func DecodeAddress(s string) ([20]byte, error) {
	var id [20]byte
	payload, err := decodeCheck(s)
	if err != nil {
		return id, ErrInvalidAddress
	}
	if len(payload) != 21 || payload[0] != accountVersion {
		return id, ErrInvalidAddress
	}
	copy(id[:], payload[1:])
	return id, nil
}

// EncodeAddress encodes the account id as a classic address.
func EncodeAddress(id [20]byte) string {
	payload := make([]byte, 0, 21)
	payload = append(payload, accountVersion)
	payload = append(payload, id[:]...)
	return encodeCheck(payload)
}

// IsValidAddress checks whether s is a well formed classic address.
func IsValidAddress(s string) bool {
	if _, err := DecodeAddress(s); err != nil {
		return false
	}
	return true
}
