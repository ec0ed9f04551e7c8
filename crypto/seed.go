package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
)

// KeyType is the signing algorithm a seed derives keys for.
type KeyType uint8

const (
	KeyTypeSecp256k1 KeyType = iota
	KeyTypeEd25519
)

func (kt KeyType) String() string {
	switch kt {
	case KeyTypeSecp256k1:
		return "secp256k1"
	case KeyTypeEd25519:
		return "ed25519"
	}
	return "unknown"
}

var ErrInvalidSeed = errors.New("invalid seed")

// DecodeSeed decodes a family seed. Seeds starting with "sEd" derive
// ed25519 keys, the others secp256k1 keys.
func DecodeSeed(s string) ([16]byte, KeyType, error) {
	var entropy [16]byte
	payload, err := decodeCheck(s)
	if err != nil {
		return entropy, 0, ErrInvalidSeed
	}
	switch {
	case len(payload) == 19 && bytes.HasPrefix(payload, ed25519SeedPrefix):
		copy(entropy[:], payload[3:])
		return entropy, KeyTypeEd25519, nil
	case len(payload) == 17 && payload[0] == seedVersion:
		copy(entropy[:], payload[1:])
		return entropy, KeyTypeSecp256k1, nil
	}
	return entropy, 0, ErrInvalidSeed
}

// EncodeSeed encodes the seed entropy for the key type.
func EncodeSeed(entropy [16]byte, kt KeyType) string {
	var payload []byte
	if kt == KeyTypeEd25519 {
		payload = append(payload, ed25519SeedPrefix...)
	} else {
		payload = append(payload, seedVersion)
	}
	payload = append(payload, entropy[:]...)
	return encodeCheck(payload)
}

// GenerateSeed returns a random seed for the key type.
func GenerateSeed(kt KeyType) (string, error) {
	var entropy [16]byte
	if _, err := io.ReadFull(rand.Reader, entropy[:]); err != nil {
		return "", err
	}
	return EncodeSeed(entropy, kt), nil
}
