package crypto

import (
	"crypto/sha256"
)

// DoubleSHA256 returns sha256(sha256(b)).
func DoubleSHA256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Checksum is the four byte suffix appended to every base58check
// payload of the ledger.
func Checksum(b []byte) [4]byte {
	var sum [4]byte
	h := DoubleSHA256(b)
	copy(sum[:], h[:4])
	return sum
}
