package exchange

import "math/big"

// ComparePrice compares two prices, -1 if lhs < rhs, 0 if
// lhs == rhs and 1 if lhs > rhs.
func ComparePrice(lhs *big.Rat, rhs *big.Rat) int {
	return lhs.Cmp(rhs)
}
