package util

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64Comparison(t *testing.T) {
	assert.Equal(t, int64(2), MaxInt64(int64(1), int64(2)))
}

func TestFormatRat(t *testing.T) {
	assert.Equal(t, "0", FormatRat(nil, 6))
	assert.Equal(t, "0", FormatRat(new(big.Rat), 6))
	assert.Equal(t, "2.5", FormatRat(big.NewRat(5, 2), 6))
	assert.Equal(t, "0.333333", FormatRat(big.NewRat(1, 3), 6))
	assert.Equal(t, "600", FormatRat(big.NewRat(600, 1), 6))
}

func TestSumRat(t *testing.T) {
	sum := SumRat(big.NewRat(1, 2), nil, big.NewRat(3, 2))
	assert.Equal(t, 0, sum.Cmp(big.NewRat(2, 1)))
}
