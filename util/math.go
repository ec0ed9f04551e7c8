// Copyright 2019 The go-ultiledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"math/big"
	"strings"
)

// Find the max between two int values
func MaxInt(x int, y int) int {
	if x >= y {
		return x
	}
	return y
}

// Find the min between two int values
func MinInt(x int, y int) int {
	if x <= y {
		return x
	}
	return y
}

// Find the max between two int64 values
func MaxInt64(x int64, y int64) int64 {
	if x >= y {
		return x
	}
	return y
}

// FormatRat formats r with at most prec decimals and without
// trailing zeros. A nil r formats as "0".
func FormatRat(r *big.Rat, prec int) string {
	if r == nil {
		return "0"
	}
	s := r.FloatString(prec)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// SumRat adds up the rationals, skipping nil ones.
func SumRat(rs ...*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for _, r := range rs {
		if r != nil {
			sum.Add(sum, r)
		}
	}
	return sum
}
