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
	"sort"
)

// Slice sorts the wrapped collection in either direction and tracks
// where every element came from.
type Slice struct {
	sort.Interface
	// Idx[i] is the position the i-th element held before sorting.
	Idx  []int
	Desc bool
}

func (s Slice) Swap(i, j int) {
	s.Interface.Swap(i, j)
	s.Idx[i], s.Idx[j] = s.Idx[j], s.Idx[i]
}

func (s Slice) Less(i, j int) bool {
	if s.Desc {
		return s.Interface.Less(j, i)
	}
	return s.Interface.Less(i, j)
}

func NewSlice(n sort.Interface, desc bool) *Slice {
	s := &Slice{
		Interface: n,
		Idx:       make([]int, n.Len()),
		Desc:      desc,
	}
	for i := range s.Idx {
		s.Idx[i] = i
	}
	return s
}

// SortStable sorts data keeping the order of equal elements and
// returns the original positions of the sorted elements.
func SortStable(data sort.Interface, desc bool) []int {
	s := NewSlice(data, desc)
	sort.Stable(s)
	return s.Idx
}

// RatSlice orders rationals ascending.
