package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

type prices []int

func (p prices) Len() int           { return len(p) }
func (p prices) Less(i, j int) bool { return p[i] < p[j] }
func (p prices) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

func TestArgsort(t *testing.T) {
	s := NewSlice(prices{7, 5, 6}, false)
	sort.Sort(s)
	assert.Equal(t, []int{1, 2, 0}, s.Idx)

	s = NewSlice(prices{1, 3, 2}, true)
	sort.Sort(s)
	assert.Equal(t, []int{1, 2, 0}, s.Idx)
}

func TestSortStable(t *testing.T) {
	p := prices{2, 1, 2, 1}
	idx := SortStable(p, true)
	// equal prices keep their book order
	assert.Equal(t, []int{0, 2, 1, 3}, idx)
	assert.Equal(t, prices{2, 2, 1, 1}, p)
}
