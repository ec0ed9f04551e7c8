package exchange

import (
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashishtz/carbon-bear-xrpl/util"
)

func TestOfferSorter(t *testing.T) {
	offers := []*Offer{
		{Price: big.NewRat(4, 3)},
		{Price: big.NewRat(3, 4)},
		{Price: big.NewRat(3, 5)},
		{Price: big.NewRat(4, 4)},
	}
	sort.Sort(OfferSlice(offers))

	assert.Equal(t, 0, offers[0].Price.Cmp(big.NewRat(3, 5)))
	assert.Equal(t, 0, offers[1].Price.Cmp(big.NewRat(3, 4)))
	assert.Equal(t, 0, offers[2].Price.Cmp(big.NewRat(1, 1)))
	assert.Equal(t, 0, offers[3].Price.Cmp(big.NewRat(4, 3)))

	// descending through the argsort wrapper
	s := util.NewSlice(OfferSlice(offers), true)
	sort.Sort(s)
	assert.Equal(t, 0, offers[0].Price.Cmp(big.NewRat(4, 3)))
	assert.Equal(t, []int{3, 2, 1, 0}, s.Idx)
}
