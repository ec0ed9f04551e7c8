package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	p, ok := Find("1")
	assert.True(t, ok)
	assert.Equal(t, "Tesla Model X", p.Name)
	assert.Equal(t, 600, p.Carbon)

	p, ok = Find("2")
	assert.True(t, ok)
	assert.Equal(t, 400, p.Carbon)

	_, ok = Find("3")
	assert.False(t, ok)
	_, ok = Find("abc")
	assert.False(t, ok)

	assert.Len(t, Products(), 2)
}
