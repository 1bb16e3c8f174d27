package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	s := MakeBits[int]()

	s.SetAll(1, 3, 64, 200)

	assert.True(t, s.IsSet(1))
	assert.True(t, s.IsSet(200))
	assert.False(t, s.IsSet(2))
	assert.False(t, s.IsSet(1000))
	assert.False(t, s.IsSet(-1))

	assert.Equal(t, 4, s.Size())
	assert.Equal(t, []int{1, 3, 64, 200}, s.Slice())

	s.Clear(3)
	s.Clear(5000)

	assert.False(t, s.IsSet(3))
	assert.Equal(t, []int{1, 64, 200}, s.Slice())
}

func TestBitsZero(t *testing.T) {
	var s Bits[int64]

	assert.False(t, s.IsSet(0))
	assert.Nil(t, s.Slice())

	s.Set(0)
	assert.True(t, s.IsSet(0))
}
