package slab_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/lazyheap/slab"
)

func TestNewLayout(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	l, err := slab.NewLayout(64, 8)
	assert.NoError(err)
	assert.Equal(uintptr(64), l.Size())
	assert.Equal(uintptr(8), l.Align())
	assert.Equal("{size:64 align:8}", l.String())

	_, err = slab.NewLayout(64, 0)
	assert.ErrorIs(err, slab.ErrInvalidLayout)
	_, err = slab.NewLayout(64, 12)
	assert.ErrorIs(err, slab.ErrInvalidLayout)
	_, err = slab.NewLayout(math.MaxInt, 16)
	assert.ErrorIs(err, slab.ErrInvalidLayout)

	assert.Panics(func() { slab.MustLayout(1, 3) })
}

func TestLayoutOf(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	type pair struct {
		a uint64
		b uint32
	}
	l := slab.LayoutOf[pair]()
	assert.Equal(uintptr(16), l.Size())
	assert.Equal(uintptr(8), l.Align())
}
