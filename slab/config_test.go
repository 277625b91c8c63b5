package slab_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/lazyheap/slab"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	cfg, err := slab.LoadConfig([]byte("min_block: 12\nmax_block: 1000\n"))
	assert.NoError(err)
	assert.Equal(slab.Config{MinBlock: 16, MaxBlock: 1024}, cfg)

	cfg, err = slab.LoadConfig([]byte("{}"))
	assert.NoError(err)
	assert.Equal(slab.DefaultConfig(), cfg)

	_, err = slab.LoadConfig([]byte("min_block: 4096\nmax_block: 64\n"))
	assert.ErrorIs(err, slab.ErrInvalidConfig)

	_, err = slab.LoadConfig([]byte("min_block: [1, 2]"))
	assert.ErrorIs(err, slab.ErrInvalidConfig)
}

func TestEmptyWithConfig(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	h, err := slab.EmptyWithConfig(slab.Config{MinBlock: 32, MaxBlock: 128})
	assert.NoError(err)
	assert.NoError(h.Init(0x4000, 4096))

	// Served from the 32-byte class, so it is 32-byte aligned.
	p := h.Alloc(slab.MustLayout(1, 1))
	assert.NotZero(p)
	assert.Zero(p % 32)

	// Above max_block: carved straight from the span list.
	q := h.Alloc(slab.MustLayout(200, 8))
	assert.NotZero(q)

	_, err = slab.EmptyWithConfig(slab.Config{MinBlock: 256, MaxBlock: 16})
	assert.ErrorIs(err, slab.ErrInvalidConfig)
}
