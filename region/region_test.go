package region_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/lazyheap/region"
)

func TestNew(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	r, err := region.New(4096)
	assert.NoError(err)
	t.Cleanup(func() { _ = r.Release() })

	assert.NotZero(r.Base())
	assert.Equal(uintptr(4096), r.Len())
	assert.True(r.Contains(r.Base()))
	assert.True(r.Contains(r.Base() + 4095))
	assert.False(r.Contains(r.Base() + 4096))

	b := r.Bytes()
	b[0], b[4095] = 0xde, 0xad
	assert.Equal(byte(0xde), r.Bytes()[0])
	assert.Equal(byte(0xad), r.Bytes()[4095])
}

func TestMap(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	r, err := region.Map(100)
	assert.NoError(err)

	assert.GreaterOrEqual(r.Len(), uintptr(100))
	r.Bytes()[99] = 0x42
	assert.Equal(byte(0x42), r.Bytes()[99])

	assert.NoError(r.Release())
	assert.NoError(r.Release())
}

func TestZeroLength(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	_, err := region.New(0)
	assert.ErrorIs(err, region.ErrEmpty)
	_, err = region.Map(0)
	assert.ErrorIs(err, region.ErrEmpty)
}
