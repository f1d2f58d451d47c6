package super

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := &Superblock{
		Magic:             Magic,
		BlockSize:         1024,
		TotalBlocks:       100,
		TotalInodes:       25,
		ImageSize:         1 << 20,
		InodeBitmapOffset: 40,
		BlockBitmapOffset: 44,
		InodeTableOffset:  57,
		DataBlocksOffset:  1082,
		RootNodeID:        0,
	}
	b := s.ToBytes()
	require.Len(t, b, ByteSize)
	got, err := FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestFormatted(t *testing.T) {
	s := &Superblock{Magic: Magic}
	assert.True(t, s.Formatted())
	s2 := &Superblock{Magic: 0}
	assert.False(t, s2.Formatted())
}

func TestFromBytesWrongSize(t *testing.T) {
	_, err := FromBytes(make([]byte, 10))
	assert.Error(t, err)
}

func TestOffsetHelpers(t *testing.T) {
	s := &Superblock{BlockSize: 1024, InodeTableOffset: 100, DataBlocksOffset: 2000, TotalInodes: 9, TotalBlocks: 17}
	assert.Equal(t, uint32(2), s.InodeBitmapBytes())
	assert.Equal(t, uint32(3), s.BlockBitmapBytes())
	assert.Equal(t, uint32(100+41*3), s.InodeOffset(3))
	assert.Equal(t, uint32(2000+1024*5), s.BlockOffset(5))
}
