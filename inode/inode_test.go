package inode

import (
	"testing"

	"github.com/laadim/blockfs/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInode(t *testing.T) {
	ip := New(3, true)
	assert.Equal(t, common.InodeID(3), ip.ID)
	assert.Equal(t, uint32(1), ip.Links)
	assert.True(t, ip.IsDir)
	assert.Equal(t, common.UnusedLink, ip.Indirect1)
	assert.Equal(t, common.UnusedLink, ip.Indirect2)
	for _, d := range ip.Direct {
		assert.Equal(t, common.UnusedLink, d)
	}
}

func TestInodeRoundTrip(t *testing.T) {
	ip := New(7, false)
	ip.Direct[0] = 10
	ip.Direct[2] = 11
	ip.Links = 3
	ip.Size = 4096
	b := ip.ToBytes()
	require.Len(t, b, ByteSize)
	got, err := FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, ip, got)
}

func TestFromBytesInvalidDirByte(t *testing.T) {
	ip := New(1, false)
	b := ip.ToBytes()
	b[40] = 2
	_, err := FromBytes(b)
	assert.Error(t, err)
}

func TestFromBytesWrongSize(t *testing.T) {
	_, err := FromBytes(make([]byte, 5))
	assert.Error(t, err)
}

func TestRemoveLinkNoUnderflow(t *testing.T) {
	ip := New(1, false)
	ip.Links = 0
	ok := ip.RemoveLink()
	assert.False(t, ok)
	assert.Equal(t, uint32(0), ip.Links)
}

func TestAddRemoveSize(t *testing.T) {
	ip := New(1, false)
	ip.AddSize(10)
	assert.Equal(t, uint32(10), ip.Size)
	err := ip.RemoveSize(5)
	assert.NoError(t, err)
	assert.Equal(t, uint32(5), ip.Size)
	err = ip.RemoveSize(100)
	assert.Error(t, err)
}

func TestDirectLinkFullAndNotFound(t *testing.T) {
	ip := New(1, false)
	for i := 0; i < DirectLinks; i++ {
		require.NoError(t, ip.AddDirectLink(uint32(i+1)))
	}
	err := ip.AddDirectLink(99)
	assert.Error(t, err)

	err = ip.RemoveDirectLink(1)
	assert.NoError(t, err)
	err = ip.RemoveDirectLink(1)
	assert.Error(t, err)
}

func TestIndirectLinks(t *testing.T) {
	ip := New(1, false)
	require.NoError(t, ip.AddFirstLevelIndirectLink(5))
	assert.Error(t, ip.AddFirstLevelIndirectLink(6))
	ip.RemoveFirstLevelIndirectLink()
	assert.Equal(t, common.UnusedLink, ip.Indirect1)

	require.NoError(t, ip.AddSecondLevelIndirectLink(7))
	assert.Error(t, ip.AddSecondLevelIndirectLink(8))
	ip.RemoveSecondLevelIndirectLink()
	assert.Equal(t, common.UnusedLink, ip.Indirect2)
}

func TestDirEntRoundTrip(t *testing.T) {
	b, err := EncodeDirEnt("abc", 42)
	require.NoError(t, err)
	require.Len(t, b, DirEntSize)
	de := DecodeDirEnt(b)
	assert.Equal(t, "abc", de.Name)
	assert.Equal(t, common.InodeID(42), de.ID)
}

func TestDirEntNameExactly12(t *testing.T) {
	name := "abcdefghijkl"
	b, err := EncodeDirEnt(name, 1)
	require.NoError(t, err)
	de := DecodeDirEnt(b)
	assert.Equal(t, name, de.Name)
}

func TestDirEntNameTooLong(t *testing.T) {
	_, err := EncodeDirEnt("abcdefghijklm", 1)
	assert.Error(t, err)
	assert.True(t, common.Is(err, common.NameTooLong))
}

func TestDirEntUnusedSentinel(t *testing.T) {
	b := make([]byte, DirEntSize)
	for i := range b {
		b[i] = FillByte
	}
	assert.Equal(t, common.UnusedLink, DirEntIDRaw(b))
}
