package sizeparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laadim/blockfs/common"
)

func TestParseRawBytes(t *testing.T) {
	n, err := Parse("4096")
	require.NoError(t, err)
	require.Equal(t, uint64(4096), n)
}

func TestParseKBMBGBSuffixes(t *testing.T) {
	// RAMInBytes treats KB/MB/GB as binary (1024-based) units, matching
	// docker/go-units' own backward-compatible suffix table.
	n, err := Parse("1KB")
	require.NoError(t, err)
	require.Equal(t, uint64(1024), n)

	n, err = Parse("2MB")
	require.NoError(t, err)
	require.Equal(t, uint64(2*1024*1024), n)

	n, err = Parse("1GB")
	require.NoError(t, err)
	require.Equal(t, uint64(1024*1024*1024), n)
}

func TestParseLowercaseSuffix(t *testing.T) {
	n, err := Parse("64mb")
	require.NoError(t, err)
	require.Equal(t, uint64(64*1024*1024), n)
}

func TestParseRejectsUnsupportedSuffix(t *testing.T) {
	_, err := Parse("10TB")
	require.True(t, common.Is(err, common.InvalidFilesystemSize))
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse("")
	require.True(t, common.Is(err, common.InvalidFilesystemSize))
}

func TestParseRejectsZero(t *testing.T) {
	_, err := Parse("0B")
	require.True(t, common.Is(err, common.InvalidFilesystemSize))
}
