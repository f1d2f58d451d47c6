package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/laadim/blockfs/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadWriteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "img.bin")
	im := New()
	require.NoError(t, im.OpenFile(p, ReadWrite))
	defer im.CloseFile()
	_, err := os.Stat(p)
	assert.NoError(t, err)
}

func TestOpenReadMissingFails(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "missing.bin")
	im := New()
	err := im.OpenFile(p, Read)
	assert.Error(t, err)
	assert.True(t, common.Is(err, common.FileDoesNotExist))
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "img.bin")
	im := New()
	require.NoError(t, im.OpenFile(p, ReadWrite))
	defer im.CloseFile()

	_, err := im.Resize(4096)
	require.NoError(t, err)

	n, err := im.WriteBytes(100, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	got, err := im.ReadBytes(100, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestResizeZeroFills(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "img.bin")
	im := New()
	require.NoError(t, im.OpenFile(p, ReadWrite))
	defer im.CloseFile()

	_, err := im.WriteBytes(0, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	_, err = im.Resize(1024)
	require.NoError(t, err)

	got, err := im.ReadBytes(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestReadOnlyRejectsWrite(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "img.bin")
	im := New()
	require.NoError(t, im.OpenFile(p, ReadWrite))
	_, err := im.Resize(64)
	require.NoError(t, err)
	require.NoError(t, im.CloseFile())

	ro := New()
	require.NoError(t, ro.OpenFile(p, Read))
	defer ro.CloseFile()
	_, err = ro.WriteBytes(0, []byte("x"))
	assert.Error(t, err)
	assert.True(t, common.Is(err, common.FileReadOnly))

	_, err = ro.Resize(128)
	assert.Error(t, err)
}

func TestShortReadAtEOF(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "img.bin")
	im := New()
	require.NoError(t, im.OpenFile(p, ReadWrite))
	defer im.CloseFile()
	_, err := im.Resize(10)
	require.NoError(t, err)

	got, err := im.ReadBytes(8, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
