package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laadim/blockfs/fsys"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	engine, err := fsys.Mount(path)
	require.NoError(t, err)
	return NewDispatcher(engine)
}

func TestFormatThenMkdirAndLs(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, "Formatted 1048576 bytes", d.Dispatch("format 1MB"))
	require.Equal(t, "OK", d.Dispatch("mkdir /a"))
	require.Equal(t, "OK", d.Dispatch("mkdir /a/b"))
	require.Equal(t, "b/", d.Dispatch("ls /a"))
}

func TestUsageMismatchReturnsUsageNotError(t *testing.T) {
	d := newDispatcher(t)
	out := d.Dispatch("cp onlyone")
	require.Equal(t, "usage: cp <src> <dst>", out)
}

func TestUnknownCommand(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, "Unknown command", d.Dispatch("frobnicate"))
}

func TestOperationsFailBeforeFormat(t *testing.T) {
	d := newDispatcher(t)
	out := d.Dispatch("ls /")
	require.Contains(t, out, "Error")
}

func TestCatRoundTrips(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, "Formatted 1048576 bytes", d.Dispatch("format 1MB"))
	require.Equal(t, "OK", d.Dispatch("mkdir /a"))

	// WriteFile isn't exposed by the dispatch table directly; incp imports
	// the content from the host filesystem instead, and cat reads it back.
	dir := t.TempDir()
	host := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(host, []byte("hello there"), 0644))
	require.Equal(t, "OK", d.Dispatch("incp "+host+" /hi.txt"))
	require.Equal(t, "hello there", d.Dispatch("cat /hi.txt"))
}

func TestExitSentinel(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, "exit", d.Dispatch("exit"))
}
