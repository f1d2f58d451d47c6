// Package image implements random-access byte I/O against the host file
// backing a filesystem image, grounded in the original source's
// helpers/FileIOHandler.{h,cpp} and in the teacher's direct use of
// golang.org/x/sys/unix for file I/O (cmd/fs-smallfile/main.go's
// unix.Open/unix.Write/unix.Fsync/unix.Close/unix.Openat/unix.Unlinkat),
// rather than the stdlib os.File the rest of the Go ecosystem defaults to.
package image

import (
	"golang.org/x/sys/unix"

	"github.com/laadim/blockfs/common"
)

// Mode selects how OpenFile opens the host file.
type Mode int

const (
	// Read requires the host file to already exist.
	Read Mode = iota
	// ReadWrite creates the host file if it does not exist.
	ReadWrite
)

// Image is a random-access byte-addressable handle onto a host file.
type Image struct {
	fd     int
	path   string
	mode   Mode
	isOpen bool
}

// New returns a closed, unopened Image handle.
func New() *Image {
	return &Image{fd: -1}
}

// OpenFile opens path in the given mode. In ReadWrite mode the file is
// created if absent; in Read mode a missing file fails with
// FileDoesNotExist.
func (im *Image) OpenFile(path string, mode Mode) error {
	flags := unix.O_RDONLY
	if mode == ReadWrite {
		flags = unix.O_RDWR | unix.O_CREAT
	}
	fd, err := unix.Open(path, flags, 0644)
	if err != nil {
		if mode == Read && err == unix.ENOENT {
			return common.Newf(common.FileDoesNotExist, "image: %s does not exist", path)
		}
		return common.Newf(common.CouldNotOpenFile, "image: open %s: %v", path, err)
	}
	im.fd = fd
	im.path = path
	im.mode = mode
	im.isOpen = true
	return nil
}

// IsOpen reports whether the handle currently owns an open file descriptor.
func (im *Image) IsOpen() bool {
	return im.isOpen
}

// EnsureWritable fails unless the handle was opened ReadWrite.
func (im *Image) EnsureWritable() error {
	if !im.isOpen {
		return common.New(common.FileNotOpen, "image: not open")
	}
	if im.mode != ReadWrite {
		return common.New(common.FileReadOnly, "image: opened read-only")
	}
	return nil
}

// ReadBytes reads up to size bytes starting at offset. A short read at EOF is
// not an error; it simply returns fewer bytes than requested.
func (im *Image) ReadBytes(offset uint64, size uint64) ([]byte, error) {
	if !im.isOpen {
		return nil, common.New(common.FileNotOpen, "image: not open")
	}
	buf := make([]byte, size)
	n, err := unix.Pread(im.fd, buf, int64(offset))
	if err != nil {
		return nil, common.Newf(common.FileRead, "image: read at %d: %v", offset, err)
	}
	return buf[:n], nil
}

// WriteBytes writes data at offset, returning the number of bytes written.
// It fails if the image is read-only.
func (im *Image) WriteBytes(offset uint64, data []byte) (uint64, error) {
	if err := im.EnsureWritable(); err != nil {
		return 0, err
	}
	n, err := unix.Pwrite(im.fd, data, int64(offset))
	if err != nil {
		return 0, common.Newf(common.FileWrite, "image: write at %d: %v", offset, err)
	}
	return uint64(n), nil
}

// Flush syncs outstanding writes to the host file.
func (im *Image) Flush() error {
	if !im.isOpen {
		return common.New(common.FileNotOpen, "image: not open")
	}
	if err := unix.Fsync(im.fd); err != nil {
		return common.Newf(common.FileWrite, "image: fsync: %v", err)
	}
	return nil
}

// Resize truncates or grows the file to newSize. Per spec the entire file is
// then zero-filled and logically repositioned at offset 0 (callers address
// purely by offset, so there is no cursor to reposition in this
// implementation; the contract is satisfied by the zero-fill alone). It
// fails if the image is read-only.
func (im *Image) Resize(newSize uint64) (uint64, error) {
	if err := im.EnsureWritable(); err != nil {
		return 0, err
	}
	if err := unix.Ftruncate(im.fd, 0); err != nil {
		return 0, common.Newf(common.CouldNotResizeImage, "image: truncate to 0: %v", err)
	}
	if err := unix.Ftruncate(im.fd, int64(newSize)); err != nil {
		return 0, common.Newf(common.CouldNotResizeImage, "image: truncate to %d: %v", newSize, err)
	}
	return newSize, nil
}

// CloseFile flushes and closes the underlying file descriptor.
func (im *Image) CloseFile() error {
	if !im.isOpen {
		return nil
	}
	_ = unix.Fsync(im.fd)
	err := unix.Close(im.fd)
	im.isOpen = false
	im.fd = -1
	if err != nil {
		return common.Newf(common.CouldNotOpenFile, "image: close %s: %v", im.path, err)
	}
	return nil
}
