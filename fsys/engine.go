// Package fsys is the filesystem engine: mount/format, allocation, the
// directory-entry protocol, block attach/detach across direct/indirect
// tiers, the path resolver, and the file/directory/link/stat operations. It
// is grounded throughout in the original source's src/Filesystem.cpp and in
// the teacher's top-level engine split (mount.go/mkfs.go/fs.go/alloc.go/
// dir.go in github.com/mit-pdos/go-nfsd), adapted from an NFS server backed
// by a write-ahead log onto a single synchronous in-process engine with no
// journal, per this system's scope.
package fsys

import (
	"github.com/laadim/blockfs/bitmap"
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/image"
	"github.com/laadim/blockfs/inode"
	"github.com/laadim/blockfs/super"
)

// BlockSize is the fixed data-block size in bytes.
const BlockSize uint32 = 1024

// BlocksPerInode sets the ratio Format uses to size the inode table relative
// to the block count.
const BlocksPerInode uint32 = 4

// Engine is a mounted (or not-yet-formatted) filesystem instance. It owns one
// Image I/O handle, one Superblock value, the two in-RAM bitmaps, and the
// current-directory inode id.
type Engine struct {
	img         *image.Image
	imagePath   string
	sb          *super.Superblock
	inodeBitmap *bitmap.Bitmap
	blockBitmap *bitmap.Bitmap
	cwd         common.InodeID
	formatted   bool
}

// Mount opens imagePath read-write and attempts to load an existing
// filesystem. If the image carries no valid superblock, the returned Engine
// is in the UNFORMATTED state: only Format, Formatted, and Shutdown are
// legal until Format succeeds.
func Mount(imagePath string) (*Engine, error) {
	im := image.New()
	if err := im.OpenFile(imagePath, image.ReadWrite); err != nil {
		return nil, err
	}
	eng := &Engine{img: im, imagePath: imagePath}

	header, err := im.ReadBytes(0, super.ByteSize)
	if err != nil || len(header) != super.ByteSize {
		DPrintf(1, "Mount: %s has no readable header, unformatted\n", imagePath)
		return eng, nil
	}
	sb, err := super.FromBytes(header)
	if err != nil || !sb.Formatted() {
		DPrintf(1, "Mount: %s is not formatted\n", imagePath)
		return eng, nil
	}

	ibBytes, err := im.ReadBytes(uint64(sb.InodeBitmapOffset), uint64(sb.InodeBitmapBytes()))
	if err != nil {
		return nil, err
	}
	bbBytes, err := im.ReadBytes(uint64(sb.BlockBitmapOffset), uint64(sb.BlockBitmapBytes()))
	if err != nil {
		return nil, err
	}

	eng.sb = sb
	eng.inodeBitmap = bitmap.LoadFromBytes(ibBytes, sb.TotalInodes)
	eng.blockBitmap = bitmap.LoadFromBytes(bbBytes, sb.TotalBlocks)
	eng.cwd = common.InodeID(sb.RootNodeID)
	eng.formatted = true
	DPrintf(1, "Mount: %s formatted, root=%d\n", imagePath, sb.RootNodeID)
	return eng, nil
}

// Formatted reports whether the engine is mounted on a formatted image.
func (e *Engine) Formatted() bool {
	return e.formatted
}

func (e *Engine) requireFormatted() error {
	if !e.formatted {
		return common.New(common.FilesystemNotFormatted, "filesystem is not formatted")
	}
	return nil
}

// Format lays out a brand-new filesystem of the given image size in bytes,
// per spec §4.6: resize, shrink the block count until metadata plus data
// fits, populate the superblock, create empty bitmaps, allocate and seed the
// root directory, and persist everything.
func (e *Engine) Format(totalBytes uint32) error {
	if _, err := e.img.Resize(uint64(totalBytes)); err != nil {
		return err
	}

	blocks := totalBytes / BlockSize
	var inodes, metadata uint32
	for {
		inodes = blocks / BlocksPerInode
		metadata = super.ByteSize + ceilDiv8(inodes) + ceilDiv8(blocks) + inode.ByteSize*inodes
		if metadata+blocks*BlockSize <= totalBytes {
			break
		}
		if blocks == 0 {
			break
		}
		blocks--
	}
	if blocks == 0 || inodes == 0 {
		return common.New(common.InvalidFilesystemSize, "image too small to hold any inode or block")
	}

	sb := &super.Superblock{
		Magic:             super.Magic,
		BlockSize:         BlockSize,
		TotalBlocks:       blocks,
		TotalInodes:       inodes,
		ImageSize:         totalBytes,
		InodeBitmapOffset: super.ByteSize,
	}
	sb.BlockBitmapOffset = sb.InodeBitmapOffset + ceilDiv8(inodes)
	sb.InodeTableOffset = sb.BlockBitmapOffset + ceilDiv8(blocks)
	sb.DataBlocksOffset = sb.InodeTableOffset + inode.ByteSize*inodes

	e.sb = sb
	e.inodeBitmap = bitmap.New(inodes)
	e.blockBitmap = bitmap.New(blocks)
	e.formatted = true

	root, err := e.AllocateNode(true)
	if err != nil {
		e.formatted = false
		return err
	}
	sb.RootNodeID = uint32(root.ID)
	e.cwd = root.ID

	if err := e.AddChild(root, ".", root.ID); err != nil {
		return err
	}
	if err := e.AddChild(root, "..", root.ID); err != nil {
		return err
	}

	if err := e.persistMetadata(); err != nil {
		return err
	}
	DPrintf(0, "Format: %d blocks, %d inodes, root=%d\n", blocks, inodes, root.ID)
	return nil
}

func ceilDiv8(n uint32) uint32 {
	return (n + 7) / 8
}

// persistMetadata writes the superblock and both bitmaps to the image.
func (e *Engine) persistMetadata() error {
	if _, err := e.img.WriteBytes(0, e.sb.ToBytes()); err != nil {
		return err
	}
	if _, err := e.img.WriteBytes(uint64(e.sb.InodeBitmapOffset), e.inodeBitmap.SaveToBytes()); err != nil {
		return err
	}
	if _, err := e.img.WriteBytes(uint64(e.sb.BlockBitmapOffset), e.blockBitmap.SaveToBytes()); err != nil {
		return err
	}
	return nil
}

// Shutdown flushes metadata (if formatted) and closes the image handle.
// There is no explicit sync API beyond this: in-RAM bitmap mutations are
// durable only after Shutdown.
func (e *Engine) Shutdown() error {
	if e.formatted {
		if err := e.persistMetadata(); err != nil {
			return err
		}
		if err := e.img.Flush(); err != nil {
			return err
		}
	}
	return e.img.CloseFile()
}

func (e *Engine) readInode(id common.InodeID) (*inode.Inode, error) {
	off := uint64(e.sb.InodeOffset(id))
	b, err := e.img.ReadBytes(off, inode.ByteSize)
	if err != nil {
		return nil, err
	}
	return inode.FromBytes(b)
}

func (e *Engine) writeInode(ip *inode.Inode) error {
	off := uint64(e.sb.InodeOffset(ip.ID))
	_, err := e.img.WriteBytes(off, ip.ToBytes())
	return err
}

func (e *Engine) readBlock(id common.BlockID) ([]byte, error) {
	off := uint64(e.sb.BlockOffset(id))
	return e.img.ReadBytes(off, uint64(e.sb.BlockSize))
}

func (e *Engine) writeBlock(id common.BlockID, data []byte) error {
	off := uint64(e.sb.BlockOffset(id))
	_, err := e.img.WriteBytes(off, data)
	return err
}

func fillBlock(size uint32, b byte) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = b
	}
	return buf
}
