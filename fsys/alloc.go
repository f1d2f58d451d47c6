// Allocator: AllocateNode/FreeNode/AllocateBlock/FreeBlock, grounded in
// src/Filesystem.cpp's AllocateNode/FreeNode/AllocateBlock/FreeBlock and the
// teacher's bitmap-scan allocator (alloc.go's findFreeRegion).
package fsys

import (
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/inode"
)

// AllocateNode finds a free inode bit, constructs a fresh inode of the given
// kind, and persists it. A freshly allocated directory additionally gets one
// 0xFF-filled data block attached, per spec §4.7; on that attach failing the
// inode bit is rolled back.
func (e *Engine) AllocateNode(isDir bool) (*inode.Inode, error) {
	idx, ok := e.inodeBitmap.FindFirstFree()
	if !ok {
		return nil, common.New(common.CouldNotAllocateNode, "no free inode")
	}
	e.inodeBitmap.Set(idx, true)
	id := common.InodeID(idx)
	ip := inode.New(id, isDir)

	if isDir {
		blockID, err := e.AllocateBlock()
		if err != nil {
			e.inodeBitmap.Set(idx, false)
			return nil, err
		}
		if err := e.AttachBlock(ip, blockID); err != nil {
			e.inodeBitmap.Set(idx, false)
			return nil, err
		}
	}

	if err := e.writeInode(ip); err != nil {
		e.inodeBitmap.Set(idx, false)
		return nil, err
	}
	DPrintf(1, "AllocateNode: # %d dir=%v\n", ip.ID, isDir)
	return ip, nil
}

// FreeNode clears the inode's bit, frees every block reachable from it, and
// zeroes its table slot.
func (e *Engine) FreeNode(ip *inode.Inode) error {
	blocks, err := e.GetAllBlockIds(ip)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if err := e.FreeBlock(b); err != nil {
			return err
		}
	}
	e.inodeBitmap.Set(uint32(ip.ID), false)
	off := uint64(e.sb.InodeOffset(ip.ID))
	zero := make([]byte, inode.ByteSize)
	if _, err := e.img.WriteBytes(off, zero); err != nil {
		return err
	}
	DPrintf(1, "FreeNode: # %d\n", ip.ID)
	return nil
}

// AllocateBlock finds a free block bit, sets it, 0xFF-fills the block, and
// returns its id.
func (e *Engine) AllocateBlock() (common.BlockID, error) {
	idx, ok := e.blockBitmap.FindFirstFree()
	if !ok {
		return 0, common.New(common.CouldNotAllocateBlock, "no free block")
	}
	e.blockBitmap.Set(idx, true)
	id := common.BlockID(idx)
	if err := e.writeBlock(id, fillBlock(e.sb.BlockSize, inode.FillByte)); err != nil {
		e.blockBitmap.Set(idx, false)
		return 0, err
	}
	return id, nil
}

// FreeBlock clears the block's bit and overwrites it with zero bytes. The
// allocate-fills-0xFF / free-fills-0x00 asymmetry is deliberate: it is what
// makes a freshly allocated pointer table scan as empty without a separate
// zeroing pass.
func (e *Engine) FreeBlock(id common.BlockID) error {
	e.blockBitmap.Set(uint32(id), false)
	return e.writeBlock(id, fillBlock(e.sb.BlockSize, inode.ZeroByte))
}
