// Package super implements the fixed-size superblock header, grounded in
// the original source's include/Superblock.h / src/Superblock.cpp and
// styled after the teacher's super.FsSuper layout-offset chain
// (Block2addr/Inum2Addr/BitmapBlockStart/...).
package super

import (
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/intcodec"
)

// Magic is the constant identifying a formatted image.
const Magic uint32 = 0xDEADBEEF

// ByteSize is the on-disk size of a Superblock: ten u32 fields.
const ByteSize = 40

// Superblock is the fixed 40-byte header living at byte 0 of the image.
type Superblock struct {
	Magic             uint32
	BlockSize         uint32
	TotalBlocks       uint32
	TotalInodes       uint32
	ImageSize         uint32
	InodeBitmapOffset uint32
	BlockBitmapOffset uint32
	InodeTableOffset  uint32
	DataBlocksOffset  uint32
	RootNodeID        uint32
}

// ToBytes encodes the superblock to its 40-byte little-endian form.
func (s *Superblock) ToBytes() []byte {
	b := make([]byte, ByteSize)
	fields := []uint32{
		s.Magic, s.BlockSize, s.TotalBlocks, s.TotalInodes, s.ImageSize,
		s.InodeBitmapOffset, s.BlockBitmapOffset, s.InodeTableOffset,
		s.DataBlocksOffset, s.RootNodeID,
	}
	for i, f := range fields {
		intcodec.PutUint32Into(b, i*4, f)
	}
	return b
}

// FromBytes decodes a Superblock from exactly 40 bytes. Decoding succeeds
// structurally for any 40 bytes; whether the image is actually formatted is
// decided separately by comparing Magic to the Magic constant.
func FromBytes(b []byte) (*Superblock, error) {
	if len(b) != ByteSize {
		return nil, common.Newf(common.InvalidSuperblock, "superblock: want %d bytes, got %d", ByteSize, len(b))
	}
	s := &Superblock{}
	s.Magic = intcodec.GetUint32From(b, 0)
	s.BlockSize = intcodec.GetUint32From(b, 4)
	s.TotalBlocks = intcodec.GetUint32From(b, 8)
	s.TotalInodes = intcodec.GetUint32From(b, 12)
	s.ImageSize = intcodec.GetUint32From(b, 16)
	s.InodeBitmapOffset = intcodec.GetUint32From(b, 20)
	s.BlockBitmapOffset = intcodec.GetUint32From(b, 24)
	s.InodeTableOffset = intcodec.GetUint32From(b, 28)
	s.DataBlocksOffset = intcodec.GetUint32From(b, 32)
	s.RootNodeID = intcodec.GetUint32From(b, 36)
	return s, nil
}

// Formatted reports whether the decoded magic matches the expected constant.
func (s *Superblock) Formatted() bool {
	return s.Magic == Magic
}

// InodeBitmapBytes returns the on-disk length of the inode bitmap.
func (s *Superblock) InodeBitmapBytes() uint32 {
	return (s.TotalInodes + 7) / 8
}

// BlockBitmapBytes returns the on-disk length of the block bitmap.
func (s *Superblock) BlockBitmapBytes() uint32 {
	return (s.TotalBlocks + 7) / 8
}

// InodeOffset returns the byte offset of inode id within the inode table.
func (s *Superblock) InodeOffset(id common.InodeID) uint32 {
	const inodeByteSize = 41
	return s.InodeTableOffset + inodeByteSize*uint32(id)
}

// BlockOffset returns the byte offset of block id within the data region.
func (s *Superblock) BlockOffset(id common.BlockID) uint32 {
	return s.DataBlocksOffset + s.BlockSize*uint32(id)
}
