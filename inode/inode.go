// Package inode implements the fixed-size on-disk inode record and its
// in-memory mutators, grounded in the original source's include/INode.h /
// src/INode.cpp. The ToBytes/FromBytes codec pair and direct-then-indirect
// layout mirror the teacher's own inode.Inode (Encode/Decode, NDIRECT/INDIRECT/
// DINDIRECT constants, bmap-style tiered addressing) even though the byte
// widths and tier counts differ: this filesystem has five direct links plus
// one single- and one double-indirect link, not the teacher's eight direct
// plus one single- and one double-indirect.
package inode

import (
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/intcodec"
)

// DirectLinks is the number of inline direct block references per inode.
const DirectLinks = 5

// ByteSize is the on-disk size of an Inode record.
const ByteSize = 41

// Inode is the in-memory view of a 41-byte on-disk record: id, link count,
// size, five direct block ids, two indirect block ids, and a directory flag.
type Inode struct {
	ID        common.InodeID
	Links     uint32
	Size      uint32
	Direct    [DirectLinks]uint32
	Indirect1 uint32
	Indirect2 uint32
	IsDir     bool
}

// New constructs a freshly allocated inode: one link, zero size, every link
// slot UNUSED_LINK.
func New(id common.InodeID, isDir bool) *Inode {
	ip := &Inode{ID: id, Links: 1, IsDir: isDir, Indirect1: common.UnusedLink, Indirect2: common.UnusedLink}
	for i := range ip.Direct {
		ip.Direct[i] = common.UnusedLink
	}
	return ip
}

// ToBytes encodes the inode to its 41-byte on-disk form.
func (ip *Inode) ToBytes() []byte {
	b := make([]byte, ByteSize)
	intcodec.PutUint32Into(b, 0, uint32(ip.ID))
	intcodec.PutUint32Into(b, 4, ip.Links)
	intcodec.PutUint32Into(b, 8, ip.Size)
	for i, d := range ip.Direct {
		intcodec.PutUint32Into(b, 12+4*i, d)
	}
	intcodec.PutUint32Into(b, 32, ip.Indirect1)
	intcodec.PutUint32Into(b, 36, ip.Indirect2)
	if ip.IsDir {
		b[40] = 1
	} else {
		b[40] = 0
	}
	return b
}

// FromBytes decodes an Inode from exactly 41 bytes, rejecting any final byte
// other than 0 or 1.
func FromBytes(b []byte) (*Inode, error) {
	if len(b) != ByteSize {
		return nil, common.Newf(common.InvalidINodeSize, "inode: want %d bytes, got %d", ByteSize, len(b))
	}
	dirByte := b[40]
	if dirByte != 0 && dirByte != 1 {
		return nil, common.Newf(common.InvalidINodeSize, "inode: invalid isDir byte %d", dirByte)
	}
	ip := &Inode{}
	ip.ID = common.InodeID(intcodec.GetUint32From(b, 0))
	ip.Links = intcodec.GetUint32From(b, 4)
	ip.Size = intcodec.GetUint32From(b, 8)
	for i := range ip.Direct {
		ip.Direct[i] = intcodec.GetUint32From(b, 12+4*i)
	}
	ip.Indirect1 = intcodec.GetUint32From(b, 32)
	ip.Indirect2 = intcodec.GetUint32From(b, 36)
	ip.IsDir = dirByte == 1
	return ip, nil
}

// AddLink increments the link count.
func (ip *Inode) AddLink() {
	ip.Links++
}

// RemoveLink decrements the link count, reporting whether this decrement
// brought it to zero. It does not underflow: decrementing an already-zero
// count is a no-op that returns false.
func (ip *Inode) RemoveLink() bool {
	if ip.Links == 0 {
		return false
	}
	ip.Links--
	return ip.Links == 0
}

// AddSize grows the recorded size by n bytes.
func (ip *Inode) AddSize(n uint32) {
	ip.Size += n
}

// RemoveSize shrinks the recorded size by n bytes. It fails if n exceeds the
// current size.
func (ip *Inode) RemoveSize(n uint32) error {
	if n > ip.Size {
		return common.New(common.InvalidINodeSize, "inode: removeSize exceeds size")
	}
	ip.Size -= n
	return nil
}

// AddDirectLink installs link into the first UNUSED direct slot. It fails if
// all five slots are occupied.
func (ip *Inode) AddDirectLink(link uint32) error {
	for i, d := range ip.Direct {
		if d == common.UnusedLink {
			ip.Direct[i] = link
			return nil
		}
	}
	return common.New(common.FileTooLarge, "inode: no free direct slot")
}

// RemoveDirectLink clears the direct slot holding link. It fails if link is
// not present.
func (ip *Inode) RemoveDirectLink(link uint32) error {
	for i, d := range ip.Direct {
		if d == link {
			ip.Direct[i] = common.UnusedLink
			return nil
		}
	}
	return common.New(common.BlockNotAttached, "inode: direct link not found")
}

// ClearDirectLinks resets every direct slot to UNUSED_LINK.
func (ip *Inode) ClearDirectLinks() {
	for i := range ip.Direct {
		ip.Direct[i] = common.UnusedLink
	}
}

// AddFirstLevelIndirectLink installs the single-indirect block id. It fails
// if one is already installed.
func (ip *Inode) AddFirstLevelIndirectLink(link uint32) error {
	if ip.Indirect1 != common.UnusedLink {
		return common.New(common.FileTooLarge, "inode: indirect1 already set")
	}
	ip.Indirect1 = link
	return nil
}

// RemoveFirstLevelIndirectLink clears the single-indirect block id
// unconditionally.
func (ip *Inode) RemoveFirstLevelIndirectLink() {
	ip.Indirect1 = common.UnusedLink
}

// AddSecondLevelIndirectLink installs the double-indirect block id. It fails
// if one is already installed.
func (ip *Inode) AddSecondLevelIndirectLink(link uint32) error {
	if ip.Indirect2 != common.UnusedLink {
		return common.New(common.FileTooLarge, "inode: indirect2 already set")
	}
	ip.Indirect2 = link
	return nil
}

// RemoveSecondLevelIndirectLink clears the double-indirect block id
// unconditionally.
func (ip *Inode) RemoveSecondLevelIndirectLink() {
	ip.Indirect2 = common.UnusedLink
}
