// Package inode: directory-entry codec. Grounded on the teacher's
// encodeDirEnt/decodeDirEnt (enc_dec.go) and dirEnt type (dir.go), but the
// wire format follows the original source exactly: a 12-byte left-justified
// zero-padded name plus a 4-byte little-endian child id, 16 bytes total, no
// length prefix (the teacher's dirEnt instead stores a length-prefixed
// variable-length name in a 32-byte slot).
package inode

import (
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/intcodec"
)

// DirEntSize is the on-disk size of one directory entry.
const DirEntSize = 16

// MaxNameLen is the longest name a directory entry can hold.
const MaxNameLen = 12

// DirEnt is the decoded form of one 16-byte directory entry.
type DirEnt struct {
	Name string
	ID   common.InodeID
}

// EncodeDirEnt packs name and id into a 16-byte slot. It fails if name is
// longer than MaxNameLen: the original source silently truncates/overflows
// into the id field, but this port rejects at the boundary instead
// (spec's recorded open question, resolved in favor of rejection).
func EncodeDirEnt(name string, id common.InodeID) ([]byte, error) {
	if len(name) > MaxNameLen {
		return nil, common.Newf(common.NameTooLong, "directory entry name %q exceeds %d bytes", name, MaxNameLen)
	}
	b := make([]byte, DirEntSize)
	copy(b[:MaxNameLen], name)
	intcodec.PutUint32Into(b, MaxNameLen, uint32(id))
	return b, nil
}

// DecodeDirEnt unpacks a 16-byte slot. The name is taken verbatim up to its
// first zero byte, matching the left-justified zero-padded convention.
func DecodeDirEnt(b []byte) DirEnt {
	id := intcodec.GetUint32From(b, MaxNameLen)
	nameBytes := b[:MaxNameLen]
	n := 0
	for n < MaxNameLen && nameBytes[n] != 0 {
		n++
	}
	return DirEnt{Name: string(nameBytes[:n]), ID: common.InodeID(id)}
}

// DirEntIDRaw reads just the id field out of a 16-byte directory-entry slot,
// without decoding the name. Callers compare the result against
// common.UnusedLink to detect a tombstone / end-of-entries sentinel.
func DirEntIDRaw(b []byte) uint32 {
	return intcodec.GetUint32From(b, MaxNameLen)
}

// FillByte is the byte every freshly allocated data/pointer/directory block
// is filled with, so its first slot decodes as UNUSED_LINK immediately.
const FillByte = 0xFF

// ZeroByte is the byte FreeBlock overwrites a freed block with.
const ZeroByte = 0x00
