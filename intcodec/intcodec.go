// Package intcodec encodes and decodes little-endian unsigned integers,
// mirroring the encode/decode helpers in github.com/mit-pdos/go-nfsd's
// enc_dec.go (newEnc/newDec over machine.UInt32Put/UInt64Get) and the
// original source's helpers/IntParser.{h,cpp}. It is the sole producer and
// consumer of on-disk integer bytes; every other package calls into this one
// rather than shifting bytes itself.
package intcodec

import "github.com/laadim/blockfs/common"

// Uint32Size and Uint64Size are the encoded widths in bytes.
const (
	Uint32Size = 4
	Uint64Size = 8
)

// PutUint32 encodes x into a fresh 4-byte little-endian slice.
func PutUint32(x uint32) []byte {
	b := make([]byte, Uint32Size)
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
	return b
}

// GetUint32 decodes a 4-byte little-endian slice. It fails if len(b) != 4.
func GetUint32(b []byte) (uint32, error) {
	if len(b) != Uint32Size {
		return 0, common.Newf(common.InvalidINodeSize, "intcodec: GetUint32 wants %d bytes, got %d", Uint32Size, len(b))
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// PutUint64 encodes x into a fresh 8-byte little-endian slice.
func PutUint64(x uint64) []byte {
	b := make([]byte, Uint64Size)
	for i := 0; i < Uint64Size; i++ {
		b[i] = byte(x >> (8 * i))
	}
	return b
}

// GetUint64 decodes an 8-byte little-endian slice. It fails if len(b) != 8.
func GetUint64(b []byte) (uint64, error) {
	if len(b) != Uint64Size {
		return 0, common.Newf(common.InvalidINodeSize, "intcodec: GetUint64 wants %d bytes, got %d", Uint64Size, len(b))
	}
	var x uint64
	for i := 0; i < Uint64Size; i++ {
		x |= uint64(b[i]) << (8 * i)
	}
	return x, nil
}

// PutUint32Into writes x's little-endian encoding at dst[off:off+4].
func PutUint32Into(dst []byte, off int, x uint32) {
	dst[off] = byte(x)
	dst[off+1] = byte(x >> 8)
	dst[off+2] = byte(x >> 16)
	dst[off+3] = byte(x >> 24)
}

// GetUint32From reads a little-endian uint32 from src[off:off+4].
func GetUint32From(src []byte, off int) uint32 {
	return uint32(src[off]) | uint32(src[off+1])<<8 | uint32(src[off+2])<<16 | uint32(src[off+3])<<24
}
