// Package common holds the identifiers, sentinels, and error taxonomy shared
// by every layer of blockfs, mirroring the teacher's habit of keeping a small
// shared vocabulary (github.com/mit-pdos/go-nfsd's fs.Inum/fs.Bnum) instead of
// letting each package invent its own id types.
package common

import "fmt"

// InodeID identifies a slot in the inode table.
type InodeID uint32

// BlockID identifies a block in the data region.
type BlockID uint32

// UnusedLink is the sentinel marking an absent reference or end-of-entries,
// stored on disk as 0xFFFFFFFF.
const UnusedLink uint32 = 0xFFFFFFFF

// RootInodeID is not a fixed constant like NFS's root inum: the root's id is
// whatever AllocateNode assigns it during Format, and is recorded in the
// superblock's rootNodeId field.

// Kind tags the taxonomy of error conditions from spec §7.
type Kind int

const (
	FileDoesNotExist Kind = iota
	CouldNotOpenFile
	FileNotOpen
	FileReadOnly
	FileRead
	FileWrite
	FilesystemNotFormatted
	InvalidFilesystemSize
	CouldNotResizeImage
	InvalidSuperblock
	InvalidINodeSize
	InvalidBlockSize
	CouldNotAllocateNode
	CouldNotAllocateBlock
	FileTooLarge
	EmptyPath
	PathNotFound
	NotADirectory
	NoParentDirectory
	ChildNotFound
	BlockNotAttached
	NameTooLong
)

var kindNames = map[Kind]string{
	FileDoesNotExist:       "FileDoesNotExist",
	CouldNotOpenFile:       "CouldNotOpenFile",
	FileNotOpen:            "FileNotOpen",
	FileReadOnly:           "FileReadOnly",
	FileRead:               "FileRead",
	FileWrite:              "FileWrite",
	FilesystemNotFormatted: "FilesystemNotFormatted",
	InvalidFilesystemSize:  "InvalidFilesystemSize",
	CouldNotResizeImage:    "CouldNotResizeImage",
	InvalidSuperblock:      "InvalidSuperblock",
	InvalidINodeSize:       "InvalidINodeSize",
	InvalidBlockSize:       "InvalidBlockSize",
	CouldNotAllocateNode:   "CouldNotAllocateNode",
	CouldNotAllocateBlock:  "CouldNotAllocateBlock",
	FileTooLarge:           "FileTooLarge",
	EmptyPath:              "EmptyPath",
	PathNotFound:           "PathNotFound",
	NotADirectory:          "NotADirectory",
	NoParentDirectory:      "NoParentDirectory",
	ChildNotFound:          "ChildNotFound",
	BlockNotAttached:       "BlockNotAttached",
	NameTooLong:            "NameTooLong",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is a tagged error value: a Kind plus a human message, standing in for
// the original's exception hierarchy (helpers/FilesystemExceptions.h,
// helpers/FileIOExceptions.h) without introducing panics.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an *Error carrying kind and a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
