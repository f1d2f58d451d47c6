// Package sizeparser parses the human-readable image-size strings the shell
// accepts for the format command ("512KB", "10MB", "2GB"), grounded in the
// original source's helpers/StringHelpers.h ParseSize and delegating the
// actual suffix arithmetic to github.com/docker/go-units, the byte-size
// parser already present in this corpus's dependency graph (pulled in
// indirectly by _examples/google-gvisor's go.mod).
package sizeparser

import (
	"strings"

	units "github.com/docker/go-units"

	"github.com/laadim/blockfs/common"
)

// allowedSuffixes restricts parsing to the grammar the original supports:
// a plain byte count, or one of B/KB/MB/GB. go-units additionally accepts
// binary suffixes (KiB, MiB, ...) and SI suffixes beyond GB; those are
// rejected here so "10TB" fails the way the original's ParseSize does.
var allowedSuffixes = []string{"B", "KB", "MB", "GB"}

// Parse converts a size string such as "64MB" into a byte count. It fails
// with InvalidFilesystemSize if the value carries a suffix outside
// allowedSuffixes, parses to zero, or go-units itself rejects it.
func Parse(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, common.New(common.InvalidFilesystemSize, "sizeparser: empty size string")
	}
	if !hasAllowedSuffix(trimmed) {
		return 0, common.Newf(common.InvalidFilesystemSize, "sizeparser: unsupported suffix in %q", s)
	}
	n, err := units.RAMInBytes(trimmed)
	if err != nil {
		return 0, common.Newf(common.InvalidFilesystemSize, "sizeparser: %v", err)
	}
	if n <= 0 {
		return 0, common.Newf(common.InvalidFilesystemSize, "sizeparser: size must be positive, got %q", s)
	}
	return uint64(n), nil
}

func hasAllowedSuffix(s string) bool {
	upper := strings.ToUpper(s)
	idx := strings.IndexFunc(upper, func(r rune) bool { return r < '0' || r > '9' })
	if idx == -1 {
		// pure digits, no suffix at all: treat as raw bytes.
		return true
	}
	rest := upper[idx:]
	for _, suf := range allowedSuffixes {
		if rest == suf {
			return true
		}
	}
	return false
}
