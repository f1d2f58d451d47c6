// Path resolver and navigation, grounded in src/Filesystem.cpp's
// ResolvePath/ResolveParent/ChangeActiveDirectory/GetCurrentPath and the
// original's helpers/StringHelpers.h SplitPath.
package fsys

import (
	"strings"

	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/inode"
)

// splitPath splits on '/', discarding empty segments, matching
// StringHelpers::SplitPath ("/a//b/" -> ["a","b"], "/" -> []).
func splitPath(path string) []string {
	var segs []string
	var cur []byte
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if len(cur) > 0 {
				segs = append(segs, string(cur))
				cur = cur[:0]
			}
		} else {
			cur = append(cur, path[i])
		}
	}
	if len(cur) > 0 {
		segs = append(segs, string(cur))
	}
	return segs
}

func (e *Engine) rootInode() (*inode.Inode, error) {
	return e.readInode(common.InodeID(e.sb.RootNodeID))
}

// ResolvePath walks path from root (leading '/') or the current directory,
// following "." and ".." as directory entries rather than as object-graph
// references.
func (e *Engine) ResolvePath(path string) (*inode.Inode, error) {
	if err := e.requireFormatted(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, common.New(common.EmptyPath, "empty path")
	}
	var cur *inode.Inode
	var err error
	if path[0] == '/' {
		cur, err = e.rootInode()
	} else {
		cur, err = e.readInode(e.cwd)
	}
	if err != nil {
		return nil, err
	}
	for _, seg := range splitPath(path) {
		if seg == "." {
			continue
		}
		if seg == ".." {
			id, ok, ferr := e.FindChildId(cur, "..")
			if ferr != nil {
				return nil, ferr
			}
			if !ok {
				return nil, common.New(common.NoParentDirectory, "no parent directory")
			}
			cur, err = e.readInode(id)
			if err != nil {
				return nil, err
			}
			continue
		}
		if !cur.IsDir {
			return nil, common.New(common.NotADirectory, "not a directory")
		}
		id, ok, ferr := e.FindChildId(cur, seg)
		if ferr != nil {
			return nil, ferr
		}
		if !ok {
			return nil, common.Newf(common.PathNotFound, "path not found: %s", seg)
		}
		cur, err = e.readInode(id)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ResolveParent resolves every segment of path but the last, returning the
// parent inode and the basename left for the caller to create or remove.
func (e *Engine) ResolveParent(path string) (*inode.Inode, string, error) {
	if path == "" {
		return nil, "", common.New(common.EmptyPath, "empty path")
	}
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, "", common.New(common.PathNotFound, "path has no basename")
	}
	basename := segs[len(segs)-1]
	rest := segs[:len(segs)-1]

	var parentPath string
	if path[0] == '/' {
		parentPath = "/" + strings.Join(rest, "/")
	} else if len(rest) == 0 {
		parentPath = "."
	} else {
		parentPath = strings.Join(rest, "/")
	}
	parent, err := e.ResolvePath(parentPath)
	if err != nil {
		return nil, "", err
	}
	return parent, basename, nil
}

// ChangeDirectory resolves path and, if it names a directory, makes it the
// current directory.
func (e *Engine) ChangeDirectory(path string) error {
	target, err := e.ResolvePath(path)
	if err != nil {
		return err
	}
	if !target.IsDir {
		return common.New(common.NotADirectory, "not a directory")
	}
	e.cwd = target.ID
	return nil
}

// CurrentPath walks from the current directory up to root via ".." entries,
// collecting the name each step had in its parent, and stops when a step's
// parent is itself (the root's ".." points to itself).
func (e *Engine) CurrentPath() ([]string, error) {
	if err := e.requireFormatted(); err != nil {
		return nil, err
	}
	cur, err := e.readInode(e.cwd)
	if err != nil {
		return nil, err
	}
	var parts []string
	for {
		parentID, ok, err := e.FindChildId(cur, "..")
		if err != nil {
			return nil, err
		}
		if !ok || parentID == cur.ID {
			break
		}
		parent, err := e.readInode(parentID)
		if err != nil {
			return nil, err
		}
		children, err := e.GetChildren(parent)
		if err != nil {
			return nil, err
		}
		name := ""
		for _, c := range children {
			if c.Name == "." || c.Name == ".." {
				continue
			}
			if c.ID == cur.ID {
				name = c.Name
				break
			}
		}
		parts = append([]string{name}, parts...)
		cur = parent
	}
	return parts, nil
}
