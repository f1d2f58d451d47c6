// Directory operations: CreateDirectory/RemoveDirectory/ListDirectory,
// grounded in src/Filesystem.cpp's CreateDirectory/RemoveDirectory/
// GetDirectoryContents.
package fsys

import (
	"github.com/laadim/blockfs/common"
)

// CreateDirectory allocates a new directory inode, links it into parent
// under name, and seeds it with "." and ".." entries. Duplicate names are
// not rejected (see spec's recorded open question on CreateDirectory
// duplicates): two children of the same name can coexist. If linking the new
// inode into parent or seeding it fails, the new inode is freed and the
// error returned.
func (e *Engine) CreateDirectory(path string) error {
	if err := e.requireFormatted(); err != nil {
		return err
	}
	parent, name, err := e.ResolveParent(path)
	if err != nil {
		return err
	}
	if !parent.IsDir {
		return common.New(common.NotADirectory, "parent is not a directory")
	}
	dir, err := e.AllocateNode(true)
	if err != nil {
		return err
	}
	if err := e.AddChild(parent, name, dir.ID); err != nil {
		_ = e.FreeNode(dir)
		return err
	}
	if err := e.AddChild(dir, ".", dir.ID); err != nil {
		_ = e.FreeNode(dir)
		return err
	}
	if err := e.AddChild(dir, "..", parent.ID); err != nil {
		_ = e.FreeNode(dir)
		return err
	}
	return nil
}

// RemoveDirectory removes an empty directory (only "." and ".." present)
// from its parent and frees its inode. Removing the root is rejected.
func (e *Engine) RemoveDirectory(path string) error {
	if err := e.requireFormatted(); err != nil {
		return err
	}
	parent, name, err := e.ResolveParent(path)
	if err != nil {
		return err
	}
	id, ok, err := e.FindChildId(parent, name)
	if err != nil {
		return err
	}
	if !ok {
		return common.Newf(common.PathNotFound, "path not found: %s", name)
	}
	dir, err := e.readInode(id)
	if err != nil {
		return err
	}
	if !dir.IsDir {
		return common.New(common.NotADirectory, "not a directory")
	}
	if dir.ID == common.InodeID(e.sb.RootNodeID) {
		return common.New(common.NotADirectory, "cannot remove the root directory")
	}
	if dir.ID == e.cwd {
		return common.New(common.PathNotFound, "cannot remove current directory")
	}
	children, err := e.GetChildren(dir)
	if err != nil {
		return err
	}
	for _, c := range children {
		if c.Name != "." && c.Name != ".." {
			return common.New(common.FileWrite, "directory is not empty")
		}
	}
	if err := e.RemoveChild(parent, id); err != nil {
		return err
	}
	return e.FreeNode(dir)
}

// ListDirectory resolves path and returns the names of its visible
// children, with "." and ".." filtered out.
func (e *Engine) ListDirectory(path string) ([]string, error) {
	if err := e.requireFormatted(); err != nil {
		return nil, err
	}
	dir, err := e.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if !dir.IsDir {
		return nil, common.New(common.NotADirectory, "not a directory")
	}
	children, err := e.GetChildren(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		if c.Name == "." || c.Name == ".." {
			continue
		}
		names = append(names, c.Name)
	}
	return names, nil
}

// DirEntry names one visible child of a listed directory together with its
// kind, matching the external listDirectory(path) -> [(name,isDir)] contract
// from spec §6.
type DirEntry struct {
	Name  string
	IsDir bool
}

// ListDirectoryEntries is ListDirectory plus each child's kind, for callers
// (the shell's ls) that need to render files and directories differently.
func (e *Engine) ListDirectoryEntries(path string) ([]DirEntry, error) {
	if err := e.requireFormatted(); err != nil {
		return nil, err
	}
	dir, err := e.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if !dir.IsDir {
		return nil, common.New(common.NotADirectory, "not a directory")
	}
	children, err := e.GetChildren(dir)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(children))
	for _, c := range children {
		if c.Name == "." || c.Name == ".." {
			continue
		}
		child, err := e.readInode(c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, DirEntry{Name: c.Name, IsDir: child.IsDir})
	}
	return out, nil
}
