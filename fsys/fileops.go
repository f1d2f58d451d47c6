// File operations: WriteFile/ReadFile/CopyFile/MoveFile/RemoveFile/LinkFile,
// grounded in src/Filesystem.cpp's same-named methods.
package fsys

import (
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/inode"
)

// WriteFile creates path if it does not exist, or overwrites it if it does.
// A mid-write allocation failure is not unwound: the file is left readable
// up to its now-advanced size with whatever data made it in, matching the
// original's non-transactional behavior (see spec's recorded open question).
func (e *Engine) WriteFile(path string, data []byte) error {
	if err := e.requireFormatted(); err != nil {
		return err
	}
	parent, name, err := e.ResolveParent(path)
	if err != nil {
		return err
	}

	var file *inode.Inode
	id, ok, err := e.FindChildId(parent, name)
	if err != nil {
		return err
	}
	if ok {
		file, err = e.readInode(id)
		if err != nil {
			return err
		}
		if file.IsDir {
			return common.New(common.NotADirectory, "cannot write to a directory")
		}
		blocks, err := e.GetAllBlockIds(file)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			if err := e.FreeBlock(b); err != nil {
				return err
			}
		}
		file.ClearDirectLinks()
		file.RemoveFirstLevelIndirectLink()
		file.RemoveSecondLevelIndirectLink()
		file.Size = 0
		if err := e.writeInode(file); err != nil {
			return err
		}
	} else {
		file, err = e.AllocateNode(false)
		if err != nil {
			return err
		}
		if err := e.AddChild(parent, name, file.ID); err != nil {
			return err
		}
	}

	blockSize := int(e.sb.BlockSize)
	numBlocks := (len(data) + blockSize - 1) / blockSize
	for i := 0; i < numBlocks; i++ {
		blockID, err := e.AllocateBlock()
		if err != nil {
			return err
		}
		start := i * blockSize
		end := start + blockSize
		if end > len(data) {
			end = len(data)
		}
		chunk := make([]byte, blockSize)
		copy(chunk, data[start:end])
		if err := e.writeBlock(blockID, chunk); err != nil {
			return err
		}
		if err := e.AttachBlock(file, blockID); err != nil {
			return err
		}
	}
	file.Size = uint32(len(data))
	return e.writeInode(file)
}

// ReadFile resolves path and concatenates its data blocks in tier order,
// reading exactly inode.Size bytes.
func (e *Engine) ReadFile(path string) ([]byte, error) {
	if err := e.requireFormatted(); err != nil {
		return nil, err
	}
	file, err := e.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if file.IsDir {
		return nil, common.New(common.NotADirectory, "cannot read a directory")
	}
	leaves, err := e.leafBlocks(file)
	if err != nil {
		return nil, err
	}
	remaining := file.Size
	out := make([]byte, 0, file.Size)
	for _, b := range leaves {
		if remaining == 0 {
			break
		}
		data, err := e.readBlock(b)
		if err != nil {
			return nil, err
		}
		n := e.sb.BlockSize
		if remaining < n {
			n = remaining
		}
		out = append(out, data[:n]...)
		remaining -= n
	}
	return out, nil
}

// CopyFile reads src and writes its contents to dst.
func (e *Engine) CopyFile(src, dst string) error {
	srcNode, err := e.ResolvePath(src)
	if err != nil {
		return err
	}
	if srcNode.IsDir {
		return common.New(common.NotADirectory, "source is a directory")
	}
	data, err := e.ReadFile(src)
	if err != nil {
		return err
	}
	return e.WriteFile(dst, data)
}

// MoveFile copies src to dst and then removes src. A move onto itself is a
// no-op.
func (e *Engine) MoveFile(src, dst string) error {
	if src == dst {
		return nil
	}
	srcNode, err := e.ResolvePath(src)
	if err != nil {
		return err
	}
	if srcNode.IsDir {
		return common.New(common.NotADirectory, "source is a directory")
	}
	if err := e.CopyFile(src, dst); err != nil {
		return err
	}
	return e.RemoveFile(src)
}

// RemoveFile unlinks path from its parent directory, freeing the inode once
// its link count reaches zero. The decrement-only branch writes the inode
// back explicitly (fixing the original's noted omission) so that
// "linkCount equals live directory entries" keeps holding.
func (e *Engine) RemoveFile(path string) error {
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
	id, ok, err := e.FindChildId(parent, name)
	if err != nil {
		return err
	}
	if !ok {
		return common.Newf(common.PathNotFound, "path not found: %s", name)
	}
	file, err := e.readInode(id)
	if err != nil {
		return err
	}
	if file.IsDir {
		return common.New(common.NotADirectory, "cannot remove a directory with RemoveFile")
	}
	if err := e.RemoveChild(parent, id); err != nil {
		return err
	}
	if file.Links == 1 {
		return e.FreeNode(file)
	}
	file.RemoveLink()
	return e.writeInode(file)
}

// LinkFile adds a new directory entry at linkPath pointing at the inode
// originalPath already names, incrementing its link count.
func (e *Engine) LinkFile(originalPath, linkPath string) error {
	if err := e.requireFormatted(); err != nil {
		return err
	}
	original, err := e.ResolvePath(originalPath)
	if err != nil {
		return err
	}
	if original.IsDir {
		return common.New(common.NotADirectory, "cannot hard-link a directory")
	}
	parent, name, err := e.ResolveParent(linkPath)
	if err != nil {
		return err
	}
	if !parent.IsDir {
		return common.New(common.NotADirectory, "link parent is not a directory")
	}
	exists, err := e.ExistsChild(parent, name)
	if err != nil {
		return err
	}
	if exists {
		return common.New(common.FileWrite, "destination already exists")
	}
	if err := e.AddChild(parent, name, original.ID); err != nil {
		return err
	}
	original.AddLink()
	return e.writeInode(original)
}
