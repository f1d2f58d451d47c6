// Directory-entry protocol: AddChild/GetChildren/RemoveChild/FindChildId/
// ExistsChild, grounded in src/Filesystem.cpp's AddChild/GetChildren/
// RemoveChild/FindChildId/ExistsChild and ReadBlockAsSubdirectories, and
// styled after the teacher's inode/dir.go (LookupName/AddName/RemName
// scanning fixed-size directory-entry slots).
package fsys

import (
	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/inode"
)

func dirEntriesPerBlock(blockSize uint32) int {
	return int(blockSize) / inode.DirEntSize
}

// dirEntryLoc is one decoded directory entry together with the block and
// slot it lives in, so RemoveChild can rewrite it in place.
type dirEntryLoc struct {
	block common.BlockID
	slot  int
	entry inode.DirEnt
}

// walkDirEntries decodes every directory entry reachable from dir, in tier
// and block order, stopping each block's scan at its first UNUSED_LINK
// entry.
func (e *Engine) walkDirEntries(dir *inode.Inode) ([]dirEntryLoc, error) {
	leaves, err := e.leafBlocks(dir)
	if err != nil {
		return nil, err
	}
	perBlock := dirEntriesPerBlock(e.sb.BlockSize)
	var out []dirEntryLoc
	for _, b := range leaves {
		data, err := e.readBlock(b)
		if err != nil {
			return nil, err
		}
		for slot := 0; slot < perBlock; slot++ {
			raw := data[slot*inode.DirEntSize : (slot+1)*inode.DirEntSize]
			if inode.DirEntIDRaw(raw) == common.UnusedLink {
				break
			}
			out = append(out, dirEntryLoc{block: b, slot: slot, entry: inode.DecodeDirEnt(raw)})
		}
	}
	return out, nil
}

func (e *Engine) writeDirSlot(block common.BlockID, slot int, raw []byte) error {
	off := uint64(e.sb.BlockOffset(block)) + uint64(slot*inode.DirEntSize)
	_, err := e.img.WriteBytes(off, raw)
	return err
}

func (e *Engine) clearDirSlot(block common.BlockID, slot int) error {
	raw := make([]byte, inode.DirEntSize)
	for i := range raw {
		raw[i] = inode.FillByte
	}
	return e.writeDirSlot(block, slot, raw)
}

// AddChild inserts a (name -> childID) directory entry into dir, appending
// to the first leaf block with room and attaching a fresh leaf (via
// AttachBlock, allocating pointer tables as needed across tiers) when none
// has any. dir must be a directory. Duplicate names are not rejected, by
// design (see spec's recorded open question on CreateDirectory duplicates).
func (e *Engine) AddChild(dir *inode.Inode, name string, childID common.InodeID) error {
	if !dir.IsDir {
		return common.New(common.NotADirectory, "AddChild: not a directory")
	}
	raw, err := inode.EncodeDirEnt(name, childID)
	if err != nil {
		return err
	}
	perBlock := dirEntriesPerBlock(e.sb.BlockSize)

	leaves, err := e.leafBlocks(dir)
	if err != nil {
		return err
	}
	for _, b := range leaves {
		data, err := e.readBlock(b)
		if err != nil {
			return err
		}
		count := 0
		for count < perBlock && inode.DirEntIDRaw(data[count*inode.DirEntSize:(count+1)*inode.DirEntSize]) != common.UnusedLink {
			count++
		}
		if count < perBlock {
			return e.writeDirSlot(b, count, raw)
		}
	}

	newLeaf, err := e.AllocateBlock()
	if err != nil {
		return err
	}
	if err := e.AttachBlock(dir, newLeaf); err != nil {
		_ = e.FreeBlock(newLeaf)
		return err
	}
	return e.writeDirSlot(newLeaf, 0, raw)
}

// GetChildren returns every directory entry in dir, in traversal order.
func (e *Engine) GetChildren(dir *inode.Inode) ([]inode.DirEnt, error) {
	locs, err := e.walkDirEntries(dir)
	if err != nil {
		return nil, err
	}
	out := make([]inode.DirEnt, len(locs))
	for i, l := range locs {
		out[i] = l.entry
	}
	return out, nil
}

// RemoveChild deletes the entry for childID from dir, using move-last-into-
// hole compaction to keep the live entries a contiguous, sentinel-terminated
// prefix.
func (e *Engine) RemoveChild(dir *inode.Inode, childID common.InodeID) error {
	locs, err := e.walkDirEntries(dir)
	if err != nil {
		return err
	}
	if len(locs) == 0 {
		return common.New(common.ChildNotFound, "RemoveChild: no entries")
	}
	targetIdx := -1
	for i, l := range locs {
		if l.entry.ID == childID {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		return common.New(common.ChildNotFound, "RemoveChild: child not found")
	}
	lastIdx := len(locs) - 1
	if targetIdx == lastIdx {
		return e.clearDirSlot(locs[targetIdx].block, locs[targetIdx].slot)
	}
	last := locs[lastIdx]
	raw, err := inode.EncodeDirEnt(last.entry.Name, last.entry.ID)
	if err != nil {
		return err
	}
	if err := e.writeDirSlot(locs[targetIdx].block, locs[targetIdx].slot, raw); err != nil {
		return err
	}
	return e.clearDirSlot(last.block, last.slot)
}

// FindChildId performs a linear search over dir's children by name, first
// match wins.
func (e *Engine) FindChildId(dir *inode.Inode, name string) (common.InodeID, bool, error) {
	children, err := e.GetChildren(dir)
	if err != nil {
		return 0, false, err
	}
	for _, c := range children {
		if c.Name == name {
			return c.ID, true, nil
		}
	}
	return 0, false, nil
}

// ExistsChild reports whether dir has a child named name.
func (e *Engine) ExistsChild(dir *inode.Inode, name string) (bool, error) {
	_, ok, err := e.FindChildId(dir, name)
	return ok, err
}
