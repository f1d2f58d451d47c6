// Block attach/detach across the direct -> single-indirect -> double-
// indirect tiers, grounded in src/Filesystem.cpp's AttachBlock/DeattachBlock/
// ReadBlockAsBlockIds/GetAllBlockIds and the teacher's indbmap/bmap tiered
// addressing (inode/inode.go).
package fsys

import "github.com/laadim/blockfs/common"
import "github.com/laadim/blockfs/inode"
import "github.com/laadim/blockfs/intcodec"

func ptrTableLen(blockSize uint32) int {
	return int(blockSize) / 4
}

// readPtrTable decodes a block as a fixed-length array of u32 pointer-table
// entries.
func (e *Engine) readPtrTable(id common.BlockID) ([]uint32, error) {
	data, err := e.readBlock(id)
	if err != nil {
		return nil, err
	}
	n := ptrTableLen(e.sb.BlockSize)
	table := make([]uint32, n)
	for i := 0; i < n; i++ {
		table[i] = getU32(data, i*4)
	}
	return table, nil
}

// writePtrSlot writes a single u32 entry at the given slot of a pointer
// table block, without reading or rewriting the rest of the block.
func (e *Engine) writePtrSlot(id common.BlockID, slot int, value uint32) error {
	off := uint64(e.sb.BlockOffset(id)) + uint64(slot*4)
	_, err := e.img.WriteBytes(off, putU32(value))
	return err
}

func getU32(b []byte, off int) uint32 {
	return intcodec.GetUint32From(b, off)
}

func putU32(x uint32) []byte {
	return intcodec.PutUint32(x)
}

func firstFreeSlot(table []uint32) (int, bool) {
	for i, v := range table {
		if v == common.UnusedLink {
			return i, true
		}
	}
	return 0, false
}

func countLive(table []uint32) int {
	n := 0
	for _, v := range table {
		if v == common.UnusedLink {
			break
		}
		n++
	}
	return n
}

// leafBlocks returns, in tier order, every leaf data block reachable from
// ip: the direct slots (skipping holes), then every live pointer under
// indirect1, then every live second-level pointer under every live
// first-level pointer of indirect2.
func (e *Engine) leafBlocks(ip *inode.Inode) ([]common.BlockID, error) {
	var out []common.BlockID
	for _, d := range ip.Direct {
		if d != common.UnusedLink {
			out = append(out, common.BlockID(d))
		}
	}
	if ip.Indirect1 != common.UnusedLink {
		table, err := e.readPtrTable(common.BlockID(ip.Indirect1))
		if err != nil {
			return nil, err
		}
		for _, p := range table {
			if p == common.UnusedLink {
				break
			}
			out = append(out, common.BlockID(p))
		}
	}
	if ip.Indirect2 != common.UnusedLink {
		table2, err := e.readPtrTable(common.BlockID(ip.Indirect2))
		if err != nil {
			return nil, err
		}
		for _, q := range table2 {
			if q == common.UnusedLink {
				break
			}
			sub, err := e.readPtrTable(common.BlockID(q))
			if err != nil {
				return nil, err
			}
			for _, r := range sub {
				if r == common.UnusedLink {
					break
				}
				out = append(out, common.BlockID(r))
			}
		}
	}
	return out, nil
}

// GetAllBlockIds returns every block reachable from ip, including the
// indirect tables themselves, in the order FreeNode needs to release them:
// direct blocks, indirect1 plus its live pointers, indirect2 plus its live
// first-level pointers and every live second-level pointer under each.
func (e *Engine) GetAllBlockIds(ip *inode.Inode) ([]common.BlockID, error) {
	var out []common.BlockID
	for _, d := range ip.Direct {
		if d != common.UnusedLink {
			out = append(out, common.BlockID(d))
		}
	}
	if ip.Indirect1 != common.UnusedLink {
		out = append(out, common.BlockID(ip.Indirect1))
		table, err := e.readPtrTable(common.BlockID(ip.Indirect1))
		if err != nil {
			return nil, err
		}
		for _, p := range table {
			if p == common.UnusedLink {
				break
			}
			out = append(out, common.BlockID(p))
		}
	}
	if ip.Indirect2 != common.UnusedLink {
		out = append(out, common.BlockID(ip.Indirect2))
		table2, err := e.readPtrTable(common.BlockID(ip.Indirect2))
		if err != nil {
			return nil, err
		}
		for _, q := range table2 {
			if q == common.UnusedLink {
				break
			}
			out = append(out, common.BlockID(q))
			sub, err := e.readPtrTable(common.BlockID(q))
			if err != nil {
				return nil, err
			}
			for _, r := range sub {
				if r == common.UnusedLink {
					break
				}
				out = append(out, common.BlockID(r))
			}
		}
	}
	return out, nil
}

// AttachBlock appends block to the first tier with room: a free direct slot,
// then a free slot in indirect1's pointer table (allocating indirect1 if
// needed), then a free slot in some existing second-level table under
// indirect2, then a freshly allocated second-level table (allocating
// indirect2 if needed). It fails with FileTooLarge if every tier is full.
func (e *Engine) AttachBlock(ip *inode.Inode, block common.BlockID) error {
	for i, d := range ip.Direct {
		if d == common.UnusedLink {
			ip.Direct[i] = uint32(block)
			return e.writeInode(ip)
		}
	}

	if ip.Indirect1 == common.UnusedLink {
		id, err := e.AllocateBlock()
		if err != nil {
			return err
		}
		ip.Indirect1 = uint32(id)
		if err := e.writeInode(ip); err != nil {
			return err
		}
	}
	table1, err := e.readPtrTable(common.BlockID(ip.Indirect1))
	if err != nil {
		return err
	}
	if idx, ok := firstFreeSlot(table1); ok {
		return e.writePtrSlot(common.BlockID(ip.Indirect1), idx, uint32(block))
	}

	if ip.Indirect2 == common.UnusedLink {
		id, err := e.AllocateBlock()
		if err != nil {
			return err
		}
		ip.Indirect2 = uint32(id)
		if err := e.writeInode(ip); err != nil {
			return err
		}
	}
	table2, err := e.readPtrTable(common.BlockID(ip.Indirect2))
	if err != nil {
		return err
	}
	live2 := countLive(table2)
	for i := 0; i < live2; i++ {
		q := common.BlockID(table2[i])
		sub, err := e.readPtrTable(q)
		if err != nil {
			return err
		}
		if idx, ok := firstFreeSlot(sub); ok {
			return e.writePtrSlot(q, idx, uint32(block))
		}
	}
	if live2 < len(table2) {
		newSub, err := e.AllocateBlock()
		if err != nil {
			return err
		}
		if err := e.writePtrSlot(common.BlockID(ip.Indirect2), live2, uint32(newSub)); err != nil {
			return err
		}
		return e.writePtrSlot(newSub, 0, uint32(block))
	}
	return common.New(common.FileTooLarge, "no room for new blocks")
}

// removeFromPtrTable performs move-last-into-hole on a single pointer-table
// block: if target is present among the live entries, the hole is filled by
// the last live entry (or simply cleared, if target was already last). It
// reports whether target was found and the resulting live count.
func (e *Engine) removeFromPtrTable(id common.BlockID, target uint32) (bool, int, error) {
	table, err := e.readPtrTable(id)
	if err != nil {
		return false, 0, err
	}
	live := countLive(table)
	idx := -1
	for i := 0; i < live; i++ {
		if table[i] == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, live, nil
	}
	lastIdx := live - 1
	if idx != lastIdx {
		if err := e.writePtrSlot(id, idx, table[lastIdx]); err != nil {
			return false, 0, err
		}
	}
	if err := e.writePtrSlot(id, lastIdx, common.UnusedLink); err != nil {
		return false, 0, err
	}
	return true, live - 1, nil
}

// DeattachBlock removes block from wherever it is attached to ip, freeing
// the block and, when a pointer table empties as a result, freeing that
// table too.
func (e *Engine) DeattachBlock(ip *inode.Inode, block common.BlockID) error {
	for i, d := range ip.Direct {
		if d == uint32(block) {
			ip.Direct[i] = common.UnusedLink
			if err := e.FreeBlock(block); err != nil {
				return err
			}
			return e.writeInode(ip)
		}
	}

	if ip.Indirect1 != common.UnusedLink {
		found, live, err := e.removeFromPtrTable(common.BlockID(ip.Indirect1), uint32(block))
		if err != nil {
			return err
		}
		if found {
			if err := e.FreeBlock(block); err != nil {
				return err
			}
			if live == 0 {
				if err := e.FreeBlock(common.BlockID(ip.Indirect1)); err != nil {
					return err
				}
				ip.Indirect1 = common.UnusedLink
				return e.writeInode(ip)
			}
			return nil
		}
	}

	if ip.Indirect2 != common.UnusedLink {
		table2, err := e.readPtrTable(common.BlockID(ip.Indirect2))
		if err != nil {
			return err
		}
		live2 := countLive(table2)
		for i := 0; i < live2; i++ {
			q := common.BlockID(table2[i])
			found, subLive, err := e.removeFromPtrTable(q, uint32(block))
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			if err := e.FreeBlock(block); err != nil {
				return err
			}
			if subLive == 0 {
				if err := e.FreeBlock(q); err != nil {
					return err
				}
				_, live2after, err := e.removeFromPtrTable(common.BlockID(ip.Indirect2), uint32(q))
				if err != nil {
					return err
				}
				if live2after == 0 {
					if err := e.FreeBlock(common.BlockID(ip.Indirect2)); err != nil {
						return err
					}
					ip.Indirect2 = common.UnusedLink
					return e.writeInode(ip)
				}
			}
			return nil
		}
	}

	return common.New(common.BlockNotAttached, "block is not attached to this inode")
}
