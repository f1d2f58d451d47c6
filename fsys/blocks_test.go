package fsys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laadim/blockfs/common"
)

// TestDeattachBlockDirectTier exercises the plain case: a block sitting in
// one of the five direct slots is freed and cleared with no compaction
// needed elsewhere.
func TestDeattachBlockDirectTier(t *testing.T) {
	e := newFormatted(t, 1<<16)
	ip, err := e.AllocateNode(false)
	require.NoError(t, err)

	b1, err := e.AllocateBlock()
	require.NoError(t, err)
	require.NoError(t, e.AttachBlock(ip, b1))
	b2, err := e.AllocateBlock()
	require.NoError(t, err)
	require.NoError(t, e.AttachBlock(ip, b2))

	require.NoError(t, e.DeattachBlock(ip, b1))

	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.Equal(t, common.UnusedLink, ip.Direct[0])
	require.Equal(t, uint32(b2), ip.Direct[1])
	require.False(t, e.blockBitmap.Get(uint32(b1)))
}

// TestDeattachBlockSingleIndirectCompacts fills indirect1's pointer table
// past the point a hole needs move-last-into-hole compaction, then detaches
// every block in it in turn, checking that the table collapses and is
// itself freed once empty.
func TestDeattachBlockSingleIndirectCompacts(t *testing.T) {
	e := newFormatted(t, 1<<16)
	ip, err := e.AllocateNode(false)
	require.NoError(t, err)

	// saturate the five direct slots first so the next attaches land in
	// indirect1.
	var direct []common.BlockID
	for i := 0; i < 5; i++ {
		b, err := e.AllocateBlock()
		require.NoError(t, err)
		require.NoError(t, e.AttachBlock(ip, b))
		direct = append(direct, b)
	}

	var indirect []common.BlockID
	for i := 0; i < 3; i++ {
		b, err := e.AllocateBlock()
		require.NoError(t, err)
		require.NoError(t, e.AttachBlock(ip, b))
		indirect = append(indirect, b)
	}

	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.NotEqual(t, common.UnusedLink, ip.Indirect1)
	indirect1 := common.BlockID(ip.Indirect1)

	// remove the middle entry: move-last-into-hole should pull indirect[2]
	// into indirect[1]'s slot.
	require.NoError(t, e.DeattachBlock(ip, indirect[1]))
	require.False(t, e.blockBitmap.Get(uint32(indirect[1])))

	table, err := e.readPtrTable(indirect1)
	require.NoError(t, err)
	require.Equal(t, uint32(indirect[2]), table[1])
	require.Equal(t, common.UnusedLink, table[2])

	// detach the two survivors; the table should still be alive until the
	// very last one goes, at which point it is freed and Indirect1 cleared.
	require.NoError(t, e.DeattachBlock(ip, indirect[0]))
	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.Equal(t, indirect1, common.BlockID(ip.Indirect1))

	require.NoError(t, e.DeattachBlock(ip, indirect[2]))
	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.Equal(t, common.UnusedLink, ip.Indirect1)
	require.False(t, e.blockBitmap.Get(uint32(indirect1)))
}

// TestDeattachBlockNotAttachedFails confirms the not-found case.
func TestDeattachBlockNotAttachedFails(t *testing.T) {
	e := newFormatted(t, 1<<16)
	ip, err := e.AllocateNode(false)
	require.NoError(t, err)
	b, err := e.AllocateBlock()
	require.NoError(t, err)

	err = e.DeattachBlock(ip, b)
	require.True(t, common.Is(err, common.BlockNotAttached))
}

// TestDeattachBlockDoubleIndirectCollapses forces promotion all the way to
// the double-indirect tier and then detaches until both the second-level
// and first-level tables free themselves.
func TestDeattachBlockDoubleIndirectCollapses(t *testing.T) {
	e := newFormatted(t, 1<<20)
	ip, err := e.AllocateNode(false)
	require.NoError(t, err)

	perTable := int(e.sb.BlockSize) / 4
	total := 5 + perTable + 2 // 5 direct + a full indirect1 table + 2 into indirect2
	var attached []common.BlockID
	for i := 0; i < total; i++ {
		b, err := e.AllocateBlock()
		require.NoError(t, err)
		require.NoError(t, e.AttachBlock(ip, b))
		attached = append(attached, b)
	}

	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.NotEqual(t, common.UnusedLink, ip.Indirect2)

	// the last two blocks attached went into indirect2's first second-level
	// table; detach both and the chain should collapse fully.
	last, secondLast := attached[total-1], attached[total-2]
	require.NoError(t, e.DeattachBlock(ip, last))
	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.NotEqual(t, common.UnusedLink, ip.Indirect2, "indirect2 table still holds one live leaf")

	require.NoError(t, e.DeattachBlock(ip, secondLast))
	ip, err = e.readInode(ip.ID)
	require.NoError(t, err)
	require.Equal(t, common.UnusedLink, ip.Indirect2)
	require.False(t, e.blockBitmap.Get(uint32(secondLast)))
}
