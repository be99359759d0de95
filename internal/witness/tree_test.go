package witness

import (
	"testing"

	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

func mkBlock(seed byte, prevSeed byte, length types.Height) *block.PrecomputedBlock {
	pcb := &block.PrecomputedBlock{
		StateHash:        types.NewFixtureStateHash(seed),
		BlockchainLength: length,
		Height:           length,
	}
	if prevSeed != 0 {
		pcb.PrevStateHash = types.NewFixtureStateHash(prevSeed)
	}
	return pcb
}

func newTestTree(rootSeed byte, length types.Height) (*Tree, *block.PrecomputedBlock) {
	genesis := mkBlock(rootSeed, 0, length)
	return NewTree(genesis, ledger.New()), genesis
}

func TestAddBlockSimpleForward(t *testing.T) {
	tr, genesis := newTestTree(1, 105489)
	child := mkBlock(2, 1, 105490)
	_ = genesis

	kind, err := tr.AddBlock(child)
	if err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if kind != RootSimple {
		t.Errorf("kind = %v, want RootSimple", kind)
	}
	if tr.DanglingCount() != 0 {
		t.Errorf("dangling count = %d, want 0", tr.DanglingCount())
	}
	leaves := tr.Leaves()
	if len(leaves) != 1 || leaves[0].StateHash != child.StateHash {
		t.Errorf("unexpected leaves: %+v", leaves)
	}
}

func TestAddBlockDanglingForwardThenReverse(t *testing.T) {
	tr, _ := newTestTree(1, 105489)

	far := mkBlock(3, 2, 105491) // parent (seed 2) unknown
	kind, err := tr.AddBlock(far)
	if err != nil {
		t.Fatalf("AddBlock(far): %v", err)
	}
	if kind != DanglingNew {
		t.Fatalf("kind = %v, want DanglingNew", kind)
	}
	if tr.DanglingCount() != 1 {
		t.Fatalf("dangling count = %d, want 1", tr.DanglingCount())
	}

	next := mkBlock(4, 3, 105492)
	kind, err = tr.AddBlock(next)
	if err != nil {
		t.Fatalf("AddBlock(next): %v", err)
	}
	if kind != DanglingSimpleForward {
		t.Fatalf("kind = %v, want DanglingSimpleForward", kind)
	}
	if tr.DanglingCount() != 1 {
		t.Fatalf("dangling count = %d, want 1", tr.DanglingCount())
	}

	bridge := mkBlock(2, 1, 105490)
	kind, err = tr.AddBlock(bridge)
	if err != nil {
		t.Fatalf("AddBlock(bridge): %v", err)
	}
	if kind != RootComplex {
		t.Fatalf("kind = %v, want RootComplex", kind)
	}
	if tr.DanglingCount() != 0 {
		t.Fatalf("dangling count after absorb = %d, want 0", tr.DanglingCount())
	}
	leaves := tr.Leaves()
	if len(leaves) != 1 || leaves[0].StateHash != next.StateHash {
		t.Fatalf("unexpected leaves after absorb: %+v", leaves)
	}
}

func TestAddBlockComplexMerge(t *testing.T) {
	tr, _ := newTestTree(10, 105492)

	leafA := mkBlock(11, 12, 105494)
	leafB := mkBlock(13, 12, 105494)
	if _, err := tr.AddBlock(leafA); err != nil {
		t.Fatalf("AddBlock(leafA): %v", err)
	}
	if _, err := tr.AddBlock(leafB); err != nil {
		t.Fatalf("AddBlock(leafB): %v", err)
	}
	if tr.DanglingCount() != 2 {
		t.Fatalf("dangling count = %d, want 2", tr.DanglingCount())
	}

	parent := mkBlock(12, 10, 105493)
	kind, err := tr.AddBlock(parent)
	if err != nil {
		t.Fatalf("AddBlock(parent): %v", err)
	}
	// parent's PrevStateHash is the root (seed 10), so it attaches to the
	// root branch directly and then absorbs both dangling leaves.
	if kind != RootComplex {
		t.Fatalf("kind = %v, want RootComplex", kind)
	}
	if tr.DanglingCount() != 0 {
		t.Fatalf("dangling count = %d, want 0", tr.DanglingCount())
	}
	leaves := tr.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("leaves = %d, want 2", len(leaves))
	}
}

// TestAddBlockDanglingComplexMerge covers the case TestAddBlockComplexMerge
// doesn't reach: the block that merges two dangling roots is itself an
// orphan (its own parent is unknown), so the merge produces a single,
// still-dangling branch rather than being absorbed into the root.
func TestAddBlockDanglingComplexMerge(t *testing.T) {
	tr, _ := newTestTree(1, 105489)

	leafA := mkBlock(22, 21, 105492)
	leafB := mkBlock(23, 21, 105492)
	if _, err := tr.AddBlock(leafA); err != nil {
		t.Fatalf("AddBlock(leafA): %v", err)
	}
	if _, err := tr.AddBlock(leafB); err != nil {
		t.Fatalf("AddBlock(leafB): %v", err)
	}
	if tr.DanglingCount() != 2 {
		t.Fatalf("dangling count = %d, want 2", tr.DanglingCount())
	}

	orphanParent := mkBlock(21, 99, 105491) // its own parent (seed 99) is unknown
	kind, err := tr.AddBlock(orphanParent)
	if err != nil {
		t.Fatalf("AddBlock(orphanParent): %v", err)
	}
	if kind != DanglingComplex {
		t.Fatalf("kind = %v, want DanglingComplex", kind)
	}
	if tr.DanglingCount() != 1 {
		t.Fatalf("dangling count after merge = %d, want 1 (merged, not absorbed)", tr.DanglingCount())
	}
	// The merged branch is still dangling, so it doesn't show up in
	// Tree.Leaves() (the root branch's leaves only) — the root is still
	// just the untouched genesis node.
	leaves := tr.Leaves()
	if len(leaves) != 1 || leaves[0].StateHash != tr.RootNode().StateHash {
		t.Fatalf("unexpected root-branch leaves: %+v", leaves)
	}
	if tr.NodeByHash(orphanParent.StateHash) == nil {
		t.Fatal("merged dangling branch's root should be reachable by hash")
	}
	if tr.NodeByHash(leafA.StateHash) == nil || tr.NodeByHash(leafB.StateHash) == nil {
		t.Fatal("merged dangling branch's children should be reachable by hash")
	}
}

func TestAddBlockDuplicateIsNoop(t *testing.T) {
	tr, genesis := newTestTree(1, 105489)
	child := mkBlock(2, 1, 105490)
	if _, err := tr.AddBlock(child); err != nil {
		t.Fatal(err)
	}
	kind, err := tr.AddBlock(child)
	if err != nil {
		t.Fatalf("AddBlock(dup): %v", err)
	}
	if kind != Noop {
		t.Errorf("kind = %v, want Noop", kind)
	}
	kind, err = tr.AddBlock(genesis)
	if err != nil {
		t.Fatalf("AddBlock(genesis dup): %v", err)
	}
	if kind != Noop {
		t.Errorf("kind = %v, want Noop", kind)
	}
}

func TestPruneToFrontier(t *testing.T) {
	tr, _ := newTestTree(1, 100)
	b2 := mkBlock(2, 1, 101)
	b3 := mkBlock(3, 2, 102)
	if _, err := tr.AddBlock(b2); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddBlock(b3); err != nil {
		t.Fatal(err)
	}

	if err := tr.PruneToFrontier(b2.StateHash); err != nil {
		t.Fatalf("PruneToFrontier: %v", err)
	}
	if tr.RootNode().StateHash != b2.StateHash {
		t.Fatalf("new root = %s, want %s", tr.RootNode().StateHash, b2.StateHash)
	}
	if tr.NodeByHash(types.NewFixtureStateHash(1)) != nil {
		t.Fatal("old root should have been pruned")
	}
	if tr.NodeByHash(b3.StateHash) == nil {
		t.Fatal("descendant of new root should survive pruning")
	}
}
