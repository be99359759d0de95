package witness

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// PruneToFrontier advances the root branch's root to newRootHash, discarding
// every node that is not a descendant of it (spec §4.4: "Discard nodes that
// are not ancestors of the new root"). newRootHash must already be a node
// in the root branch. This is an O(surviving nodes) copy-compact, per
// spec §9.
func (t *Tree) PruneToFrontier(newRootHash types.StateHash) error {
	newRoot := t.root.byStateHash(newRootHash)
	if newRoot == nil {
		return fmt.Errorf("witness: prune target %s not found in root branch", newRootHash)
	}
	if newRoot.id == t.root.rootID {
		return nil
	}

	nb := newBranch()
	idMap := make(map[nodeID]nodeID)

	var walk func(old *Node, parent nodeID) nodeID
	walk = func(old *Node, parent nodeID) nodeID {
		cp := *old
		cp.children = nil
		newID := nb.insert(&cp, parent)
		idMap[old.id] = newID
		for _, childID := range old.children {
			walk(t.root.nodes[childID], newID)
		}
		return newID
	}
	walk(newRoot, noParent)

	t.root = nb
	return nil
}

// ShouldPrune reports whether the gap between tipHeight and the current
// root's height exceeds the transition-frontier distance k (spec §4.4).
func (t *Tree) ShouldPrune(tipHeight types.Height, k uint32) bool {
	root := t.root.root()
	if tipHeight <= root.Height {
		return false
	}
	return uint32(tipHeight-root.Height) > k
}

// AncestorAtDepth walks up from tip by exactly depth steps, used to find
// the new root when pruning to keep exactly k blocks below the tip.
func (t *Tree) AncestorAtDepth(tip *Node, depth uint32) (*Node, error) {
	cur := tip
	for i := uint32(0); i < depth; i++ {
		if cur.parent == noParent {
			return nil, fmt.Errorf("witness: ran out of ancestors after %d of %d steps", i, depth)
		}
		cur = t.root.nodes[cur.parent]
	}
	return cur, nil
}
