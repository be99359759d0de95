// Package witness implements the root-branch-plus-dangling-branches tree
// that tracks every known block and its parent relationships, classifies
// each insertion, and materializes per-node ledgers lazily.
package witness

import (
	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// nodeID is an arena index. The zero value is never a valid id; ids start
// at 1 so a zero can mean "no parent" without colliding with a real node.
type nodeID int

const noParent nodeID = 0

// Node is one block in a Branch's arena. Parent/child links are ids, not
// pointers, per spec §9 ("prefer an arena indexed by integer ids... avoids
// cyclic-reference reasoning").
type Node struct {
	id               nodeID
	parent           nodeID
	children         []nodeID
	Block            *block.PrecomputedBlock
	StateHash        types.StateHash
	PrevStateHash    types.StateHash
	Height           types.Height
	BlockchainLength types.Height
	GlobalSlot       types.GlobalSlot
	LastVRFOutput    string

	// ledger is non-nil only once materialized (spec §4.4: "materialized
	// on demand, not on every node").
	ledger *ledger.Ledger
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }
