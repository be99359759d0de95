package witness

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// ExtensionKind classifies how add_block extended the tree, per spec §4.4.
type ExtensionKind uint8

const (
	Noop ExtensionKind = iota
	RootSimple
	DanglingSimpleForward
	DanglingSimpleReverse
	DanglingComplex
	RootComplex
	DanglingNew
)

func (k ExtensionKind) String() string {
	switch k {
	case Noop:
		return "Noop"
	case RootSimple:
		return "RootSimple"
	case DanglingSimpleForward:
		return "DanglingSimpleForward"
	case DanglingSimpleReverse:
		return "DanglingSimpleReverse"
	case DanglingComplex:
		return "DanglingComplex"
	case RootComplex:
		return "RootComplex"
	case DanglingNew:
		return "DanglingNew"
	default:
		return "Unknown"
	}
}

// ErrOrphanedFarBelowRoot is returned when a block's height is at or below
// the current root and it cannot be an ancestor of it (spec §7).
var ErrOrphanedFarBelowRoot = fmt.Errorf("witness: block is below the pruned root")

// ErrInvariantViolation signals a broken tree-shape invariant (spec §7,
// §8 property 1); callers treat this as fatal and restart into replay.
type ErrInvariantViolation struct{ Msg string }

func (e *ErrInvariantViolation) Error() string { return "witness: invariant violation: " + e.Msg }

// Tree holds the root branch plus zero or more dangling branches (spec §4.4).
type Tree struct {
	root     *Branch
	dangling []*Branch
}

// NewTree constructs a tree rooted at genesis, with genesisLedger seeded as
// the root node's materialized ledger.
func NewTree(genesis *block.PrecomputedBlock, genesisLedger *ledger.Ledger) *Tree {
	b := newBranch()
	n := nodeFromBlock(genesis)
	n.ledger = genesisLedger
	b.insert(n, noParent)
	return &Tree{root: b}
}

func nodeFromBlock(pcb *block.PrecomputedBlock) *Node {
	return &Node{
		Block:            pcb,
		StateHash:        pcb.StateHash,
		PrevStateHash:    pcb.PrevStateHash,
		Height:           pcb.Height,
		BlockchainLength: pcb.BlockchainLength,
		GlobalSlot:       pcb.GlobalSlot,
		LastVRFOutput:    pcb.LastVRFOutput,
	}
}

// contains reports whether hash appears in the root branch or any
// dangling branch (spec §8 property 2: "no duplicates").
func (t *Tree) contains(hash types.StateHash) bool {
	if t.root.has(hash) {
		return true
	}
	for _, db := range t.dangling {
		if db.has(hash) {
			return true
		}
	}
	return false
}

// AddBlock classifies and inserts pcb, per spec §4.4 steps 1-7.
func (t *Tree) AddBlock(pcb *block.PrecomputedBlock) (ExtensionKind, error) {
	if t.contains(pcb.StateHash) {
		return Noop, nil
	}

	// 2. Root branch forward extension.
	if parent := t.root.byStateHash(pcb.PrevStateHash); parent != nil {
		n := nodeFromBlock(pcb)
		if err := checkConsecutive(parent, n); err != nil {
			return Noop, err
		}
		t.root.insert(n, parent.id)
		kind := RootSimple
		if t.absorbAllDangling() {
			kind = RootComplex
		}
		return kind, nil
	}

	// 3. Dangling simple forward: attaches to the single leaf of an
	// existing dangling branch.
	for _, db := range t.dangling {
		lvs := db.leaves()
		if len(lvs) == 1 && lvs[0].StateHash == pcb.PrevStateHash {
			n := nodeFromBlock(pcb)
			if err := checkConsecutive(lvs[0], n); err != nil {
				return Noop, err
			}
			db.insert(n, lvs[0].id)
			kind := DanglingSimpleForward
			if t.absorbAllDangling() {
				kind = RootComplex
			}
			return kind, nil
		}
	}

	// 4. Dangling simple reverse: this block is the unknown parent of an
	// existing dangling branch's root.
	for i, db := range t.dangling {
		if db.root().PrevStateHash == pcb.StateHash {
			nb := newBranch()
			n := nodeFromBlock(pcb)
			nb.insert(n, noParent)
			if err := checkConsecutive(n, db.root()); err != nil {
				return Noop, err
			}
			if err := nb.absorb(db); err != nil {
				return Noop, err
			}
			t.dangling[i] = nb
			kind := DanglingSimpleReverse
			if t.absorbAllDangling() {
				kind = RootComplex
			}
			return kind, nil
		}
	}

	// 5. Dangling complex merge: this block is the parent of multiple
	// dangling roots.
	var matchIdx []int
	for i, db := range t.dangling {
		if db.root().PrevStateHash == pcb.StateHash {
			matchIdx = append(matchIdx, i)
		}
	}
	if len(matchIdx) > 1 {
		merged := newBranch()
		n := nodeFromBlock(pcb)
		merged.insert(n, noParent)
		var toRemove []*Branch
		for _, idx := range matchIdx {
			db := t.dangling[idx]
			if err := checkConsecutive(n, db.root()); err != nil {
				return Noop, err
			}
			if err := merged.absorb(db); err != nil {
				return Noop, err
			}
			toRemove = append(toRemove, db)
		}
		t.removeDangling(toRemove...)
		t.dangling = append(t.dangling, merged)
		kind := DanglingComplex
		if t.absorbAllDangling() {
			kind = RootComplex
		}
		return kind, nil
	}

	// 7. New dangling branch.
	db := newBranch()
	db.insert(nodeFromBlock(pcb), noParent)
	t.dangling = append(t.dangling, db)
	kind := DanglingNew
	if t.absorbAllDangling() {
		kind = RootComplex
	}
	return kind, nil
}

func checkConsecutive(parent, child *Node) error {
	if child.PrevStateHash != parent.StateHash {
		return &ErrInvariantViolation{Msg: fmt.Sprintf("child %s prev_state_hash %s does not match parent %s", child.StateHash, child.PrevStateHash, parent.StateHash)}
	}
	if child.BlockchainLength != parent.BlockchainLength+1 {
		return &ErrInvariantViolation{Msg: fmt.Sprintf("block %s has length %d, want %d", child.StateHash, child.BlockchainLength, parent.BlockchainLength+1)}
	}
	return nil
}

func (t *Tree) removeDangling(branches ...*Branch) {
	remove := make(map[*Branch]bool, len(branches))
	for _, b := range branches {
		remove[b] = true
	}
	var kept []*Branch
	for _, db := range t.dangling {
		if !remove[db] {
			kept = append(kept, db)
		}
	}
	t.dangling = kept
}

// absorbAllDangling repeatedly grafts any dangling branch whose root's
// parent is now present in the root branch, until a fixpoint (spec §4.4
// step 6: "Repeat until no further absorptions are possible"). It reports
// whether at least one absorption occurred.
func (t *Tree) absorbAllDangling() bool {
	absorbedAny := false
	for {
		progress := false
		for i := 0; i < len(t.dangling); i++ {
			db := t.dangling[i]
			if t.root.has(db.root().PrevStateHash) {
				if err := t.root.absorb(db); err != nil {
					continue
				}
				t.dangling = append(t.dangling[:i], t.dangling[i+1:]...)
				i--
				progress = true
				absorbedAny = true
			}
		}
		if !progress {
			break
		}
	}
	return absorbedAny
}

// Leaves returns every root-branch leaf, i.e. every candidate best tip.
func (t *Tree) Leaves() []*Node { return t.root.leaves() }

// DanglingCount reports how many dangling branches currently exist.
func (t *Tree) DanglingCount() int { return len(t.dangling) }

// RootNode returns the current root of the root branch.
func (t *Tree) RootNode() *Node { return t.root.root() }

// NodeByHash looks up a node by state hash across the root branch and all
// dangling branches.
func (t *Tree) NodeByHash(hash types.StateHash) *Node {
	if n := t.root.byStateHash(hash); n != nil {
		return n
	}
	for _, db := range t.dangling {
		if n := db.byStateHash(hash); n != nil {
			return n
		}
	}
	return nil
}

// PathInRoot returns the ancestor chain from the root branch's root to n,
// inclusive. n must belong to the root branch.
func (t *Tree) PathInRoot(n *Node) []*Node { return t.root.path(n) }

// CommonAncestor returns the lowest common ancestor of a and b within the
// root branch.
func (t *Tree) CommonAncestor(a, b *Node) (*Node, error) {
	return t.root.commonAncestor(a, b)
}
