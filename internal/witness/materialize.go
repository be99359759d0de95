package witness

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
)

// MaterializeLedger returns n's ledger, computing it lazily if necessary:
// find the nearest ancestor with a materialized ledger, clone it, and
// replay the in-between blocks' diffs in order (spec §4.4). n must belong
// to the root branch; the root always has a ledger. The result is cached
// on n so repeated best-tip queries after the first are O(1).
func (t *Tree) MaterializeLedger(n *Node) (*ledger.Ledger, error) {
	if n.ledger != nil {
		return n.ledger, nil
	}

	path := t.root.path(n)
	ancestorIdx := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].ledger != nil {
			ancestorIdx = i
			break
		}
	}
	if ancestorIdx == -1 {
		return nil, fmt.Errorf("witness: no ancestor ledger found for %s; root must always have one", n.StateHash)
	}

	l := path[ancestorIdx].ledger.Clone()
	for i := ancestorIdx + 1; i < len(path); i++ {
		diff := ledger.FromBlock(path[i].Block, l)
		if err := l.ApplyDiff(diff); err != nil {
			return nil, fmt.Errorf("witness: materializing ledger at %s: %w", n.StateHash, err)
		}
	}
	// Cache only at the requested node, not every intermediate ancestor,
	// per the "materialize only at best tips and at branch points" note.
	n.ledger = l
	return l, nil
}

// LedgerBefore returns the materialized ledger n's block applies on top
// of, i.e. its parent's ledger. Returns (nil, nil) for the root (no
// parent) or for a node that does not yet belong to the root branch
// (still inside a dangling branch, with no materializable ancestor).
func (t *Tree) LedgerBefore(n *Node) (*ledger.Ledger, error) {
	if !t.root.has(n.StateHash) {
		return nil, nil
	}
	path := t.root.path(n)
	if len(path) < 2 {
		return nil, nil
	}
	return t.MaterializeLedger(path[len(path)-2])
}
