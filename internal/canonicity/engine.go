package canonicity

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/internal/witness"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// Engine tracks the current best tip and the confirmed-prefix cache
// (max_canonical_length), per spec §4.5.
type Engine struct {
	threshold          uint32
	bestTip            *witness.Node
	maxCanonicalLength types.Height
	haveMax            bool
}

// NewEngine constructs a canonicity engine with the given confirmation
// threshold (the number of blocks behind the best tip a block must be to
// enter the confirmed prefix).
func NewEngine(threshold uint32) *Engine {
	return &Engine{threshold: threshold}
}

// MaxCanonicalLength returns the height below which canonicity queries
// answer in O(1) from the canonical-height map.
func (e *Engine) MaxCanonicalLength() (types.Height, bool) {
	return e.maxCanonicalLength, e.haveMax
}

// BestTip returns the last computed best tip, or nil before the first
// OnAddBlock call.
func (e *Engine) BestTip() *witness.Node { return e.bestTip }

// SetState restores the engine's state after a replay, without emitting
// confirmation events for history already persisted.
func (e *Engine) SetState(bestTip *witness.Node, maxCanonicalLength types.Height, haveMax bool) {
	e.bestTip = bestTip
	e.maxCanonicalLength = maxCanonicalLength
	e.haveMax = haveMax
}

// OnAddBlock recomputes the best tip from tree's current root-branch
// leaves, reports whether this constitutes a reorg (new tip differs from
// the prior one), and returns the list of nodes that newly enter the
// confirmed prefix as a result (spec §4.5: "record a reorg" / "enters the
// confirmed prefix").
func (e *Engine) OnAddBlock(tree *witness.Tree) (reorg bool, oldBest, newBest *witness.Node, confirmed []*witness.Node, err error) {
	leaves := tree.Leaves()
	if len(leaves) == 0 {
		return false, nil, nil, nil, fmt.Errorf("canonicity: root branch has no leaves")
	}
	newBest = BestTip(leaves)
	oldBest = e.bestTip
	reorg = oldBest != nil && oldBest.StateHash != newBest.StateHash
	e.bestTip = newBest

	var confirmedThreshold types.Height
	if uint32(newBest.BlockchainLength) > e.threshold {
		confirmedThreshold = newBest.BlockchainLength - types.Height(e.threshold)
	}

	needsAdvance := !e.haveMax || confirmedThreshold > e.maxCanonicalLength
	if !needsAdvance {
		return reorg, oldBest, newBest, nil, nil
	}

	path := tree.PathInRoot(newBest)
	for _, n := range path {
		if n.BlockchainLength > confirmedThreshold {
			break
		}
		if e.haveMax && n.BlockchainLength <= e.maxCanonicalLength {
			continue
		}
		confirmed = append(confirmed, n)
	}
	if len(confirmed) > 0 || !e.haveMax {
		e.maxCanonicalLength = confirmedThreshold
		e.haveMax = true
	}
	return reorg, oldBest, newBest, confirmed, nil
}
