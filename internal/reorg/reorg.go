// Package reorg walks a best-tip change back to its common ancestor and
// replays the persisted ledger views across the fork, grounded directly
// on klingnet-chain's internal/chain.Reorg: the collectBranch-style
// common-ancestor walk and the "revert old, then replay new" two-pass
// structure are the same shape, generalized from UTXO spend/create pairs
// to per-(pk, token) diff aggregation (spec §4.6).
package reorg

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/mina-indexer/internal/event"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/internal/witness"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// MaxReorgDepth bounds how many blocks a single reorg may revert and
// replay, mirroring klingnet-chain's constant of the same name.
const MaxReorgDepth = 1000

// ErrReorgTooDeep is returned when a reorg would revert or replay more
// than MaxReorgDepth blocks; the caller should fall back to a full
// ledger rebuild from the witness tree's root rather than walk further.
var ErrReorgTooDeep = errors.New("reorg: exceeds max reorg depth")

// acctKey identifies one (public_key, token) pair for diff aggregation.
type acctKey struct {
	pk    types.PublicKey
	token types.TokenAddress
}

// Executor applies reorgs against a persisted store, keeping its own
// crash-recovery checkpoint so an interrupted reorg resumes on restart.
type Executor struct {
	st *store.Store
}

// New returns a reorg executor over st.
func New(st *store.Store) *Executor {
	return &Executor{st: st}
}

// Execute reverts the persisted account views along the path from the
// common ancestor to oldBest, then replays the path from the common
// ancestor to newBest, in two passes, so any account touched by both
// sides of the fork is never left in an intermediate state (spec §4.6's
// "revert old, then replay new" requirement keeps the final values
// correct even when branches touch disjoint accounts).
func (e *Executor) Execute(tree *witness.Tree, oldBest, newBest *witness.Node) ([]event.Event, error) {
	if oldBest == nil || oldBest.StateHash == newBest.StateHash {
		return nil, nil
	}
	ancestor, err := tree.CommonAncestor(oldBest, newBest)
	if err != nil {
		return nil, fmt.Errorf("reorg: common ancestor: %w", err)
	}

	oldPath := branchAbove(tree.PathInRoot(oldBest), ancestor.StateHash)
	newPath := branchAbove(tree.PathInRoot(newBest), ancestor.StateHash)
	if len(oldPath)+len(newPath) > MaxReorgDepth {
		return nil, fmt.Errorf("%w: reverting %d and replaying %d blocks", ErrReorgTooDeep, len(oldPath), len(newPath))
	}

	cp := &store.ReorgCheckpoint{
		OldTip:         oldBest.StateHash,
		NewTip:         newBest.StateHash,
		CommonAncestor: ancestor.StateHash,
		Phase:          "unapplying",
	}
	if err := e.st.PutReorgCheckpoint(cp); err != nil {
		return nil, fmt.Errorf("reorg: write checkpoint: %w", err)
	}

	agg := make(map[acctKey]int64)

	// Unapply old-branch diffs from the tip down to (but not including)
	// the common ancestor.
	for i := len(oldPath) - 1; i >= 0; i-- {
		n := oldPath[i]
		diff, err := e.st.GetLedgerDiff(n.StateHash)
		if err != nil {
			return nil, fmt.Errorf("reorg: load diff for unapply at %s: %w", n.StateHash, err)
		}
		if err := e.unapplyDiff(diff, agg); err != nil {
			return nil, fmt.Errorf("reorg: unapply %s: %w", n.StateHash, err)
		}
		cp.UnappliedUpTo = n.StateHash
		if err := e.st.PutReorgCheckpoint(cp); err != nil {
			return nil, err
		}
	}

	cp.Phase = "applying"
	if err := e.st.PutReorgCheckpoint(cp); err != nil {
		return nil, err
	}

	// Apply new-branch diffs from just above the ancestor up to the new tip.
	for _, n := range newPath {
		diff, err := e.st.GetLedgerDiff(n.StateHash)
		if err != nil {
			return nil, fmt.Errorf("reorg: load diff for apply at %s: %w", n.StateHash, err)
		}
		if err := e.applyDiff(diff, agg); err != nil {
			return nil, fmt.Errorf("reorg: apply %s: %w", n.StateHash, err)
		}
	}

	for k, delta := range agg {
		if err := e.st.PutBalanceUpdate(newBest.StateHash, k.pk, k.token, delta); err != nil {
			return nil, fmt.Errorf("reorg: record balance update for %s: %w", k.pk, err)
		}
	}

	if err := e.st.PutReorgCheckpoint(nil); err != nil {
		return nil, fmt.Errorf("reorg: clear checkpoint: %w", err)
	}

	return []event.Event{{
		Kind:          event.KindBestTipChanged,
		StateHash:     newBest.StateHash,
		PrevStateHash: oldBest.StateHash,
		Height:        newBest.BlockchainLength,
		Detail:        fmt.Sprintf("reorg depth %d+%d accounts touched %d", len(oldPath), len(newPath), len(agg)),
	}}, nil
}

// branchAbove returns the suffix of path strictly above (not including)
// the node with the given state hash. path is root-to-tip ordered, as
// witness.Tree.PathInRoot returns it.
func branchAbove(path []*witness.Node, ancestor types.StateHash) []*witness.Node {
	for i, n := range path {
		if n.StateHash == ancestor {
			return path[i+1:]
		}
	}
	return path
}

func (e *Executor) unapplyDiff(diff *ledger.LedgerDiff, agg map[acctKey]int64) error {
	for i := len(diff.AccountDiffs) - 1; i >= 0; i-- {
		d := diff.AccountDiffs[i]
		acct, err := e.st.GetAccountBalance(d.Token, d.PK)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if acct == nil {
			acct = ledger.Empty(d.PK, d.Token, d.IsZkappAccount)
		}
		before := acct.Balance
		if err := d.Unapply(acct); err != nil {
			return err
		}
		agg[acctKey{d.PK, d.Token}] += int64(acct.Balance) - int64(before)
		if acct.Balance == 0 && acct.Nonce == 0 && d.CreatesAccount {
			continue // deleted: simply stop persisting it below.
		}
		if err := e.st.PutAccountBalance(d.Token, acct); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) applyDiff(diff *ledger.LedgerDiff, agg map[acctKey]int64) error {
	for _, d := range diff.AccountDiffs {
		acct, err := e.st.GetAccountBalance(d.Token, d.PK)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if acct == nil {
			acct = ledger.Empty(d.PK, d.Token, d.IsZkappAccount)
		}
		before := acct.Balance
		if err := d.Apply(acct); err != nil {
			return err
		}
		agg[acctKey{d.PK, d.Token}] += int64(acct.Balance) - int64(before)
		if err := e.st.PutAccountBalance(d.Token, acct); err != nil {
			return err
		}
	}
	return nil
}

// ResumeIfInterrupted finishes a reorg found checkpointed at startup,
// before the indexer serves any queries, per spec §4.6's crash-recovery
// requirement.
func (e *Executor) ResumeIfInterrupted(tree *witness.Tree) error {
	cp, err := e.st.GetReorgCheckpoint()
	if err != nil {
		return fmt.Errorf("reorg: read checkpoint: %w", err)
	}
	if cp == nil {
		return nil
	}
	oldBest := tree.NodeByHash(cp.OldTip)
	newBest := tree.NodeByHash(cp.NewTip)
	if oldBest == nil || newBest == nil {
		// Either tip fell out of the live witness tree (pruned past); the
		// checkpoint is stale and safe to discard.
		return e.st.PutReorgCheckpoint(nil)
	}
	_, err = e.Execute(tree, oldBest, newBest)
	return err
}
