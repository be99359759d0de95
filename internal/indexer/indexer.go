// Package indexer wires the witness tree, the canonicity engine, the
// reorg executor, the event log, and the derived-view store into the
// single-writer pipeline spec.md §5 describes: AddBlock runs to
// completion between awaits, and the only suspension points are
// receiving from the ingest channel, awaiting a storage.Batch.Commit,
// and publishing a best-tip snapshot. Grounded on klingnet-chain's
// internal/chain.Chain, which plays the same "own the tree, own the
// store, own the best-tip pointer" role for its UTXO model.
package indexer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Klingon-tech/mina-indexer/config"
	"github.com/Klingon-tech/mina-indexer/internal/canonicity"
	"github.com/Klingon-tech/mina-indexer/internal/event"
	"github.com/Klingon-tech/mina-indexer/internal/log"
	"github.com/Klingon-tech/mina-indexer/internal/profiling"
	"github.com/Klingon-tech/mina-indexer/internal/reorg"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/internal/witness"
	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// BestTip is the immutable snapshot published after every AddBlock call,
// read by queries through an atomic.Pointer swap rather than a mutex
// (spec §5's "atomic pointer swap" reader-writer handoff).
type BestTip struct {
	StateHash        types.StateHash
	Height           types.Height
	BlockchainLength types.Height
	GlobalSlot       types.GlobalSlot
	DanglingBranches int
}

// Indexer is the top-level orchestrator. AddBlock is not safe for
// concurrent use by more than one goroutine; spec §5 requires exactly one
// producer.
type Indexer struct {
	st       *store.Store
	tree     *witness.Tree
	engine   *canonicity.Engine
	reorg    *reorg.Executor
	prof     *profiling.Aggregator
	chainCfg config.ChainConfig

	mu      sync.Mutex
	bestTip atomic.Pointer[BestTip]
	closed  bool
}

// New constructs an Indexer over an already-open store, seeding the
// witness tree at genesis. Callers building a fresh chain pass an empty
// ledger.New(); callers resuming from replay pass the ledger
// reconstructed at the current root (see Resume).
func New(st *store.Store, cfg config.ChainConfig, genesis *block.PrecomputedBlock, genesisLedger *ledger.Ledger, prof *profiling.Aggregator) (*Indexer, error) {
	if err := st.RecordGenesisStateHash(genesis.StateHash); err != nil {
		return nil, fmt.Errorf("indexer: record genesis state hash: %w", err)
	}
	if err := st.RecordGenesisPrevStateHash(genesis.PrevStateHash); err != nil {
		return nil, fmt.Errorf("indexer: record genesis sentinel prev hash: %w", err)
	}
	idx := &Indexer{
		st:       st,
		tree:     witness.NewTree(genesis, genesisLedger),
		engine:   canonicity.NewEngine(cfg.CanonicalThreshold),
		reorg:    reorg.New(st),
		prof:     prof,
		chainCfg: cfg,
	}
	idx.bestTip.Store(&BestTip{
		StateHash:        genesis.StateHash,
		Height:           genesis.Height,
		BlockchainLength: genesis.BlockchainLength,
		GlobalSlot:       genesis.GlobalSlot,
	})
	if err := idx.reorg.ResumeIfInterrupted(idx.tree); err != nil {
		return nil, fmt.Errorf("indexer: resume interrupted reorg: %w", err)
	}
	return idx, nil
}

// BestTip returns the most recently published best-tip snapshot.
func (idx *Indexer) BestTip() *BestTip { return idx.bestTip.Load() }

// Store exposes the underlying derived-view store for read-only callers
// (internal/query.Reader, internal/ipc command handlers).
func (idx *Indexer) Store() *store.Store { return idx.st }

// AddBlock ingests one decoded precomputed block: classifies its place in
// the witness tree, persists it and its ledger diff, recomputes the best
// tip, runs the (possibly degenerate) reorg computation for any tip
// change, advances the confirmed-prefix cache, and prunes the transition
// frontier, per spec §4.4-§4.7.
func (idx *Indexer) AddBlock(pcb *block.PrecomputedBlock) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.prof != nil {
		defer idx.prof.Timer(idx.prof.AddBlockLatency)()
	}

	kind, err := idx.tree.AddBlock(pcb)
	if err != nil {
		if inv, ok := err.(*witness.ErrInvariantViolation); ok {
			log.Witness.Fatal().Str("state_hash", string(pcb.StateHash)).Msg(inv.Error())
		}
		return fmt.Errorf("indexer: add block %s: %w", pcb.StateHash, err)
	}
	if kind == witness.Noop {
		return nil // duplicate, already known
	}

	if err := idx.st.PutBlock(pcb); err != nil {
		return fmt.Errorf("indexer: persist block %s: %w", pcb.StateHash, err)
	}
	parentLedger, err := idx.tree.LedgerBefore(idx.tree.NodeByHash(pcb.StateHash))
	if err != nil {
		return fmt.Errorf("indexer: parent ledger for %s: %w", pcb.StateHash, err)
	}
	if parentLedger == nil {
		// pcb is still inside a dangling branch; its diff's pre-image
		// fields (e.g. DelegateBefore) default to the empty ledger's
		// view and are corrected once witness.MaterializeLedger replays
		// the block after its branch is absorbed into the root.
		parentLedger = ledger.New()
	}
	diff := ledger.FromBlock(pcb, parentLedger)
	if err := idx.st.PutLedgerDiff(pcb.StateHash, diff); err != nil {
		return fmt.Errorf("indexer: persist ledger diff %s: %w", pcb.StateHash, err)
	}
	for _, sc := range pcb.Commands {
		if err := idx.st.PutUserCommand(pcb.BlockchainLength, pcb.GlobalSlot, sc); err != nil {
			return fmt.Errorf("indexer: persist user command %s: %w", sc.Command.Hash, err)
		}
	}
	for _, w := range pcb.CompletedWorks {
		if err := idx.st.PutCompletedWork(pcb.BlockchainLength, w); err != nil {
			return fmt.Errorf("indexer: persist completed work: %w", err)
		}
	}
	for pk, name := range pcb.Usernames {
		if err := idx.st.PutUsername(pk, name); err != nil {
			return fmt.Errorf("indexer: persist username for %s: %w", pk, err)
		}
	}
	if idx.prof != nil {
		idx.prof.BlocksIngested.Inc()
	}

	events := []event.Event{{
		Kind:      event.KindNewBlock,
		StateHash: pcb.StateHash,
		Height:    pcb.BlockchainLength,
	}}
	if k := danglingEventKind(kind); k != nil {
		events = append(events, event.Event{Kind: *k, StateHash: pcb.StateHash, Height: pcb.BlockchainLength})
	}

	reorged, oldBest, newBest, confirmed, err := idx.engine.OnAddBlock(idx.tree)
	if err != nil {
		return fmt.Errorf("indexer: canonicity: %w", err)
	}
	if reorged {
		reorgEvents, err := idx.reorg.Execute(idx.tree, oldBest, newBest)
		if err != nil {
			return fmt.Errorf("indexer: reorg: %w", err)
		}
		events = append(events, reorgEvents...)
		if idx.prof != nil {
			idx.prof.ReorgCount.Inc()
		}
	}

	for _, n := range confirmed {
		if err := idx.st.PutCanonical(n.BlockchainLength, n.GlobalSlot, n.StateHash); err != nil {
			return fmt.Errorf("indexer: mark canonical %s: %w", n.StateHash, err)
		}
		events = append(events, event.Event{Kind: event.KindCanonicalBlock, StateHash: n.StateHash, Height: n.BlockchainLength})
	}
	if len(confirmed) > 0 {
		if err := idx.st.PutMaxCanonicalLength(confirmed[len(confirmed)-1].BlockchainLength); err != nil {
			return fmt.Errorf("indexer: advance max canonical length: %w", err)
		}
	}

	if newBest != nil && idx.tree.ShouldPrune(newBest.BlockchainLength, idx.chainCfg.TransitionFrontierK) {
		newRoot, err := idx.tree.AncestorAtDepth(newBest, idx.chainCfg.TransitionFrontierK)
		if err != nil {
			return fmt.Errorf("indexer: find prune target: %w", err)
		}
		if err := idx.tree.PruneToFrontier(newRoot.StateHash); err != nil {
			return fmt.Errorf("indexer: prune to frontier: %w", err)
		}
		events = append(events, event.Event{Kind: event.KindRootAdvanced, StateHash: newRoot.StateHash, Height: newRoot.BlockchainLength})
	}

	for _, ev := range events {
		if _, err := idx.st.PutEvent(ev); err != nil {
			return fmt.Errorf("indexer: append event: %w", err)
		}
	}

	if newBest != nil {
		idx.bestTip.Store(&BestTip{
			StateHash:        newBest.StateHash,
			Height:           newBest.Height,
			BlockchainLength: newBest.BlockchainLength,
			GlobalSlot:       newBest.GlobalSlot,
			DanglingBranches: idx.tree.DanglingCount(),
		})
	}
	return nil
}

// AddStakingLedger validates and persists an epoch staking-ledger
// snapshot (spec §4.1/§6), independent of the witness tree.
func (idx *Indexer) AddStakingLedger(sl *ledger.StakingLedger) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.st.PutStakingLedger(sl.Epoch, sl); err != nil {
		return fmt.Errorf("indexer: persist staking ledger epoch %d: %w", sl.Epoch, err)
	}
	_, err := idx.st.PutEvent(event.Event{Kind: event.KindStakingLedgerAdded, Height: types.Height(sl.Epoch)})
	return err
}

func danglingEventKind(kind witness.ExtensionKind) *event.Kind {
	var k event.Kind
	switch kind {
	case witness.DanglingNew:
		k = event.KindDanglingBranchNew
	case witness.DanglingComplex, witness.RootComplex:
		k = event.KindDanglingBranchMerged
	default:
		return nil
	}
	return &k
}

// Close tears down the profiling aggregator and the backing store.
// Safe to call once at shutdown, after the ingest pipeline has drained.
func (idx *Indexer) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	if idx.prof != nil {
		idx.prof.Close()
	}
	return idx.st.Close()
}
