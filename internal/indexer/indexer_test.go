package indexer

import (
	"testing"

	"github.com/Klingon-tech/mina-indexer/config"
	"github.com/Klingon-tech/mina-indexer/internal/storage"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

func testChainConfig() config.ChainConfig {
	return config.ChainConfig{TransitionFrontierK: 290, CanonicalThreshold: 2}
}

func mkBlock(seed, prevSeed byte, length types.Height) *block.PrecomputedBlock {
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

func newTestIndexer(t *testing.T) (*Indexer, *block.PrecomputedBlock) {
	t.Helper()
	st := store.Open(storage.NewMemory())
	genesis := mkBlock(1, 0, 1)
	idx, err := New(st, testChainConfig(), genesis, ledger.New(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return idx, genesis
}

func TestAddBlockAdvancesBestTip(t *testing.T) {
	idx, genesis := newTestIndexer(t)
	_ = genesis

	child := mkBlock(2, 1, 2)
	if err := idx.AddBlock(child); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	tip := idx.BestTip()
	if tip.StateHash != child.StateHash {
		t.Errorf("tip = %s, want %s", tip.StateHash, child.StateHash)
	}
	if tip.BlockchainLength != 2 {
		t.Errorf("tip height = %d, want 2", tip.BlockchainLength)
	}

	stored, err := idx.Store().GetBlock(child.StateHash)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if stored.StateHash != child.StateHash {
		t.Errorf("stored block hash = %s, want %s", stored.StateHash, child.StateHash)
	}
}

func TestAddBlockDuplicateIsNoop(t *testing.T) {
	idx, _ := newTestIndexer(t)

	child := mkBlock(2, 1, 2)
	if err := idx.AddBlock(child); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	tipBefore := idx.BestTip()

	if err := idx.AddBlock(child); err != nil {
		t.Fatalf("AddBlock (duplicate): %v", err)
	}
	tipAfter := idx.BestTip()
	if tipBefore.StateHash != tipAfter.StateHash {
		t.Errorf("duplicate add changed best tip: %s -> %s", tipBefore.StateHash, tipAfter.StateHash)
	}
}

func TestAddBlockConfirmsAncestorsAfterThreshold(t *testing.T) {
	idx, genesis := newTestIndexer(t)

	prev := genesis.StateHash
	for i, seed := range []byte{2, 3, 4, 5} {
		height := types.Height(i + 2)
		pcb := &block.PrecomputedBlock{
			StateHash:        types.NewFixtureStateHash(seed),
			PrevStateHash:    prev,
			BlockchainLength: height,
			Height:           height,
		}
		if err := idx.AddBlock(pcb); err != nil {
			t.Fatalf("AddBlock(height=%d): %v", height, err)
		}
		prev = pcb.StateHash
	}

	if _, err := idx.Store().GetBlock(genesis.StateHash); err != nil {
		t.Fatalf("genesis block missing from store: %v", err)
	}
}
