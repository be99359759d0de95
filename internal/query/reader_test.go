package query

import (
	"testing"

	"github.com/Klingon-tech/mina-indexer/config"
	"github.com/Klingon-tech/mina-indexer/internal/indexer"
	"github.com/Klingon-tech/mina-indexer/internal/storage"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

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

func newTestReader(t *testing.T) (*StoreReader, []*block.PrecomputedBlock) {
	t.Helper()
	st := store.Open(storage.NewMemory())
	genesis := mkBlock(1, 0, 1)
	idx, err := indexer.New(st, config.ChainConfig{TransitionFrontierK: 290, CanonicalThreshold: 2}, genesis, ledger.New(), nil)
	if err != nil {
		t.Fatalf("indexer.New: %v", err)
	}

	chain := []*block.PrecomputedBlock{genesis}
	prev := genesis.StateHash
	for i, seed := range []byte{2, 3, 4} {
		height := types.Height(i + 2)
		pcb := &block.PrecomputedBlock{
			StateHash:        types.NewFixtureStateHash(seed),
			PrevStateHash:    prev,
			BlockchainLength: height,
			Height:           height,
		}
		if err := idx.AddBlock(pcb); err != nil {
			t.Fatalf("AddBlock: %v", err)
		}
		chain = append(chain, pcb)
		prev = pcb.StateHash
	}
	return NewStoreReader(idx), chain
}

func TestBestChainWalksParentPointers(t *testing.T) {
	r, chain := newTestReader(t)

	hashes, err := r.BestChain(10)
	if err != nil {
		t.Fatalf("BestChain: %v", err)
	}
	if len(hashes) != len(chain) {
		t.Fatalf("len(hashes) = %d, want %d", len(hashes), len(chain))
	}
	for i, h := range hashes {
		want := chain[len(chain)-1-i].StateHash
		if h != want {
			t.Errorf("hashes[%d] = %s, want %s", i, h, want)
		}
	}
}

func TestBestChainRespectsLimit(t *testing.T) {
	r, _ := newTestReader(t)

	hashes, err := r.BestChain(2)
	if err != nil {
		t.Fatalf("BestChain: %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("len(hashes) = %d, want 2", len(hashes))
	}
}

func TestBestTipReflectsLatestBlock(t *testing.T) {
	r, chain := newTestReader(t)
	tip := r.BestTip()
	if tip.StateHash != chain[len(chain)-1].StateHash {
		t.Errorf("tip = %s, want %s", tip.StateHash, chain[len(chain)-1].StateHash)
	}
}
