package reorg

import (
	"testing"

	"github.com/Klingon-tech/mina-indexer/internal/storage"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/internal/witness"
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

func paymentDiff(pk types.PublicKey, amount int64) *ledger.LedgerDiff {
	return &ledger.LedgerDiff{
		AccountDiffs: []ledger.AccountDiff{{
			Kind:           ledger.DiffPayment,
			PK:             pk,
			Token:          types.MinaTokenAddress,
			AmountDelta:    amount,
			CreatesAccount: true,
		}},
	}
}

// TestExecuteReconcilesBalanceAcrossAFork builds a genesis with two
// competing children, each crediting the same account by a different
// amount, and checks that reorging from one tip to the other leaves the
// account holding exactly the new branch's credit.
func TestExecuteReconcilesBalanceAcrossAFork(t *testing.T) {
	st := store.Open(storage.NewMemory())
	pk := types.NewFixturePublicKey(1)

	genesis := mkBlock(1, 0, 1)
	tree := witness.NewTree(genesis, ledger.New())

	oldTip := mkBlock(2, 1, 2)
	newTip := mkBlock(3, 1, 2)

	if _, err := tree.AddBlock(oldTip); err != nil {
		t.Fatalf("AddBlock(oldTip): %v", err)
	}
	if _, err := tree.AddBlock(newTip); err != nil {
		t.Fatalf("AddBlock(newTip): %v", err)
	}

	if err := st.PutLedgerDiff(oldTip.StateHash, paymentDiff(pk, 100)); err != nil {
		t.Fatalf("PutLedgerDiff(oldTip): %v", err)
	}
	if err := st.PutLedgerDiff(newTip.StateHash, paymentDiff(pk, 50)); err != nil {
		t.Fatalf("PutLedgerDiff(newTip): %v", err)
	}

	ex := New(st)
	oldNode := tree.NodeByHash(oldTip.StateHash)
	newNode := tree.NodeByHash(newTip.StateHash)

	// Apply the old branch first, as AddBlock's caller ordinarily would.
	if err := ex.applyDiff(mustDiff(st, oldTip.StateHash), map[acctKey]int64{}); err != nil {
		t.Fatalf("seeding old branch: %v", err)
	}

	events, err := ex.Execute(tree, oldNode, newNode)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	acct, err := st.GetAccountBalance(types.MinaTokenAddress, pk)
	if err != nil {
		t.Fatalf("GetAccountBalance: %v", err)
	}
	if acct.Balance != 50 {
		t.Errorf("balance after reorg = %d, want 50", acct.Balance)
	}

	cp, err := st.GetReorgCheckpoint()
	if err != nil {
		t.Fatalf("GetReorgCheckpoint: %v", err)
	}
	if cp != nil {
		t.Errorf("checkpoint not cleared after Execute: %+v", cp)
	}
}

func TestExecuteNoopWhenTipUnchanged(t *testing.T) {
	st := store.Open(storage.NewMemory())
	genesis := mkBlock(1, 0, 1)
	tree := witness.NewTree(genesis, ledger.New())
	child := mkBlock(2, 1, 2)
	if _, err := tree.AddBlock(child); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	ex := New(st)
	node := tree.NodeByHash(child.StateHash)
	events, err := ex.Execute(tree, node, node)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if events != nil {
		t.Errorf("events = %+v, want nil", events)
	}
}

func mustDiff(st *store.Store, hash types.StateHash) *ledger.LedgerDiff {
	d, err := st.GetLedgerDiff(hash)
	if err != nil {
		panic(err)
	}
	return d
}
