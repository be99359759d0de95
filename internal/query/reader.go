// Package query defines the read-only boundary a GraphQL or REST server
// would sit behind. Building that server is explicitly out of scope
// (spec.md §1); this package only defines the interface such a server,
// and internal/ipc's command handlers, consume.
package query

import (
	"github.com/Klingon-tech/mina-indexer/internal/indexer"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// Reader is the query-side boundary: a best-tip snapshot accessor plus
// the store's typed getters. Nothing in this package mutates state.
type Reader interface {
	BestTip() *indexer.BestTip
	Account(token types.TokenAddress, pk types.PublicKey) (*ledger.Account, error)
	BestChain(n int) ([]types.StateHash, error)
	CommandsBySender(pk types.PublicKey) ([]types.TxnHash, error)
	CommandsByReceiver(pk types.PublicKey) ([]types.TxnHash, error)
}

// StoreReader adapts an *indexer.Indexer to Reader, reading the best-tip
// snapshot and delegating everything else to the derived-view store.
type StoreReader struct {
	idx *indexer.Indexer
}

// NewStoreReader wraps idx as a Reader.
func NewStoreReader(idx *indexer.Indexer) *StoreReader { return &StoreReader{idx: idx} }

func (r *StoreReader) BestTip() *indexer.BestTip { return r.idx.BestTip() }

func (r *StoreReader) Account(token types.TokenAddress, pk types.PublicKey) (*ledger.Account, error) {
	acct, err := r.idx.Store().GetAccountBalance(token, pk)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// BestChain returns the state hashes of the last n blocks of the best
// chain, from the tip backward, by walking the persisted parent chain
// starting at the published best tip (spec §6 `best_chain <n>`).
func (r *StoreReader) BestChain(n int) ([]types.StateHash, error) {
	tip := r.idx.BestTip()
	if tip == nil {
		return nil, nil
	}
	hashes := make([]types.StateHash, 0, n)
	cur := tip.StateHash
	for i := 0; i < n; i++ {
		hashes = append(hashes, cur)
		parent, err := r.idx.Store().ParentOf(cur)
		if err != nil {
			if err == store.ErrNotFound {
				break
			}
			return nil, err
		}
		if parent.IsZero() {
			break
		}
		cur = parent
	}
	return hashes, nil
}

func (r *StoreReader) CommandsBySender(pk types.PublicKey) ([]types.TxnHash, error) {
	return r.idx.Store().CommandsBySender(pk)
}

func (r *StoreReader) CommandsByReceiver(pk types.PublicKey) ([]types.TxnHash, error) {
	return r.idx.Store().CommandsByReceiver(pk)
}
