package store

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// PutLedgerDiff persists the LedgerDiff derived from a block, keyed by
// state hash, so internal/reorg can unapply/reapply diffs along a reorg
// path without re-deriving them from the raw block (spec §4.6).
func (s *Store) PutLedgerDiff(hash types.StateHash, d *ledger.LedgerDiff) error {
	raw, err := encode(d)
	if err != nil {
		return fmt.Errorf("store: encode ledger diff %s: %w", hash, err)
	}
	return s.LedgerDiffs.Put([]byte(hash), raw)
}

// GetLedgerDiff looks up the LedgerDiff stored for hash.
func (s *Store) GetLedgerDiff(hash types.StateHash) (*ledger.LedgerDiff, error) {
	raw, err := s.LedgerDiffs.Get([]byte(hash))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	var d ledger.LedgerDiff
	if err := decode(raw, &d); err != nil {
		return nil, fmt.Errorf("store: decode ledger diff %s: %w", hash, err)
	}
	return &d, nil
}
