package store

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// ReorgCheckpoint records an in-flight reorg's progress so a crash mid-
// reorg can resume rather than leave the persisted balance_update CF half
// applied (spec §4.6's crash-recovery requirement).
type ReorgCheckpoint struct {
	OldTip          types.StateHash
	NewTip          types.StateHash
	CommonAncestor  types.StateHash
	UnappliedUpTo   types.StateHash
	Phase           string // "unapplying" or "applying"
}

const checkpointKey = "current"

// PutReorgCheckpoint persists the in-flight checkpoint, or clears it when
// cp is nil.
func (s *Store) PutReorgCheckpoint(cp *ReorgCheckpoint) error {
	if cp == nil {
		return s.ReorgCheckpoint.Delete([]byte(checkpointKey))
	}
	raw, err := encode(cp)
	if err != nil {
		return fmt.Errorf("store: encode reorg checkpoint: %w", err)
	}
	return s.ReorgCheckpoint.Put([]byte(checkpointKey), raw)
}

// GetReorgCheckpoint returns the in-flight checkpoint, if any, so startup
// can finish an interrupted reorg before serving queries.
func (s *Store) GetReorgCheckpoint() (*ReorgCheckpoint, error) {
	raw, err := s.ReorgCheckpoint.Get([]byte(checkpointKey))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var cp ReorgCheckpoint
	if err := decode(raw, &cp); err != nil {
		return nil, fmt.Errorf("store: decode reorg checkpoint: %w", err)
	}
	return &cp, nil
}

// PutBalanceUpdate records one account's balance delta applied during a
// reorg, keyed by (state_hash, pk, token), for audit and for the
// balance-conservation check (spec §6 supplemental `balance_update` CF).
func (s *Store) PutBalanceUpdate(hash types.StateHash, pk types.PublicKey, token types.TokenAddress, delta int64) error {
	key := []byte(string(hash) + ":" + string(token) + ":" + string(pk))
	raw, err := encode(delta)
	if err != nil {
		return err
	}
	return s.BalanceUpdate.Put(key, raw)
}
