package store

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// PutBlock persists pcb under its state hash and appends it to the
// height and slot secondary indexes (spec §6: blocks, blocks_at_height,
// blocks_at_slot).
func (s *Store) PutBlock(pcb *block.PrecomputedBlock) error {
	raw, err := encode(pcb)
	if err != nil {
		return fmt.Errorf("store: encode block %s: %w", pcb.StateHash, err)
	}
	batch, err := s.NewBatch()
	if err != nil {
		return err
	}
	if err := batch.Put(s.Blocks.Tagged([]byte(pcb.StateHash)), raw); err != nil {
		return err
	}
	heightSuffix := heightKeySuffix(uint64(pcb.BlockchainLength), string(pcb.StateHash))
	if err := batch.Put(s.BlocksAtHeight.Tagged(heightSuffix), []byte(pcb.StateHash)); err != nil {
		return err
	}
	slotSuffix := heightKeySuffix(uint64(pcb.GlobalSlot), string(pcb.StateHash))
	if err := batch.Put(s.BlocksAtSlot.Tagged(slotSuffix), []byte(pcb.StateHash)); err != nil {
		return err
	}
	return batch.Commit()
}

// GetBlock looks up a precomputed block by state hash.
func (s *Store) GetBlock(hash types.StateHash) (*block.PrecomputedBlock, error) {
	raw, err := s.Blocks.Get([]byte(hash))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	var pcb block.PrecomputedBlock
	if err := decode(raw, &pcb); err != nil {
		return nil, fmt.Errorf("store: decode block %s: %w", hash, err)
	}
	return &pcb, nil
}

// ParentOf returns the PrevStateHash of the stored block, used by
// internal/reorg to walk both chains to their common ancestor using
// parent pointers recovered from the store rather than the live witness
// tree (spec §4.6).
func (s *Store) ParentOf(hash types.StateHash) (types.StateHash, error) {
	pcb, err := s.GetBlock(hash)
	if err != nil {
		return "", err
	}
	return pcb.PrevStateHash, nil
}

// BlocksAtHeight returns every known state hash at the given blockchain
// length, in insertion (state-hash lexical) order.
func (s *Store) BlocksAtHeight(height types.Height) ([]types.StateHash, error) {
	var hashes []types.StateHash
	prefix := heightKey(uint64(height))
	it := s.BlocksAtHeight.NewIterator(prefix, false)
	if it == nil {
		return nil, nil
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		hashes = append(hashes, types.StateHash(it.Value()))
	}
	return hashes, nil
}
