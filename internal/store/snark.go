package store

import (
	"encoding/binary"

	"github.com/Klingon-tech/mina-indexer/pkg/snark"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// PutCompletedWork indexes a SNARK completed-work record by fee and by
// prover (spec §6: snark_by_fee, snark_by_prover), so the IPC layer can
// answer "cheapest available work" and "work completed by prover" without
// a table scan.
func (s *Store) PutCompletedWork(height types.Height, w snark.CompletedWork) error {
	raw, err := encode(w)
	if err != nil {
		return err
	}
	batch, err := s.NewBatch()
	if err != nil {
		return err
	}
	feeKey := make([]byte, 8)
	binary.BigEndian.PutUint64(feeKey, uint64(w.Fee))
	feeKey = append(feeKey, heightKeySuffix(uint64(height), string(w.Prover))...)
	if err := batch.Put(s.SnarkByFee.Tagged(feeKey), raw); err != nil {
		return err
	}
	proverKey := append([]byte(string(w.Prover)+":"), heightKey(uint64(height))...)
	if err := batch.Put(s.SnarkByProver.Tagged(proverKey), raw); err != nil {
		return err
	}
	return batch.Commit()
}
