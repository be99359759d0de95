package store

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// RecordGenesisStateHash records hash as a known genesis state hash, per
// spec §6's known_genesis_state_hashes CF: the witness tree accepts more
// than one genesis if ingest ever points at more than one network feed.
func (s *Store) RecordGenesisStateHash(hash types.StateHash) error {
	return s.KnownGenesisStateHashes.Put([]byte(hash), []byte{1})
}

// IsKnownGenesis reports whether hash was recorded as a genesis state hash.
func (s *Store) IsKnownGenesis(hash types.StateHash) (bool, error) {
	return s.KnownGenesisStateHashes.Has([]byte(hash))
}

// RecordGenesisPrevStateHash records the sentinel previous-state-hash a
// genesis block declares (Mina genesis blocks set prev_state_hash to a
// fixed non-existent value rather than a zero hash).
func (s *Store) RecordGenesisPrevStateHash(hash types.StateHash) error {
	return s.KnownGenesisPrevStateHashes.Put([]byte(hash), []byte{1})
}

// IsKnownGenesisPrevStateHash reports whether hash is a recorded genesis
// sentinel previous-state-hash, which the witness tree uses to recognize
// a block with no real parent as a second root rather than an orphan.
func (s *Store) IsKnownGenesisPrevStateHash(hash types.StateHash) (bool, error) {
	return s.KnownGenesisPrevStateHashes.Has([]byte(hash))
}
