package store

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// PutCanonical marks hash canonical at height, populating the
// height-indexed and slot-indexed canonicity maps spec §6 names
// (canonicity_by_height, canonicity_by_slot). The caller commits both
// under the same batch as the confirming PutBlock when possible.
func (s *Store) PutCanonical(height types.Height, slot types.GlobalSlot, hash types.StateHash) error {
	if err := s.CanonicityByHeight.Put(heightKey(uint64(height)), []byte(hash)); err != nil {
		return err
	}
	return s.CanonicityBySlot.Put(heightKey(uint64(slot)), []byte(hash))
}

// CanonicalAtHeight returns the canonical state hash at height, if the
// confirmed-prefix cache has advanced past it.
func (s *Store) CanonicalAtHeight(height types.Height) (types.StateHash, bool, error) {
	raw, err := s.CanonicityByHeight.Get(heightKey(uint64(height)))
	if err != nil {
		return "", false, err
	}
	if raw == nil {
		return "", false, nil
	}
	return types.StateHash(raw), true, nil
}

// PutMaxCanonicalLength records the confirmed-prefix watermark so it
// survives a restart without replaying the whole witness tree (spec §4.5).
func (s *Store) PutMaxCanonicalLength(h types.Height) error {
	return s.MaxCanonicalLength.Put([]byte("watermark"), heightKey(uint64(h)))
}

// GetMaxCanonicalLength returns the persisted confirmed-prefix watermark.
func (s *Store) GetMaxCanonicalLength() (types.Height, bool, error) {
	raw, err := s.MaxCanonicalLength.Get([]byte("watermark"))
	if err != nil {
		return 0, false, err
	}
	if raw == nil {
		return 0, false, nil
	}
	return types.Height(decodeHeightKey(raw)), true, nil
}
