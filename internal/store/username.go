package store

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// PutUsername records a best-effort display-name claim for pk (spec §6
// supplemental `username` CF, grounded on original_source's username
// actor). Usernames never affect canonicity or ledger state, so last
// write wins with no versioning.
func (s *Store) PutUsername(pk types.PublicKey, name string) error {
	return s.Username.Put([]byte(pk), []byte(name))
}

// GetUsername returns the claimed display name for pk, if any.
func (s *Store) GetUsername(pk types.PublicKey) (string, bool, error) {
	raw, err := s.Username.Get([]byte(pk))
	if err != nil {
		return "", false, err
	}
	if raw == nil {
		return "", false, nil
	}
	return string(raw), true, nil
}
