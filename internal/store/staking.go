package store

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// PutStakingLedger persists an epoch staking-ledger snapshot and its
// canonical (token, balance, nonce, pk) sort order (spec §6:
// staking_ledger_account, staking_ledger_sort).
func (s *Store) PutStakingLedger(epoch types.Epoch, sl *ledger.StakingLedger) error {
	batch, err := s.NewBatch()
	if err != nil {
		return err
	}
	sorted := sl.Sorted()
	for i, acct := range sorted {
		raw, err := encode(acct)
		if err != nil {
			return fmt.Errorf("store: encode staking account %s: %w", acct.PublicKey, err)
		}
		key := append(heightKey(uint64(epoch)), []byte(":"+string(acct.PublicKey))...)
		if err := batch.Put(s.StakingLedgerAccount.Tagged(key), raw); err != nil {
			return err
		}
		sortKey := append(heightKey(uint64(epoch)), heightKey(uint64(i))...)
		if err := batch.Put(s.StakingLedgerSort.Tagged(sortKey), []byte(acct.PublicKey)); err != nil {
			return err
		}
	}
	return batch.Commit()
}

// StakingLedgerSortedAt returns the epoch's staking accounts in their
// persisted canonical sort order.
func (s *Store) StakingLedgerSortedAt(epoch types.Epoch) ([]types.PublicKey, error) {
	it := s.StakingLedgerSort.NewIterator(heightKey(uint64(epoch)), false)
	if it == nil {
		return nil, nil
	}
	defer it.Close()
	var pks []types.PublicKey
	for ; it.Valid(); it.Next() {
		pks = append(pks, types.PublicKey(it.Value()))
	}
	return pks, nil
}
