package store

import (
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// balanceKey encodes a balance so that byte-lexical order equals numeric
// order, the same big-endian trick keys.go uses for heights: nanomina
// balances fit in a uint64.
func balanceKey(b types.Balance, pk types.PublicKey) []byte {
	k := make([]byte, 8+len(pk))
	binary.BigEndian.PutUint64(k, uint64(b))
	copy(k[8:], pk)
	return k
}

// PutAccountBalance persists the best-tip balance snapshot for (pk, token)
// and maintains the balance-sorted secondary index used by staking-weight
// and rich-list style queries (spec §6: account_balance, account_balance_sort).
func (s *Store) PutAccountBalance(token types.TokenAddress, acct *ledger.Account) error {
	key := []byte(string(token) + ":" + string(acct.PublicKey))
	raw, err := encode(acct)
	if err != nil {
		return fmt.Errorf("store: encode account %s: %w", acct.PublicKey, err)
	}
	batch, err := s.NewBatch()
	if err != nil {
		return err
	}
	if err := batch.Put(s.AccountBalance.Tagged(key), raw); err != nil {
		return err
	}
	sortKey := []byte(string(token) + ":")
	sortKey = append(sortKey, balanceKey(acct.Balance, acct.PublicKey)...)
	if err := batch.Put(s.AccountBalanceSort.Tagged(sortKey), []byte(acct.PublicKey)); err != nil {
		return err
	}
	return batch.Commit()
}

// GetAccountBalance returns the persisted best-tip account snapshot.
func (s *Store) GetAccountBalance(token types.TokenAddress, pk types.PublicKey) (*ledger.Account, error) {
	key := []byte(string(token) + ":" + string(pk))
	raw, err := s.AccountBalance.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	var acct ledger.Account
	if err := decode(raw, &acct); err != nil {
		return nil, fmt.Errorf("store: decode account %s: %w", pk, err)
	}
	return &acct, nil
}

// PutStagedAccount persists a staged-ledger (not-yet-canonical) account
// snapshot, distinct from the best-tip account_balance CF (spec §6:
// staged_account), so IPC summary queries can distinguish "as of the best
// tip" from "as of the confirmed prefix".
func (s *Store) PutStagedAccount(stateHash types.StateHash, token types.TokenAddress, acct *ledger.Account) error {
	key := []byte(string(stateHash) + ":" + string(token) + ":" + string(acct.PublicKey))
	raw, err := encode(acct)
	if err != nil {
		return err
	}
	return s.StagedAccount.Put(key, raw)
}
