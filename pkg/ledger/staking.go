package ledger

import (
	"sort"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// StakingAccount is one entry in an epoch's staking-ledger snapshot.
type StakingAccount struct {
	PublicKey types.PublicKey
	Token     types.TokenAddress
	Balance   types.Balance
	Nonce     types.Nonce
	Delegate  types.PublicKey
}

// StakingLedger is an immutable per-epoch snapshot, ingested from its own
// `<network>-<epoch>-<ledger_hash>.json` file and never mutated once
// stored (spec §3).
type StakingLedger struct {
	GenesisHash   types.StateHash
	Epoch         types.Epoch
	LedgerHash    types.LedgerHash
	Accounts      []StakingAccount
	TotalCurrency types.Amount
}

// Sorted returns the ledger's accounts ordered canonically by
// (token, balance, nonce, pk), per spec §3.
func (s *StakingLedger) Sorted() []StakingAccount {
	out := make([]StakingAccount, len(s.Accounts))
	copy(out, s.Accounts)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Token != b.Token {
			return a.Token < b.Token
		}
		if a.Balance != b.Balance {
			return a.Balance < b.Balance
		}
		if a.Nonce != b.Nonce {
			return a.Nonce < b.Nonce
		}
		return a.PublicKey < b.PublicKey
	})
	return out
}
