// Package ledger implements the account-based ledger, its diff algebra,
// and the staking-ledger snapshot type. A Ledger is a mapping
// token -> (public_key -> Account); AccountDiff and TokenDiff are the
// invertible mutations a block's staged-ledger diff produces.
package ledger

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// Timing describes a time-locked account's vesting schedule.
type Timing struct {
	InitialMinimumBalance types.Balance
	CliffTime             types.GlobalSlot
	CliffAmount           types.Balance
	VestingPeriod         types.GlobalSlot
	VestingIncrement      types.Balance
}

// ZkappState holds the on-chain state of a zkapp account. Field contents
// beyond their presence/absence are opaque to this indexer: the witness
// tree only needs to apply and invert whole-field replacements, never to
// interpret verification keys or proofs.
type ZkappState struct {
	AppState         []string
	VerificationKey  string
	Permissions      []string
	ZkappURI         string
	TokenSymbol      string
	VotingFor        string
	ProvedState      bool
	ActionState      []string
	Events           []string
}

// Account is one (token, public_key) entry in a Ledger.
type Account struct {
	PublicKey types.PublicKey
	Token     types.TokenAddress
	Balance   types.Balance
	Nonce     types.Nonce
	Delegate  types.PublicKey
	Timing    *Timing
	Zkapp     *ZkappState
	Username  string
}

// Empty creates a zero-balance account with delegate defaulted to pk, per
// spec §4.3 ("Account::empty(pk, token, is_zkapp)").
func Empty(pk types.PublicKey, token types.TokenAddress, isZkapp bool) *Account {
	a := &Account{
		PublicKey: pk,
		Token:     token,
		Delegate:  pk,
	}
	if isZkapp {
		a.Zkapp = &ZkappState{}
	}
	return a
}

// clone deep-copies the account so ledger materialization never lets two
// branch nodes share mutable state.
func (a *Account) clone() *Account {
	cp := *a
	if a.Timing != nil {
		t := *a.Timing
		cp.Timing = &t
	}
	if a.Zkapp != nil {
		z := *a.Zkapp
		z.AppState = append([]string(nil), a.Zkapp.AppState...)
		z.Permissions = append([]string(nil), a.Zkapp.Permissions...)
		z.ActionState = append([]string(nil), a.Zkapp.ActionState...)
		z.Events = append([]string(nil), a.Zkapp.Events...)
		cp.Zkapp = &z
	}
	return &cp
}

// CurrentMinimumBalance returns the minimum balance a time-locked account
// must retain at the given global slot, per spec §4.3:
//
//	current_minimum_balance(slot) =
//	    max(0, initial_min - vesting_increment * floor(max(0, slot-cliff_time) / vesting_period))
//
// for slot < cliff_time the minimum equals initial_min. An account with no
// Timing has no lock and returns zero.
func (a *Account) CurrentMinimumBalance(slot types.GlobalSlot) types.Balance {
	if a.Timing == nil {
		return 0
	}
	t := a.Timing
	if slot < t.CliffTime {
		return t.InitialMinimumBalance
	}
	if t.VestingPeriod == 0 {
		return 0
	}
	elapsed := uint64(slot - t.CliffTime)
	periods := elapsed / uint64(t.VestingPeriod)
	vested := periods * uint64(t.VestingIncrement)
	min := uint64(t.InitialMinimumBalance)
	if vested >= min {
		return 0
	}
	return types.Balance(min - vested)
}
