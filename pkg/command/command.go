// Package command defines the two kinds of ledger-affecting commands a
// block's staged-ledger diff carries: signed user commands (payments and
// delegations) and internal commands (coinbase and fee transfers).
package command

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// Status is the execution outcome of a signed user command.
type Status uint8

const (
	StatusApplied Status = iota
	StatusFailed
)

// Kind distinguishes a payment from a delegation.
type Kind uint8

const (
	KindPayment Kind = iota
	KindDelegation
)

// SignedCommand is a user-submitted payment or delegation.
type SignedCommand struct {
	Hash     types.TxnHash
	Kind     Kind
	Source   types.PublicKey
	Receiver types.PublicKey
	Fee      types.Amount
	Amount   types.Amount // zero for delegations
	Nonce    types.Nonce
	Memo     string
}

// SignedCommandWithStatus pairs a SignedCommand with its block-relative
// execution status and position, matching the `user_commands` CF's
// `(txn_hash, index)` key from spec §6.
type SignedCommandWithStatus struct {
	Command SignedCommand
	Status  Status
	Index   uint32
}

// InternalKind distinguishes the three internal-command shapes a
// staged-ledger diff may emit.
type InternalKind uint8

const (
	InternalCoinbase InternalKind = iota
	InternalFeeTransfer
	InternalFeeTransferViaCoinbase
)

// InternalCommand is a protocol-issued payment: a coinbase reward or a
// fee transfer to a SNARK worker. Ordering relative to user commands
// differs between protocol versions (see block.ProtocolVersion); the
// internal-command-to-diff translation in pkg/ledger consults the
// owning block's version tag rather than assuming an order here.
type InternalCommand struct {
	Kind     InternalKind
	Receiver types.PublicKey
	Amount   types.Amount
	// Source is set only for FeeTransferViaCoinbase, naming the coinbase
	// receiver the fee is routed through.
	Source types.PublicKey
	Index  uint32
}
