// Package block defines the precomputed-block data model the witness tree
// and ledger-replay engine operate on. Decoding the raw JSON into this
// model is an external collaborator's responsibility (see internal/ingest);
// this package only defines the shape and the filename convention used to
// extract a block's height and state hash before parsing its body.
package block

import (
	"github.com/Klingon-tech/mina-indexer/pkg/command"
	"github.com/Klingon-tech/mina-indexer/pkg/snark"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// ProtocolVersion distinguishes the pre-hardfork (v1) and post-hardfork
// (v2) block formats, which order internal-command balances differently.
type ProtocolVersion uint8

const (
	ProtocolV1 ProtocolVersion = iota
	ProtocolV2
)

// PrecomputedBlock is the decoded form of one `<network>-<length>-<hash>.json`
// file: the protocol state header plus the staged-ledger diff payload.
type PrecomputedBlock struct {
	Network         string
	Version         ProtocolVersion
	StateHash       types.StateHash
	PrevStateHash   types.StateHash
	Height          types.Height
	BlockchainLength types.Height
	GlobalSlot      types.GlobalSlot
	Epoch           types.Epoch
	Timestamp       uint64

	Creator         types.PublicKey
	CoinbaseReceiver types.PublicKey
	SupercharedCoinbase bool
	LastVRFOutput   string
	TotalCurrency   types.Amount

	Commands          []command.SignedCommandWithStatus
	InternalCommands  []command.InternalCommand
	CompletedWorks    []snark.CompletedWork

	// AccountsCreated lists (public key, token) pairs the staged-ledger
	// diff created, in the order creation fees were deducted.
	AccountsCreated []AccountCreated

	// Usernames is the supplemental best-effort username-claim payload
	// (pk -> display name), grounded on original_source's username
	// actor. It never affects canonicity or ledger state.
	Usernames map[types.PublicKey]string
}

// AccountCreated records one account-creation side effect of applying
// this block's staged-ledger diff.
type AccountCreated struct {
	PublicKey types.PublicKey
	Token     types.TokenAddress
	Fee       types.Amount
}

// FilenameParts holds the (length, state_hash) pair extracted from a
// precomputed-block filename, before the body is parsed.
type FilenameParts struct {
	Network string
	Height  types.Height
	Hash    types.StateHash
}

// LedgerFilenameParts holds the (epoch, ledger_hash) pair extracted from a
// staking-ledger filename.
type LedgerFilenameParts struct {
	Network string
	Epoch   types.Epoch
	Hash    types.LedgerHash
}
