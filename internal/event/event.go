// Package event defines the indexer's append-only event log: the
// witness-tree and canonicity engine's observable effects, recorded in
// persisted order so a downstream consumer (or a restarted IPC server)
// can replay history from any sequence number (spec §7).
package event

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// Kind tags an Event's variant.
type Kind uint8

const (
	KindNewBlock Kind = iota
	KindBestTipChanged
	KindCanonicalBlock
	KindOrphanedBlock
	KindDanglingBranchNew
	KindDanglingBranchMerged
	KindRootAdvanced
	KindStakingLedgerAdded
)

func (k Kind) String() string {
	switch k {
	case KindNewBlock:
		return "new_block"
	case KindBestTipChanged:
		return "best_tip_changed"
	case KindCanonicalBlock:
		return "canonical_block"
	case KindOrphanedBlock:
		return "orphaned_block"
	case KindDanglingBranchNew:
		return "dangling_branch_new"
	case KindDanglingBranchMerged:
		return "dangling_branch_merged"
	case KindRootAdvanced:
		return "root_advanced"
	case KindStakingLedgerAdded:
		return "staking_ledger_added"
	default:
		return "unknown"
	}
}

// Event is one entry in the append-only log. Sequence is assigned by the
// store on append and is not set by callers.
type Event struct {
	Sequence uint32
	Kind     Kind

	StateHash     types.StateHash `json:",omitempty"`
	PrevStateHash types.StateHash `json:",omitempty"`
	Height        types.Height    `json:",omitempty"`

	// Detail carries a short human-readable note (e.g. reorg depth, merged
	// branch count); it never affects replay semantics.
	Detail string `json:",omitempty"`
}
