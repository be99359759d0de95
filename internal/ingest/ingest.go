// Package ingest defines the boundary between the indexer core and the
// precomputed-block feed: decoding signed JSON and watching a directory
// for new files are external collaborators' responsibility (spec.md §1),
// so this package only names the two interfaces those collaborators
// implement (Decoder, Source), plus the ambient plumbing the spec
// requires regardless of who implements them: feed filename parsing
// (pkg/block.ParseFilename), the canonical-chain-discovery directory
// pre-pass used by the New replay mode, and a bounded worker pool that
// drains a Source into indexer.AddBlock calls with backpressure (spec.md
// §5: "the block channel is bounded; producers of paths block when the
// witness tree falls behind").
package ingest

import (
	"context"

	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
)

// BlockPath names one file a Source has discovered, already split into
// its filename-derived height/hash (cheap to sort by) and its full path
// (expensive to decode).
type BlockPath struct {
	Parts block.FilenameParts
	Path  string
}

// LedgerPath names one staking-ledger file a Source has discovered.
type LedgerPath struct {
	Parts block.LedgerFilenameParts
	Path  string
}

// Decoder turns a feed file's bytes into the indexer's data model. An
// external collaborator (outside this module's scope) verifies the
// precomputed block's signature before or during decoding; this
// interface only names the shape of that result.
type Decoder interface {
	DecodePrecomputedBlock(path string) (*block.PrecomputedBlock, error)
	DecodeStakingLedger(path string) (*ledger.StakingLedger, error)
}

// Source watches a feed directory and emits newly discovered block paths
// in arbitrary order; the witness tree's classification step (spec §4.4)
// is what makes out-of-order arrival safe to ingest.
type Source interface {
	Watch(ctx context.Context) (<-chan BlockPath, error)
}
