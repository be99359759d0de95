// Package snark defines the completed SNARK work records a staged-ledger
// diff carries, used to pay provers through fee-transfer internal
// commands and to populate the snark_by_fee / snark_by_prover CFs.
package snark

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// CompletedWork is one unit of SNARK work a block pays for.
type CompletedWork struct {
	Prover types.PublicKey
	Fee    types.Amount
	Index  uint32
}
