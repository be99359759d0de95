// Package canonicity implements the fork-choice rule over a witness tree's
// root-branch leaves and the confirmed-prefix cache that lets canonicity
// queries below max_canonical_length answer in O(1).
package canonicity

import (
	"bytes"

	"golang.org/x/crypto/blake2b"

	"github.com/Klingon-tech/mina-indexer/internal/witness"
)

// compare returns 1 if a is preferred to b, -1 if b is preferred, and 0
// only when a and b are the same node, per spec §4.5's three-level
// tie-break: blockchain_length, then BLAKE2b digest of last_vrf_output,
// then state-hash lexicographic.
func compare(a, b *witness.Node) int {
	if a.BlockchainLength != b.BlockchainLength {
		if a.BlockchainLength > b.BlockchainLength {
			return 1
		}
		return -1
	}
	da, db := vrfDigest(a.LastVRFOutput), vrfDigest(b.LastVRFOutput)
	if c := bytes.Compare(da[:], db[:]); c != 0 {
		return c
	}
	if a.StateHash != b.StateHash {
		if a.StateHash > b.StateHash {
			return 1
		}
		return -1
	}
	return 0
}

func vrfDigest(vrf string) [32]byte {
	return blake2b.Sum256([]byte(vrf))
}

// BestTip selects the preferred leaf from a set of root-branch leaves
// using the fork-choice rule. leaves must be non-empty.
func BestTip(leaves []*witness.Node) *witness.Node {
	best := leaves[0]
	for _, n := range leaves[1:] {
		if compare(n, best) > 0 {
			best = n
		}
	}
	return best
}
