package canonicity

import (
	"testing"

	"github.com/Klingon-tech/mina-indexer/internal/witness"
)

func TestBestTipVRFTieBreak(t *testing.T) {
	// Access via the package-level helper; witness.Node fields are
	// exported so a bare literal is sufficient for this pure function.
	a := &witness.Node{BlockchainLength: 10, LastVRFOutput: "aaaa", StateHash: "3Na"}
	b := &witness.Node{BlockchainLength: 10, LastVRFOutput: "bbbb", StateHash: "3Nb"}

	best := BestTip([]*witness.Node{a, b})
	if best != b {
		t.Fatalf("expected leaf b (greater vrf digest) to win, got state_hash=%s", best.StateHash)
	}
}

func TestBestTipPrefersGreaterLength(t *testing.T) {
	a := &witness.Node{BlockchainLength: 10, StateHash: "3Na"}
	b := &witness.Node{BlockchainLength: 11, StateHash: "3Nb"}

	best := BestTip([]*witness.Node{a, b})
	if best != b {
		t.Fatalf("expected leaf b (greater length) to win")
	}
}
