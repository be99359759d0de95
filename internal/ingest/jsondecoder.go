package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Klingon-tech/mina-indexer/pkg/block"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
)

// JSONDecoder is the default Decoder: it unmarshals a feed file directly
// into the indexer's own data model. The real precomputed-block wire
// format (nested protocol-state JSON, staged-ledger-diff JSON) and its
// signature verification are an external collaborator's concern per
// spec.md §1; this decoder is the seam that collaborator replaces,
// kept here only so the daemon has a working default against files
// already shaped like pkg/block.PrecomputedBlock / pkg/ledger.StakingLedger.
type JSONDecoder struct{}

func (JSONDecoder) DecodePrecomputedBlock(path string) (*block.PrecomputedBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", path, err)
	}
	var pcb block.PrecomputedBlock
	if err := json.Unmarshal(data, &pcb); err != nil {
		return nil, fmt.Errorf("ingest: decoding %s: %w", path, err)
	}
	return &pcb, nil
}

func (JSONDecoder) DecodeStakingLedger(path string) (*ledger.StakingLedger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", path, err)
	}
	var sl ledger.StakingLedger
	if err := json.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("ingest: decoding %s: %w", path, err)
	}
	return &sl, nil
}
