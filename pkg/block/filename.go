package block

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// FilenameParts is the height and state hash extracted from a precomputed
// block's feed filename.
type FilenameParts struct {
	Network string
	Height  types.Height
	Hash    types.StateHash
}

// LedgerFilenameParts is the epoch and ledger hash extracted from a staking
// ledger's feed filename.
type LedgerFilenameParts struct {
	Network string
	Epoch   types.Epoch
	Hash    types.LedgerHash
}

// ParseFilename extracts a precomputed block's height and state hash from
// its feed filename, `<network>-<blockchain_length>-<state_hash>.json`,
// before the body is parsed. This lets the ingest directory pre-pass sort
// files by height without decoding every one of them.
func ParseFilename(name string) (FilenameParts, error) {
	base := strings.TrimSuffix(name, ".json")
	if base == name {
		return FilenameParts{}, fmt.Errorf("block: filename %q missing .json suffix", name)
	}
	parts := strings.Split(base, "-")
	if len(parts) != 3 {
		return FilenameParts{}, fmt.Errorf("block: filename %q does not match <network>-<length>-<hash>.json", name)
	}
	height, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return FilenameParts{}, fmt.Errorf("block: filename %q has non-numeric length: %w", name, err)
	}
	hash, err := types.NewStateHash(parts[2])
	if err != nil {
		return FilenameParts{}, fmt.Errorf("block: filename %q: %w", name, err)
	}
	return FilenameParts{Network: parts[0], Height: types.Height(height), Hash: hash}, nil
}

// ParseLedgerFilename extracts a staking ledger's epoch and ledger hash
// from its feed filename, `<network>-<epoch>-<ledger_hash>.json`.
func ParseLedgerFilename(name string) (LedgerFilenameParts, error) {
	base := strings.TrimSuffix(name, ".json")
	if base == name {
		return LedgerFilenameParts{}, fmt.Errorf("block: filename %q missing .json suffix", name)
	}
	parts := strings.Split(base, "-")
	if len(parts) != 3 {
		return LedgerFilenameParts{}, fmt.Errorf("block: filename %q does not match <network>-<epoch>-<ledger_hash>.json", name)
	}
	epoch, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return LedgerFilenameParts{}, fmt.Errorf("block: filename %q has non-numeric epoch: %w", name, err)
	}
	hash, err := types.NewLedgerHash(parts[2])
	if err != nil {
		return LedgerFilenameParts{}, fmt.Errorf("block: filename %q: %w", name, err)
	}
	return LedgerFilenameParts{Network: parts[0], Epoch: types.Epoch(epoch), Hash: hash}, nil
}
