package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StateHashLen is the fixed length, in characters, of a base58check-encoded
// block state hash.
const StateHashLen = 52

// statePrefix is the known leading byte sequence of a valid state hash,
// expressed as its base58 string prefix (checked cheaply without a full
// decode on every comparison).
const statePrefix = "3N"

// StateHash identifies a block. It is a validated, fixed-length
// base58check string rather than a raw byte array: the store, the witness
// tree, and every CF key in internal/store compare and sort state hashes
// as opaque strings, never as decoded bytes.
type StateHash string

// NewStateHash validates s as a well-formed state hash.
func NewStateHash(s string) (StateHash, error) {
	if len(s) != StateHashLen {
		return "", fmt.Errorf("state hash must be %d characters, got %d", StateHashLen, len(s))
	}
	if !strings.HasPrefix(s, statePrefix) {
		return "", fmt.Errorf("state hash must start with %q", statePrefix)
	}
	if _, err := decodeBase58Check(s); err != nil {
		return "", fmt.Errorf("invalid state hash %q: %w", s, err)
	}
	return StateHash(s), nil
}

// IsZero reports whether h is the empty hash (used for "no parent known").
func (h StateHash) IsZero() bool { return h == "" }

// String returns the base58check string form.
func (h StateHash) String() string { return string(h) }

// MarshalJSON encodes the hash as a JSON string.
func (h StateHash) MarshalJSON() ([]byte, error) { return json.Marshal(string(h)) }

// UnmarshalJSON decodes a JSON string into a StateHash, validating it.
func (h *StateHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = ""
		return nil
	}
	v, err := NewStateHash(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// LedgerHashLen is the fixed length of a base58check-encoded ledger hash.
const LedgerHashLen = 51

const ledgerPrefix = "jx"

// LedgerHash identifies a ledger root (genesis ledger, staking ledger, or
// staged ledger after a block is applied).
type LedgerHash string

// NewLedgerHash validates s as a well-formed ledger hash.
func NewLedgerHash(s string) (LedgerHash, error) {
	if len(s) != LedgerHashLen {
		return "", fmt.Errorf("ledger hash must be %d characters, got %d", LedgerHashLen, len(s))
	}
	if !strings.HasPrefix(s, ledgerPrefix) {
		return "", fmt.Errorf("ledger hash must start with %q", ledgerPrefix)
	}
	if _, err := decodeBase58Check(s); err != nil {
		return "", fmt.Errorf("invalid ledger hash %q: %w", s, err)
	}
	return LedgerHash(s), nil
}

// String returns the base58check string form.
func (h LedgerHash) String() string { return string(h) }

// MarshalJSON encodes the hash as a JSON string.
func (h LedgerHash) MarshalJSON() ([]byte, error) { return json.Marshal(string(h)) }

// UnmarshalJSON decodes a JSON string into a LedgerHash, validating it.
func (h *LedgerHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = ""
		return nil
	}
	v, err := NewLedgerHash(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}
