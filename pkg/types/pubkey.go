package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PublicKeyLen is the fixed length, in characters, of a base58check-encoded
// account address.
const PublicKeyLen = 55

// publicKeyPrefix is the well-known address prefix for this network.
const publicKeyPrefix = "B62q"

// PublicKey is an account address. It orders and hashes as a plain string,
// which is what every sender/receiver/prover key index in internal/store
// relies on for its byte-lexicographic sort.
type PublicKey string

// NewPublicKey validates s as a well-formed public key.
func NewPublicKey(s string) (PublicKey, error) {
	if len(s) != PublicKeyLen {
		return "", fmt.Errorf("public key must be %d characters, got %d", PublicKeyLen, len(s))
	}
	if !strings.HasPrefix(s, publicKeyPrefix) {
		return "", fmt.Errorf("public key must start with %q", publicKeyPrefix)
	}
	if _, err := decodeBase58Check(s); err != nil {
		return "", fmt.Errorf("invalid public key %q: %w", s, err)
	}
	return PublicKey(s), nil
}

// IsZero reports whether k is unset.
func (k PublicKey) IsZero() bool { return k == "" }

// String returns the base58check string form.
func (k PublicKey) String() string { return string(k) }

// MarshalJSON encodes the key as a JSON string.
func (k PublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(string(k)) }

// UnmarshalJSON decodes a JSON string into a PublicKey, validating it.
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = ""
		return nil
	}
	v, err := NewPublicKey(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// TokenAddress identifies a token, including the native token.
type TokenAddress string

// MinaTokenAddress is the well-known address denoting the native token.
// Every account created without an explicit custom token belongs to it.
const MinaTokenAddress TokenAddress = "wSHV2S4qX9jFsLjQo8r1BsMLH2ZRKsZx6EJd1sbozGPieEC4Jf"

// String returns the base58check string form.
func (t TokenAddress) String() string { return string(t) }

// IsMina reports whether t is the native token.
func (t TokenAddress) IsMina() bool { return t == MinaTokenAddress || t == "" }

// MarshalJSON encodes the token address as a JSON string.
func (t TokenAddress) MarshalJSON() ([]byte, error) { return json.Marshal(string(t)) }

// UnmarshalJSON decodes a JSON string into a TokenAddress.
func (t *TokenAddress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = TokenAddress(s)
	return nil
}
