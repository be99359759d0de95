// Package types defines the core primitive types of the indexed chain:
// content-addressed hashes, public keys, token addresses, transaction
// hashes, and the small integer newtypes (amounts, nonces, heights) that
// appear throughout the store and witness-tree layers.
package types

import (
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// checksumLen is the length, in bytes, of the base58check checksum
// appended to the payload before encoding.
const checksumLen = 4

// encodeBase58Check prepends no version byte (the caller's payload already
// carries any version/prefix bytes it needs) and appends a 4-byte BLAKE2b
// checksum, then base58-encodes the result. Signature verification and the
// real network's exact checksum construction are opaque, out-of-scope
// cryptographic primitives per the system's design (see DESIGN.md); BLAKE2b
// is used here because it is the hash function the fork-choice rule already
// depends on for VRF digest comparison, so no second hash primitive needs to
// be pulled in for this.
func encodeBase58Check(payload []byte) string {
	sum := blake2b.Sum256(payload)
	buf := make([]byte, len(payload)+checksumLen)
	copy(buf, payload)
	copy(buf[len(payload):], sum[:checksumLen])
	return base58.Encode(buf)
}

// decodeBase58Check reverses encodeBase58Check, validating the checksum.
func decodeBase58Check(s string) ([]byte, error) {
	buf, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("base58 decode: %w", err)
	}
	if len(buf) < checksumLen {
		return nil, fmt.Errorf("base58check payload too short: %d bytes", len(buf))
	}
	payload := buf[:len(buf)-checksumLen]
	wantSum := buf[len(buf)-checksumLen:]
	gotSum := blake2b.Sum256(payload)
	for i := range wantSum {
		if wantSum[i] != gotSum[i] {
			return nil, fmt.Errorf("base58check checksum mismatch")
		}
	}
	return payload, nil
}
