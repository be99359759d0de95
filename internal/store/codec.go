package store

import "encoding/json"

// Values are stored JSON-encoded. The indexer never needs cross-language
// wire compatibility for its own column families (unlike the ingest feed,
// which decodes the network's own precomputed-block JSON), so a compact
// binary codec would only buy space; klingnet-chain's own internal/chain
// store does the same trade for its block index.
func encode(v any) ([]byte, error) { return json.Marshal(v) }

func decode(b []byte, v any) error { return json.Unmarshal(b, v) }
