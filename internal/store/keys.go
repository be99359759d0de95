package store

import "encoding/binary"

// heightKey encodes h as an 8-byte big-endian integer so that byte-lexical
// iteration order over the column family matches numeric order, the same
// trick internal/storage/badger.go's PrefixDB callers use for height-sorted
// scans.
func heightKey(h uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h)
	return b
}

func heightKeySuffix(h uint64, suffix string) []byte {
	return append(heightKey(h), []byte(suffix)...)
}

func decodeHeightKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[:8])
}
