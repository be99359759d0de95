// Package storage provides key-value database abstractions used by the
// indexer's column-family store.
package storage

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix in forward
	// byte-lexicographic order. The callback receives a copy of the key
	// and value. Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batcher is implemented by DBs that can stage a set of writes and commit
// them atomically.
type Batcher interface {
	NewBatch() Batch
}

// Batch accumulates Put/Delete operations for a single atomic Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// IterableDB is implemented by DBs that can open a cursor-style Iterator
// in addition to the callback-based ForEach.
type IterableDB interface {
	// NewIterator returns an Iterator over keys with the given prefix.
	// When reverse is true the iterator walks from the greatest matching
	// key down to the smallest.
	NewIterator(prefix []byte, reverse bool) Iterator
}

// Iterator walks keys with a fixed prefix in one direction. Callers must
// call Close when done.
type Iterator interface {
	// Valid reports whether the iterator is positioned at a valid entry.
	Valid() bool
	// Next advances the iterator.
	Next()
	// Key returns the current key, including the prefix.
	Key() []byte
	// Value returns the current value.
	Value() []byte
	// Close releases resources held by the iterator.
	Close() error
}
