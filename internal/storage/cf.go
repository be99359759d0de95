package storage

// CF identifies one of the store's logical column families. Badger has a
// single flat keyspace, so a CF is modeled the same way PrefixDB isolates
// sub-namespaces: a fixed byte string prepended to every key. A CF tag is
// one byte, placed before any big-endian integer key components, so
// byte-lexicographic order within a CF equals numeric order of those
// components.
type CF byte

// ColumnFamily is a DB restricted to the keyspace under a single CF tag.
// It composes with PrefixDB rather than duplicating its logic.
type ColumnFamily struct {
	*PrefixDB
	tag CF
}

// Open returns the ColumnFamily for tag within db.
func Open(db DB, tag CF) *ColumnFamily {
	return &ColumnFamily{PrefixDB: NewPrefixDB(db, []byte{byte(tag)}), tag: tag}
}

// Tag returns the CF's single-byte identifier.
func (c *ColumnFamily) Tag() CF { return c.tag }

// Tagged prepends this CF's tag byte to key, for callers that need to
// address this column family through a raw, multi-CF Batch rather than
// through the ColumnFamily's own Get/Put/Delete.
func (c *ColumnFamily) Tagged(key []byte) []byte {
	return append([]byte{byte(c.tag)}, key...)
}

// NewIterator returns a cursor over keys with the given sub-prefix within
// this column family, with the CF tag stripped from returned keys.
func (c *ColumnFamily) NewIterator(prefix []byte, reverse bool) Iterator {
	inner, ok := c.PrefixDB.inner.(IterableDB)
	if !ok {
		return nil
	}
	full := append([]byte{byte(c.tag)}, prefix...)
	return &cfIterator{Iterator: inner.NewIterator(full, reverse), stripLen: 1}
}

type cfIterator struct {
	Iterator
	stripLen int
}

func (it *cfIterator) Key() []byte {
	k := it.Iterator.Key()
	return k[it.stripLen:]
}
