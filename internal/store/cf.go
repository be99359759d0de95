// Package store implements typed read/write helpers for every column
// family in the indexer's key-value schema (spec §6), layered on
// internal/storage's generic DB/Batch/Iterator abstractions the way
// klingnet-chain's internal/chain.BlockStore layers typed helpers over
// internal/storage.DB: prefix constants, binary.BigEndian fixed-width
// keys, one method per query shape.
package store

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/Klingon-tech/mina-indexer/internal/storage"
)

// Column family tags. Single bytes, per internal/storage/cf.go.
const (
	cfBlocks                      storage.CF = 0x01
	cfBlocksAtHeight              storage.CF = 0x02
	cfBlocksAtSlot                storage.CF = 0x03
	cfUserCommands                storage.CF = 0x04
	cfUserCommandsBySenderHeight  storage.CF = 0x05
	cfUserCommandsBySenderSlot    storage.CF = 0x06
	cfUserCommandsByReceiverHeight storage.CF = 0x07
	cfUserCommandsByReceiverSlot  storage.CF = 0x08
	cfSnarkByFee                  storage.CF = 0x09
	cfSnarkByProver                storage.CF = 0x0A
	cfStakingLedgerAccount         storage.CF = 0x0B
	cfStakingLedgerSort             storage.CF = 0x0C
	cfAccountBalance                storage.CF = 0x0D
	cfAccountBalanceSort             storage.CF = 0x0E
	cfStagedAccount                   storage.CF = 0x0F
	cfCanonicityByHeight                storage.CF = 0x10
	cfCanonicityBySlot                   storage.CF = 0x11
	cfEvents                               storage.CF = 0x12
	cfKnownGenesisStateHashes                storage.CF = 0x13
	cfKnownGenesisPrevStateHashes              storage.CF = 0x14
	cfMaxCanonicalLength                        storage.CF = 0x15
	cfUsername                                   storage.CF = 0x16
	cfBalanceUpdate                               storage.CF = 0x17
	cfReorgCheckpoint                              storage.CF = 0x18
	cfLedgerDiffs                                   storage.CF = 0x19
)

// Store wires every column family to a single backing DB.
type Store struct {
	db storage.DB

	nextEventSeq atomic.Uint32

	Blocks                       *storage.ColumnFamily
	BlocksAtHeight               *storage.ColumnFamily
	BlocksAtSlot                 *storage.ColumnFamily
	UserCommands                 *storage.ColumnFamily
	UserCommandsBySenderHeight   *storage.ColumnFamily
	UserCommandsBySenderSlot     *storage.ColumnFamily
	UserCommandsByReceiverHeight *storage.ColumnFamily
	UserCommandsByReceiverSlot   *storage.ColumnFamily
	SnarkByFee                   *storage.ColumnFamily
	SnarkByProver                *storage.ColumnFamily
	StakingLedgerAccount         *storage.ColumnFamily
	StakingLedgerSort            *storage.ColumnFamily
	AccountBalance               *storage.ColumnFamily
	AccountBalanceSort           *storage.ColumnFamily
	StagedAccount                *storage.ColumnFamily
	CanonicityByHeight           *storage.ColumnFamily
	CanonicityBySlot             *storage.ColumnFamily
	Events                       *storage.ColumnFamily
	KnownGenesisStateHashes      *storage.ColumnFamily
	KnownGenesisPrevStateHashes  *storage.ColumnFamily
	MaxCanonicalLength           *storage.ColumnFamily
	Username                     *storage.ColumnFamily
	BalanceUpdate                *storage.ColumnFamily
	ReorgCheckpoint              *storage.ColumnFamily
	LedgerDiffs                  *storage.ColumnFamily
}

// Open wires every column family to db and recovers the event-sequence
// counter from the highest persisted entry, so a restart continues the
// sequence instead of resetting it.
func Open(db storage.DB) *Store {
	s := &Store{
		db:                           db,
		Blocks:                       storage.Open(db, cfBlocks),
		BlocksAtHeight:               storage.Open(db, cfBlocksAtHeight),
		BlocksAtSlot:                 storage.Open(db, cfBlocksAtSlot),
		UserCommands:                 storage.Open(db, cfUserCommands),
		UserCommandsBySenderHeight:   storage.Open(db, cfUserCommandsBySenderHeight),
		UserCommandsBySenderSlot:     storage.Open(db, cfUserCommandsBySenderSlot),
		UserCommandsByReceiverHeight: storage.Open(db, cfUserCommandsByReceiverHeight),
		UserCommandsByReceiverSlot:   storage.Open(db, cfUserCommandsByReceiverSlot),
		SnarkByFee:                   storage.Open(db, cfSnarkByFee),
		SnarkByProver:                storage.Open(db, cfSnarkByProver),
		StakingLedgerAccount:         storage.Open(db, cfStakingLedgerAccount),
		StakingLedgerSort:            storage.Open(db, cfStakingLedgerSort),
		AccountBalance:               storage.Open(db, cfAccountBalance),
		AccountBalanceSort:           storage.Open(db, cfAccountBalanceSort),
		StagedAccount:                storage.Open(db, cfStagedAccount),
		CanonicityByHeight:           storage.Open(db, cfCanonicityByHeight),
		CanonicityBySlot:             storage.Open(db, cfCanonicityBySlot),
		Events:                       storage.Open(db, cfEvents),
		KnownGenesisStateHashes:      storage.Open(db, cfKnownGenesisStateHashes),
		KnownGenesisPrevStateHashes:  storage.Open(db, cfKnownGenesisPrevStateHashes),
		MaxCanonicalLength:           storage.Open(db, cfMaxCanonicalLength),
		Username:                     storage.Open(db, cfUsername),
		BalanceUpdate:                storage.Open(db, cfBalanceUpdate),
		ReorgCheckpoint:              storage.Open(db, cfReorgCheckpoint),
		LedgerDiffs:                  storage.Open(db, cfLedgerDiffs),
	}
	if it := s.Events.NewIterator(nil, true); it != nil {
		defer it.Close()
		if it.Valid() && len(it.Key()) >= 4 {
			s.nextEventSeq.Store(binary.BigEndian.Uint32(it.Key()[:4]))
		}
	}
	return s
}

// NewBatch returns a write batch spanning every column family, since they
// all share the same underlying DB (spec §4.1: "write_batch(ops) atomic
// across CFs").
func (s *Store) NewBatch() (storage.Batch, error) {
	batcher, ok := s.db.(storage.Batcher)
	if !ok {
		return nil, errNotBatcher
	}
	return batcher.NewBatch(), nil
}

// Close closes the backing database.
func (s *Store) Close() error { return s.db.Close() }
