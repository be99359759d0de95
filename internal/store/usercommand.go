package store

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/internal/storage"
	"github.com/Klingon-tech/mina-indexer/pkg/command"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// PutUserCommand persists a signed user command, keyed by its hash, and
// maintains the by-sender and by-receiver height/slot secondary indexes
// (spec §6: user_commands, user_commands_by_sender_{height,slot},
// user_commands_by_receiver_{height,slot}).
func (s *Store) PutUserCommand(height types.Height, slot types.GlobalSlot, sc command.SignedCommandWithStatus) error {
	raw, err := encode(sc)
	if err != nil {
		return fmt.Errorf("store: encode user command %s: %w", sc.Command.Hash, err)
	}
	batch, err := s.NewBatch()
	if err != nil {
		return err
	}
	if err := batch.Put(s.UserCommands.Tagged([]byte(sc.Command.Hash)), raw); err != nil {
		return err
	}
	senderSuffix := []byte(string(sc.Command.Source) + ":")
	senderSuffix = append(senderSuffix, heightKeySuffix(uint64(height), string(sc.Command.Hash))...)
	if err := batch.Put(s.UserCommandsBySenderHeight.Tagged(senderSuffix), []byte(sc.Command.Hash)); err != nil {
		return err
	}
	senderSlotSuffix := []byte(string(sc.Command.Source) + ":")
	senderSlotSuffix = append(senderSlotSuffix, heightKeySuffix(uint64(slot), string(sc.Command.Hash))...)
	if err := batch.Put(s.UserCommandsBySenderSlot.Tagged(senderSlotSuffix), []byte(sc.Command.Hash)); err != nil {
		return err
	}
	if sc.Command.Receiver != "" {
		recvSuffix := []byte(string(sc.Command.Receiver) + ":")
		recvSuffix = append(recvSuffix, heightKeySuffix(uint64(height), string(sc.Command.Hash))...)
		if err := batch.Put(s.UserCommandsByReceiverHeight.Tagged(recvSuffix), []byte(sc.Command.Hash)); err != nil {
			return err
		}
		recvSlotSuffix := []byte(string(sc.Command.Receiver) + ":")
		recvSlotSuffix = append(recvSlotSuffix, heightKeySuffix(uint64(slot), string(sc.Command.Hash))...)
		if err := batch.Put(s.UserCommandsByReceiverSlot.Tagged(recvSlotSuffix), []byte(sc.Command.Hash)); err != nil {
			return err
		}
	}
	return batch.Commit()
}

// GetUserCommand looks up a signed command by its hash.
func (s *Store) GetUserCommand(hash types.TxnHash) (*command.SignedCommandWithStatus, error) {
	raw, err := s.UserCommands.Get([]byte(hash))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	var sc command.SignedCommandWithStatus
	if err := decode(raw, &sc); err != nil {
		return nil, fmt.Errorf("store: decode user command %s: %w", hash, err)
	}
	return &sc, nil
}

// CommandsBySender returns the hashes of commands sent by pk, in
// ascending height order.
func (s *Store) CommandsBySender(pk types.PublicKey) ([]types.TxnHash, error) {
	return scanBySecondKey(s.UserCommandsBySenderHeight, pk)
}

// CommandsByReceiver returns the hashes of commands received by pk, in
// ascending height order.
func (s *Store) CommandsByReceiver(pk types.PublicKey) ([]types.TxnHash, error) {
	return scanBySecondKey(s.UserCommandsByReceiverHeight, pk)
}

func scanBySecondKey(cf *storage.ColumnFamily, pk types.PublicKey) ([]types.TxnHash, error) {
	prefix := []byte(string(pk) + ":")
	it := cf.NewIterator(prefix, false)
	if it == nil {
		return nil, nil
	}
	defer it.Close()
	var hashes []types.TxnHash
	for ; it.Valid(); it.Next() {
		hashes = append(hashes, types.TxnHash(it.Value()))
	}
	return hashes, nil
}
