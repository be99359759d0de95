package store

import (
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/mina-indexer/internal/event"
)

// PutEvent appends ev under the next sequence number and returns it. The
// sequence counter is seeded from the highest persisted entry on Open so
// a restart continues the sequence rather than resetting it (spec §6:
// "events, keyed by a monotonic u32 sequence").
func (s *Store) PutEvent(ev event.Event) (uint32, error) {
	seq := s.nextEventSeq.Add(1)
	ev.Sequence = seq
	raw, err := encode(ev)
	if err != nil {
		return 0, fmt.Errorf("store: encode event: %w", err)
	}
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, seq)
	if err := s.Events.Put(key, raw); err != nil {
		return 0, err
	}
	return seq, nil
}

// EventsFrom returns every event with sequence number >= from, in order.
func (s *Store) EventsFrom(from uint32) ([]event.Event, error) {
	it := s.Events.NewIterator(nil, false)
	if it == nil {
		return nil, nil
	}
	defer it.Close()
	var out []event.Event
	for ; it.Valid(); it.Next() {
		if len(it.Key()) >= 4 && binary.BigEndian.Uint32(it.Key()[:4]) < from {
			continue
		}
		var ev event.Event
		if err := decode(it.Value(), &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
