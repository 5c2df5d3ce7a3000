package rdb

import (
	"encoding/binary"
	"strconv"
)

// emitStream reads a whole stream value (any of the three listpack-backed
// wire versions) and delivers StreamMeta once, then every entry in id
// order, then every consumer group.
//
// Unlike lists/hashes/sets, a stream's wire layout is not a flat sequence
// of items: it is a set of "rax nodes" (each a listpack holding a run of
// entries relative to a master entry), followed by stream-wide metadata,
// followed by consumer groups whose pending-entry lists reference entry
// ids by value. A consumer's own PEL only lists ids; the delivery time and
// delivery count live once in the group's global PEL and are looked up by
// id, so a single forward pass with a small in-memory id->pending map is
// enough — no replay of earlier bytes is needed.
func (r *valueReader) emitStream(t Type, sink Sink) error {
	nodeCount, _, err := r.readLen()
	if err != nil {
		return err
	}
	var entries []StreamEntry
	for i := uint64(0); i < nodeCount; i++ {
		key, err := r.ReadString()
		if err != nil {
			return err
		}
		if len(key) != 16 {
			return ErrMalformed
		}
		masterID := StreamID{
			Ms:  binary.BigEndian.Uint64(stringToBytes(key)[0:8]),
			Seq: binary.BigEndian.Uint64(stringToBytes(key)[8:16]),
		}
		blob, err := r.ReadString()
		if err != nil {
			return err
		}
		items, err := parseListpack(stringToBytes(blob))
		if err != nil {
			return err
		}
		nodeEntries, err := decodeStreamNode(masterID, items)
		if err != nil {
			return err
		}
		entries = append(entries, nodeEntries...)
	}

	length, _, err := r.readLen()
	if err != nil {
		return err
	}
	lastID, err := r.readStreamID()
	if err != nil {
		return err
	}

	var meta StreamMeta
	meta.Length = length
	meta.LastID = lastID

	if t == TypeStreamListpacks2 || t == TypeStreamListpacks3 {
		firstID, err := r.readStreamID()
		if err != nil {
			return err
		}
		maxDeletedID, err := r.readStreamID()
		if err != nil {
			return err
		}
		entriesAdded, _, err := r.readLen()
		if err != nil {
			return err
		}
		meta.FirstID = firstID
		meta.MaxDeletedID = maxDeletedID
		meta.EntriesAdded = entriesAdded
	} else {
		meta.EntriesAdded = length
	}

	if err := sink.StreamMeta(meta); err != nil {
		return err
	}
	for _, e := range entries {
		if err := sink.StreamEntry(e); err != nil {
			return err
		}
	}

	return r.emitStreamGroups(t, sink)
}

func (r *valueReader) readStreamID() (StreamID, error) {
	ms, _, err := r.readLen()
	if err != nil {
		return StreamID{}, err
	}
	seq, _, err := r.readLen()
	if err != nil {
		return StreamID{}, err
	}
	return StreamID{Ms: ms, Seq: seq}, nil
}

// readRawStreamID reads a fixed 16-byte big-endian stream id, the encoding
// used inside pending-entry lists (as opposed to the varint-pair encoding
// used for stream-wide metadata fields).
func (r *valueReader) readRawStreamID() (StreamID, error) {
	b, err := r.src.Get(16)
	if err != nil {
		return StreamID{}, err
	}
	return StreamID{Ms: binary.BigEndian.Uint64(b[0:8]), Seq: binary.BigEndian.Uint64(b[8:16])}, nil
}

// decodeStreamNode expands one rax node's listpack into the stream entries
// it encodes. The listpack's first few entries are a small header (count,
// deleted count, the master entry's field names) followed by one run per
// entry: flags, a millis/seq delta from masterID, either the master
// field's values (if the SAMEFIELDS flag is set) or an explicit field
// count and field/value pairs, and a trailing lp-count used by Redis for
// backward listpack traversal (unused here since we only read forward).
func decodeStreamNode(masterID StreamID, items []string) ([]StreamEntry, error) {
	idx := 0
	next := func() (string, error) {
		if idx >= len(items) {
			return "", ErrMalformed
		}
		v := items[idx]
		idx++
		return v, nil
	}
	nextInt := func() (int64, error) {
		s, err := next()
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(s, 10, 64)
	}

	count, err := nextInt()
	if err != nil {
		return nil, err
	}
	deleted, err := nextInt()
	if err != nil {
		return nil, err
	}
	numFields, err := nextInt()
	if err != nil {
		return nil, err
	}
	masterFields := make([]string, numFields)
	for i := range masterFields {
		masterFields[i], err = next()
		if err != nil {
			return nil, err
		}
	}
	if _, err := next(); err != nil { // master entry terminator (zero)
		return nil, err
	}

	total := count + deleted
	out := make([]StreamEntry, 0, total)
	for i := int64(0); i < total; i++ {
		flags, err := nextInt()
		if err != nil {
			return nil, err
		}
		msDelta, err := nextInt()
		if err != nil {
			return nil, err
		}
		seqDelta, err := nextInt()
		if err != nil {
			return nil, err
		}
		id := StreamID{Ms: uint64(int64(masterID.Ms) + msDelta), Seq: uint64(int64(masterID.Seq) + seqDelta)}

		var fields []StreamField
		if int(flags)&streamItemFlagSameFields != 0 {
			fields = make([]StreamField, len(masterFields))
			for j, f := range masterFields {
				v, err := next()
				if err != nil {
					return nil, err
				}
				fields[j] = StreamField{Field: f, Value: v}
			}
		} else {
			n, err := nextInt()
			if err != nil {
				return nil, err
			}
			fields = make([]StreamField, n)
			for j := range fields {
				f, err := next()
				if err != nil {
					return nil, err
				}
				v, err := next()
				if err != nil {
					return nil, err
				}
				fields[j] = StreamField{Field: f, Value: v}
			}
		}
		if _, err := next(); err != nil { // lp-count, unused
			return nil, err
		}

		out = append(out, StreamEntry{
			ID:      id,
			Deleted: int(flags)&streamItemFlagDeleted != 0,
			Fields:  fields,
		})
	}
	return out, nil
}

func (r *valueReader) emitStreamGroups(t Type, sink Sink) error {
	groupCount, _, err := r.readLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < groupCount; i++ {
		group, err := r.readStreamGroup(t)
		if err != nil {
			return err
		}
		if err := sink.StreamGroup(group); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) readStreamGroup(t Type) (StreamConsumerGroup, error) {
	var g StreamConsumerGroup
	name, err := r.ReadString()
	if err != nil {
		return g, err
	}
	g.Name = name

	lastID, err := r.readStreamID()
	if err != nil {
		return g, err
	}
	g.LastID = lastID

	g.EntriesRead = -1
	if t == TypeStreamListpacks2 || t == TypeStreamListpacks3 {
		entriesRead, _, err := r.readLen()
		if err != nil {
			return g, err
		}
		g.EntriesRead = int64(entriesRead)
	}

	pelCount, _, err := r.readLen()
	if err != nil {
		return g, err
	}
	if err := r.checkLen(pelCount, r.caps.MaxStreamPEL); err != nil {
		return g, err
	}
	type pelInfo struct {
		deliveryTime  int64
		deliveryCount uint64
	}
	globalPEL := make(map[StreamID]pelInfo, pelCount)
	order := make([]StreamID, 0, pelCount)
	for i := uint64(0); i < pelCount; i++ {
		id, err := r.readRawStreamID()
		if err != nil {
			return g, err
		}
		deliveryTimeMS, err := r.readUint64LE()
		if err != nil {
			return g, err
		}
		deliveryCount, _, err := r.readLen()
		if err != nil {
			return g, err
		}
		globalPEL[id] = pelInfo{deliveryTime: int64(deliveryTimeMS), deliveryCount: deliveryCount}
		order = append(order, id)
	}

	consumerCount, _, err := r.readLen()
	if err != nil {
		return g, err
	}
	assigned := make(map[StreamID]string, pelCount)
	g.Consumers = make([]StreamConsumer, 0, consumerCount)
	for i := uint64(0); i < consumerCount; i++ {
		name, err := r.ReadString()
		if err != nil {
			return g, err
		}
		seenTimeMS, err := r.readUint64LE()
		if err != nil {
			return g, err
		}
		activeTime := int64(-1)
		if t == TypeStreamListpacks3 {
			activeTimeMS, err := r.readUint64LE()
			if err != nil {
				return g, err
			}
			activeTime = int64(activeTimeMS)
		}
		consumerPELCount, _, err := r.readLen()
		if err != nil {
			return g, err
		}
		pending := make([]StreamPendingEntry, 0, consumerPELCount)
		for j := uint64(0); j < consumerPELCount; j++ {
			id, err := r.readRawStreamID()
			if err != nil {
				return g, err
			}
			info := globalPEL[id]
			assigned[id] = name
			pending = append(pending, StreamPendingEntry{
				ID:            id,
				Consumer:      name,
				DeliveryTime:  info.deliveryTime,
				DeliveryCount: info.deliveryCount,
			})
		}
		g.Consumers = append(g.Consumers, StreamConsumer{
			Name:       name,
			SeenTime:   int64(seenTimeMS),
			ActiveTime: activeTime,
			Pending:    pending,
		})
	}

	g.Pending = make([]StreamPendingEntry, 0, len(order))
	for _, id := range order {
		info := globalPEL[id]
		g.Pending = append(g.Pending, StreamPendingEntry{
			ID:            id,
			Consumer:      assigned[id],
			DeliveryTime:  info.deliveryTime,
			DeliveryCount: info.deliveryCount,
		})
	}
	return g, nil
}

func (r *valueReader) readUint64LE() (uint64, error) {
	b, err := r.src.Get(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
