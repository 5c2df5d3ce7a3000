package rdb

import "strconv"

// readAndEmit reads the value body for wire type t and delivers it to sink.
// Callers are responsible for StartKey/EndKey around this call.
func (r *valueReader) readAndEmit(t Type, sink Sink) error {
	switch t {
	case TypeString:
		return r.emitString(sink)
	case TypeList:
		return r.emitList(sink)
	case TypeListZiplist:
		return r.emitListZiplist(sink)
	case TypeListQuicklist:
		return r.emitListQuicklist(sink)
	case TypeListQuicklist2:
		return r.emitListQuicklist2(sink)
	case TypeSet:
		return r.emitSet(sink)
	case TypeSetIntset:
		return r.emitSetIntset(sink)
	case TypeSetListpack:
		return r.emitSetListpack(sink)
	case TypeHash:
		return r.emitHash(sink)
	case TypeHashZipmap:
		return r.emitHashZipmap(sink)
	case TypeHashZiplist:
		return r.emitHashZiplist(sink)
	case TypeHashListpack:
		return r.emitHashListpack(sink)
	case TypeHashMetadata:
		return r.emitHashMetadata(sink)
	case TypeHashListpackEx:
		return r.emitHashListpackEx(sink)
	case TypeZset:
		return r.emitZset(sink)
	case TypeZset2:
		return r.emitZset2(sink)
	case TypeZsetZiplist:
		return r.emitZsetZiplist(sink)
	case TypeZsetListpack:
		return r.emitZsetListpack(sink)
	case TypeModule2:
		name, version, doc, understood, err := r.readModule2()
		if err != nil {
			return err
		}
		return sink.Module(name, version, doc, understood)
	case TypeStreamListpacks, TypeStreamListpacks2, TypeStreamListpacks3:
		return r.emitStream(t, sink)
	default:
		return ErrUnsupportedType
	}
}

func (r *valueReader) emitString(sink Sink) error {
	s, err := r.ReadString()
	if err != nil {
		return err
	}
	return sink.String(s)
}

func (r *valueReader) readCollectionLen() (uint64, error) {
	n, _, err := r.readLen()
	if err != nil {
		return 0, err
	}
	if err := r.checkLen(n, r.caps.MaxCollectionLen); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *valueReader) emitList(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return err
		}
		if err := sink.ListItem(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) readPackedBlob(parse func([]byte) ([]string, error)) ([]string, error) {
	blob, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return parse(stringToBytes(blob))
}

func (r *valueReader) emitListZiplist(sink Sink) error {
	items, err := r.readPackedBlob(parseZiplist)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := sink.ListItem(it); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitListQuicklist(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		items, err := r.readPackedBlob(parseZiplist)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := sink.ListItem(it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *valueReader) emitListQuicklist2(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		container, _, err := r.readLen()
		if err != nil {
			return err
		}
		blob, err := r.ReadString()
		if err != nil {
			return err
		}
		switch container {
		case quicklist2NodePlain:
			if err := sink.ListItem(blob); err != nil {
				return err
			}
		case quicklist2NodePacked:
			items, err := parseListpack(stringToBytes(blob))
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := sink.ListItem(it); err != nil {
					return err
				}
			}
		default:
			return ErrMalformed
		}
	}
	return nil
}

func (r *valueReader) emitSet(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return err
		}
		if err := sink.SetItem(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitSetIntset(sink Sink) error {
	items, err := r.readPackedBlob(parseIntset)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := sink.SetItem(it); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitSetListpack(sink Sink) error {
	items, err := r.readPackedBlob(parseListpack)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := sink.SetItem(it); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitHash(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		field, err := r.ReadString()
		if err != nil {
			return err
		}
		val, err := r.ReadString()
		if err != nil {
			return err
		}
		if err := sink.HashItem(field, val, 0); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitPairs(items []string, emit func(a, b string) error) error {
	if len(items)%2 != 0 {
		return ErrMalformed
	}
	for i := 0; i < len(items); i += 2 {
		if err := emit(items[i], items[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitHashZipmap(sink Sink) error {
	items, err := r.readPackedBlob(parseZipmap)
	if err != nil {
		return err
	}
	return r.emitPairs(items, func(f, v string) error { return sink.HashItem(f, v, 0) })
}

func (r *valueReader) emitHashZiplist(sink Sink) error {
	items, err := r.readPackedBlob(parseZiplist)
	if err != nil {
		return err
	}
	return r.emitPairs(items, func(f, v string) error { return sink.HashItem(f, v, 0) })
}

func (r *valueReader) emitHashListpack(sink Sink) error {
	items, err := r.readPackedBlob(parseListpack)
	if err != nil {
		return err
	}
	return r.emitPairs(items, func(f, v string) error { return sink.HashItem(f, v, 0) })
}

// emitHashMetadata reads RDB_TYPE_HASH_METADATA: a base expiry time
// followed by per-field (ttl, field, value) triples where ttl is stored as
// a delta from the base (0 meaning no expiry on that field).
func (r *valueReader) emitHashMetadata(sink Sink) error {
	minExpire, _, err := r.readLen()
	if err != nil {
		return err
	}
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		ttlDelta, _, err := r.readLen()
		if err != nil {
			return err
		}
		field, err := r.ReadString()
		if err != nil {
			return err
		}
		val, err := r.ReadString()
		if err != nil {
			return err
		}
		var ttl int64
		if ttlDelta != 0 {
			ttl = int64(minExpire + ttlDelta - 1)
		}
		if err := sink.HashItem(field, val, ttl); err != nil {
			return err
		}
	}
	return nil
}

// emitHashListpackEx reads RDB_TYPE_HASH_LISTPACK_EX: a single listpack of
// (field, value, ttl) triples, ttl stored as an absolute unix-millis
// string, 0 meaning no expiry.
func (r *valueReader) emitHashListpackEx(sink Sink) error {
	items, err := r.readPackedBlob(parseListpack)
	if err != nil {
		return err
	}
	if len(items)%3 != 0 {
		return ErrMalformed
	}
	for i := 0; i < len(items); i += 3 {
		ttl, err := strconv.ParseInt(items[i+2], 10, 64)
		if err != nil {
			return ErrMalformed
		}
		if err := sink.HashItem(items[i], items[i+1], ttl); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitZset(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		member, err := r.ReadString()
		if err != nil {
			return err
		}
		score, err := r.readDoubleValue()
		if err != nil {
			return err
		}
		if err := sink.ZsetItem(member, score); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitZset2(sink Sink) error {
	n, err := r.readCollectionLen()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		member, err := r.ReadString()
		if err != nil {
			return err
		}
		score, err := r.readFloat64LE()
		if err != nil {
			return err
		}
		if err := sink.ZsetItem(member, score); err != nil {
			return err
		}
	}
	return nil
}

func (r *valueReader) emitZsetZiplist(sink Sink) error {
	items, err := r.readPackedBlob(parseZiplist)
	if err != nil {
		return err
	}
	return r.emitScorePairs(items, sink)
}

func (r *valueReader) emitZsetListpack(sink Sink) error {
	items, err := r.readPackedBlob(parseListpack)
	if err != nil {
		return err
	}
	return r.emitScorePairs(items, sink)
}

func (r *valueReader) emitScorePairs(items []string, sink Sink) error {
	if len(items)%2 != 0 {
		return ErrMalformed
	}
	for i := 0; i < len(items); i += 2 {
		score, err := strconv.ParseFloat(items[i+1], 64)
		if err != nil {
			return ErrMalformed
		}
		if err := sink.ZsetItem(items[i], score); err != nil {
			return err
		}
	}
	return nil
}
