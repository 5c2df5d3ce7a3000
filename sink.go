package rdb

// Sink receives a fully-decoded stream of events in encounter order. The
// decoder never buffers a whole database, and never buffers a whole
// collection value beyond what a single call needs: a Sink sees a
// Start/item/End triple per aggregate value and must do its own
// accumulation if it needs the complete value at once.
//
// Every method may return an error to abort the decode early. An error
// returned while a record is being decoded reaches the caller of
// Dump/Decode wrapped in a DecodeError that carries the offset (use
// errors.Is/errors.As to reach it); errors from StartStream, EndStream and
// the final EndDatabase at end of file are returned as they are.
type Sink interface {
	// StartStream is called exactly once, before any other method, with
	// the RDB format version read from the header. It is not called when
	// the header itself is rejected; then no Sink method is called at all.
	StartStream(version uint16) error

	// EndStream is called exactly once after a successful StartStream,
	// whether the rest of the decode succeeded or failed. checksumOK reports the trailing CRC-64
	// verification outcome: true if the checksum was computed and
	// matched, false if verification was skipped (Options.SkipChecksum),
	// and nil if the source opted out of checksumming by writing an
	// all-zero footer. When decodeErr is non-nil the stream ended early
	// and checksumOK is always nil, since the trailing footer was never
	// reached.
	EndStream(checksumOK *bool, decodeErr error) error

	// StartDatabase is called at most once per SELECTDB record whose
	// database the Filter keeps, before any key in that database is
	// delivered. The call is deferred until a RESIZEDB, AUX or key record
	// follows the SELECTDB, so a database with none of those is never
	// started. sizeHint and expiresHint come from the RESIZEDB record; both
	// are zero if it is absent.
	StartDatabase(db uint64, sizeHint, expiresHint uint64) error

	// EndDatabase is called when the database's keys are exhausted,
	// either because a new SELECTDB record was seen or because the file
	// ended.
	EndDatabase(db uint64) error

	// Aux is called for each AUX record: a free-form key/value metadata
	// pair stored in the header (e.g. "redis-ver", "redis-bits").
	Aux(key, value string) error

	// StartKey is called once a key's metadata (db, name, wire type,
	// optional expiry, idle/freq hints) is known but before any of its
	// value bytes have been consumed. A Filter's decision is always made
	// at this point, so a Sink only ever sees keys that passed the
	// filter.
	StartKey(info KeyInfo) error

	// EndKey is called once a key's full value has been delivered.
	EndKey(info KeyInfo) error

	// String delivers a whole TypeString value. Strings are never
	// streamed in pieces since RDB never need to support a length beyond
	// what fits in memory for this decoder's supported callers; see
	// Options for a cap.
	String(value string) error

	// ListItem delivers one element of a list value, in order.
	ListItem(value string) error

	// SetItem delivers one member of a set value. Encounter order follows
	// the wire encoding and is not necessarily insertion order.
	SetItem(value string) error

	// HashItem delivers one field/value pair of a hash value. ttl is a
	// unix-millis per-field expiry for the hash-field-TTL encodings, or
	// zero when the source key carries no per-field TTLs.
	HashItem(field, value string, ttl int64) error

	// ZsetItem delivers one member/score pair of a sorted set.
	ZsetItem(member string, score float64) error

	// StreamMeta delivers the whole-stream metadata once, before any
	// entries or groups.
	StreamMeta(meta StreamMeta) error

	// StreamEntry delivers one entry (message) of a stream, in id order.
	StreamEntry(entry StreamEntry) error

	// StreamGroup delivers one fully-populated consumer group, including
	// its pending-entries list and consumers. Groups are delivered after
	// every entry of the stream has already been delivered.
	StreamGroup(group StreamConsumerGroup) error

	// Module delivers a decoded module payload. Only the RedisJSON module
	// is understood structurally (doc holds its parsed JSON text); any
	// other module id is delivered with doc empty and understood=false,
	// having been skipped opaquely on the wire.
	Module(moduleName string, moduleVersion uint64, doc string, understood bool) error
}
