package rdb

import "fmt"

// ValueType is the logical shape of a decoded value, independent of which
// of several wire encodings produced it. A Sink only needs to switch on
// ValueType, never on the wire Type.
type ValueType uint8

const (
	ValueString ValueType = iota
	ValueList
	ValueSet
	ValueHash
	ValueZset
	ValueStream
	ValueModule
)

func (v ValueType) String() string {
	switch v {
	case ValueString:
		return "string"
	case ValueList:
		return "list"
	case ValueSet:
		return "set"
	case ValueHash:
		return "hash"
	case ValueZset:
		return "zset"
	case ValueStream:
		return "stream"
	case ValueModule:
		return "module"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(v))
	}
}

// ValueType classifies a wire Type into the logical shape a Sink consumes.
// The bool result is false for opcodes that are never a standalone value
// type (record opcodes) or that this decoder refuses to decode.
func (t Type) ValueType() (ValueType, bool) {
	switch t {
	case TypeString:
		return ValueString, true
	case TypeList, TypeListZiplist, TypeListQuicklist, TypeListQuicklist2:
		return ValueList, true
	case TypeSet, TypeSetIntset, TypeSetListpack:
		return ValueSet, true
	case TypeHash, TypeHashZipmap, TypeHashZiplist, TypeHashListpack,
		TypeHashMetadata, TypeHashListpackEx:
		return ValueHash, true
	case TypeZset, TypeZset2, TypeZsetZiplist, TypeZsetListpack:
		return ValueZset, true
	case TypeStreamListpacks, TypeStreamListpacks2, TypeStreamListpacks3:
		return ValueStream, true
	case TypeModule2:
		return ValueModule, true
	default:
		return 0, false
	}
}

// unsupported reports whether t is a recognized-by-name opcode that this
// decoder deliberately refuses to decode (pre-GA encodings that never
// shipped in a stable Redis/Valkey release).
func (t Type) unsupported() bool {
	switch t {
	case TypeModule, opCodeFunctionPreGA, TypeHashMetadataPreGa, TypeHashListpackExPreGa:
		return true
	default:
		return false
	}
}

// KeyInfo carries the context available to a Filter and to every Sink
// callback before any value body has been read: the selected database
// index, the key itself, its wire encoding, and an optional expiry.
type KeyInfo struct {
	DB         uint64
	Key        string
	Type       Type
	ValueType  ValueType
	ExpireAt   int64 // unix millis; zero means no expiry
	HasExpire  bool
	Idle       int64 // LRU idle time in seconds, if present (0 otherwise)
	Freq       int   // LFU frequency, if present (-1 otherwise)
}

// StreamID is a Redis stream entry or group identifier: a millisecond
// timestamp paired with a per-millisecond sequence number.
type StreamID struct {
	Ms  uint64
	Seq uint64
}

func (id StreamID) String() string {
	return fmt.Sprintf("%d-%d", id.Ms, id.Seq)
}

// StreamEntry is a single entry (a "message") within a stream.
type StreamEntry struct {
	ID      StreamID
	Deleted bool
	Fields  []StreamField
}

// StreamField is one field/value pair of a stream entry.
type StreamField struct {
	Field string
	Value string
}

// StreamPendingEntry is one record of a consumer group's pending-entries
// list: an entry id that has been delivered but not yet acknowledged.
type StreamPendingEntry struct {
	ID              StreamID
	Consumer        string
	DeliveryTime    int64
	DeliveryCount   uint64
}

// StreamConsumer is one consumer registered within a consumer group.
type StreamConsumer struct {
	Name       string
	SeenTime   int64
	ActiveTime int64 // -1 if not present in the source encoding (pre-v3)
	Pending    []StreamPendingEntry
}

// StreamConsumerGroup is one consumer group attached to a stream key.
type StreamConsumerGroup struct {
	Name          string
	LastID        StreamID
	EntriesRead   int64 // -1 if not present in the source encoding (pre-v2)
	Pending       []StreamPendingEntry
	Consumers     []StreamConsumer
}

// StreamMeta carries the whole-stream metadata delivered once via
// Sink.StreamMeta before any entries or groups.
type StreamMeta struct {
	Length        uint64
	LastID        StreamID
	FirstID       StreamID // zero value if not present (pre-v2)
	MaxDeletedID  StreamID // zero value if not present (pre-v2)
	EntriesAdded  uint64   // not stored before v2; set equal to Length for TypeStreamListpacks
}
