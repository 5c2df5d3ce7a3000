package rdb

import "io"

// sanityCaps bounds the sizes this decoder will trust from a length prefix
// before allocating or accumulating that much memory. They exist so a
// corrupt or adversarial file cannot force an out-of-memory crash purely by
// claiming an enormous length; a real violation simply ends the decode
// with ErrSanityCapExceeded. Zero disables a given cap. Adapted from the
// teacher's verify.go, whose VerifyFileOptions/VerifyValueOptions played
// the same role as a separate pass; here the caps are load-bearing in the
// decoder itself rather than an optional second check.
type sanityCaps struct {
	MaxEntrySize     uint64
	MaxKeySize       uint64
	MaxCollectionLen uint64
	MaxStreamPEL     uint64
}

// DefaultMaxEntrySize caps any single string/field/member/module payload.
const DefaultMaxEntrySize = 100 * 1024 * 1024

// DefaultMaxKeySize caps a key name's length.
const DefaultMaxKeySize = 32 * 1024

// DefaultMaxCollectionLen caps the element count of a list/set/hash/zset.
const DefaultMaxCollectionLen = 64 * 1024 * 1024

// DefaultMaxStreamPEL caps a single consumer group's pending-entries list.
const DefaultMaxStreamPEL = 1_000_000

func defaultSanityCaps() sanityCaps {
	return sanityCaps{
		MaxEntrySize:     DefaultMaxEntrySize,
		MaxKeySize:       DefaultMaxKeySize,
		MaxCollectionLen: DefaultMaxCollectionLen,
		MaxStreamPEL:     DefaultMaxStreamPEL,
	}
}

// Options configures a Decode/Dump call.
type Options struct {
	// Filter decides which databases and keys to decode. Nil means keep
	// everything.
	Filter Filter

	// MaxEntrySize, MaxKeySize, MaxCollectionLen, MaxStreamPEL override
	// the corresponding sanity caps. Zero means "use the default", not
	// "disable" — use a negative-width type escape hatch is deliberately
	// not offered; callers who truly want no cap can pass a cap larger
	// than any real file could reach.
	MaxEntrySize     uint64
	MaxKeySize       uint64
	MaxCollectionLen uint64
	MaxStreamPEL     uint64

	// SkipChecksum disables the trailing CRC-64 verification. Decoding
	// still proceeds through the whole stream; only the final comparison
	// is skipped. Useful for truncated or constructed test fixtures.
	SkipChecksum bool
}

func (o Options) caps() sanityCaps {
	d := defaultSanityCaps()
	if o.MaxEntrySize != 0 {
		d.MaxEntrySize = o.MaxEntrySize
	}
	if o.MaxKeySize != 0 {
		d.MaxKeySize = o.MaxKeySize
	}
	if o.MaxCollectionLen != 0 {
		d.MaxCollectionLen = o.MaxCollectionLen
	}
	if o.MaxStreamPEL != 0 {
		d.MaxStreamPEL = o.MaxStreamPEL
	}
	return d
}

func (o Options) filter() Filter {
	if o.Filter == nil {
		return keepAllFilter{}
	}
	return o.Filter
}

// Stats summarizes a completed decode.
type Stats struct {
	Databases int
	Keys      int
	Bytes     int64
}

// Decode streams r through the decoder, delivering every kept event to
// sink. r need not be seekable: a plain os.Stdin pipe works as well as a
// regular file.
func Decode(r io.Reader, sink Sink, opts Options) (Stats, error) {
	d := newDecoder(r, sink, opts)
	return d.run()
}

// Dump is an alias for Decode: it decodes r and hands every event to the
// given formatter (itself a Sink).
func Dump(r io.Reader, sink Sink, opts Options) (Stats, error) {
	return Decode(r, sink, opts)
}
