// Package formatter provides rdb.Sink implementations that render a
// decoded stream as JSON, as line-oriented plain text, or as a RESP2
// command stream suitable for replaying into a compatible server.
//
// Grounded on the reference implementation's formatter::{JSON, Plain,
// Protocol} module split; ported to Go's io.Writer + Sink shape instead of
// Rust's Write trait + Formatter trait.
package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ohler55/ojg/oj"
	"github.com/upstash/rdbdump"
)

// JSON streams a decoded RDB as a single, well-formed JSON document:
//
//	{"version":11,"databases":{"0":{"foo":{"type":"string","value":"bar"}}},
//	 "aux":{"redis-ver":"7.2.0"},"checksum_ok":true}
//
// Each key's envelope carries "type" and "value" always, and "expiry_ms",
// "idle", "freq" when the wire carried them. A hash field with a per-field
// TTL is written as {"value":...,"ttl_ms":N} instead of a bare string. Bytes
// that are not valid UTF-8 appear inside JSON strings as literal "\xNN"
// escapes (serialized as "\\xNN"). Written incrementally so no
// database or key is ever fully materialized in memory first; only the aux
// fields are buffered, since they must surface after the databases object
// has already been closed.
type JSON struct {
	w            *bufio.Writer
	wroteDBEntry bool
	wroteKeyInDB bool
	wroteItem    bool
	curType      rdb.ValueType
	aux          [][2]string
}

// NewJSON wraps w. Call Flush when decoding finishes to ensure buffered
// output reaches w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: bufio.NewWriter(w)}
}

func (f *JSON) Flush() error { return f.w.Flush() }

func (f *JSON) StartStream(version uint16) error {
	fmt.Fprintf(f.w, `{"version":%d,"databases":{`, version)
	return nil
}

func (f *JSON) EndStream(checksumOK *bool, decodeErr error) error {
	f.w.WriteByte('}') // close "databases"

	f.w.WriteString(`,"aux":{`)
	for i, kv := range f.aux {
		if i > 0 {
			f.w.WriteByte(',')
		}
		jsonString(f.w, kv[0])
		f.w.WriteByte(':')
		jsonString(f.w, kv[1])
	}
	f.w.WriteByte('}')

	f.w.WriteString(`,"checksum_ok":`)
	switch {
	case decodeErr != nil, checksumOK == nil:
		f.w.WriteString("null")
	case *checksumOK:
		f.w.WriteString("true")
	default:
		f.w.WriteString("false")
	}

	f.w.WriteString("}\n")
	return nil
}

func (f *JSON) StartDatabase(db uint64, sizeHint, expiresHint uint64) error {
	if f.wroteDBEntry {
		f.w.WriteByte(',')
	}
	f.wroteDBEntry = true
	jsonString(f.w, strconv.FormatUint(db, 10))
	f.w.WriteString(":{")
	f.wroteKeyInDB = false
	return nil
}

func (f *JSON) EndDatabase(db uint64) error {
	f.w.WriteByte('}')
	return nil
}

// Aux buffers a header metadata pair for emission under the document's
// top-level "aux" key once the stream ends, since AUX records may arrive
// both before the first database and interleaved with later ones.
func (f *JSON) Aux(key, value string) error {
	f.aux = append(f.aux, [2]string{key, value})
	return nil
}

func (f *JSON) StartKey(info rdb.KeyInfo) error {
	if f.wroteKeyInDB {
		f.w.WriteByte(',')
	}
	f.wroteKeyInDB = true
	f.curType = info.ValueType
	jsonString(f.w, info.Key)
	f.w.WriteByte(':')

	fmt.Fprintf(f.w, `{"type":%q`, info.ValueType.String())
	if info.HasExpire {
		fmt.Fprintf(f.w, `,"expiry_ms":%d`, info.ExpireAt)
	}
	if info.Idle != 0 {
		fmt.Fprintf(f.w, `,"idle":%d`, info.Idle)
	}
	if info.Freq >= 0 {
		fmt.Fprintf(f.w, `,"freq":%d`, info.Freq)
	}
	f.w.WriteString(`,"value":`)

	switch info.ValueType {
	case rdb.ValueList, rdb.ValueSet:
		f.w.WriteByte('[')
	case rdb.ValueHash, rdb.ValueZset:
		f.w.WriteByte('{')
	case rdb.ValueStream:
		f.w.WriteString(`{"entries":[`)
	}
	f.wroteItem = false
	return nil
}

func (f *JSON) EndKey(info rdb.KeyInfo) error {
	switch info.ValueType {
	case rdb.ValueList, rdb.ValueSet:
		f.w.WriteByte(']')
	case rdb.ValueHash, rdb.ValueZset:
		f.w.WriteByte('}')
	case rdb.ValueStream:
		f.w.WriteString("]}")
	}
	f.w.WriteByte('}') // close the key's envelope
	return nil
}

func (f *JSON) comma() {
	if f.wroteItem {
		f.w.WriteByte(',')
	}
	f.wroteItem = true
}

func (f *JSON) String(value string) error {
	jsonString(f.w, value)
	return nil
}

func (f *JSON) ListItem(value string) error {
	f.comma()
	jsonString(f.w, value)
	return nil
}

func (f *JSON) SetItem(value string) error {
	f.comma()
	jsonString(f.w, value)
	return nil
}

func (f *JSON) HashItem(field, value string, ttl int64) error {
	f.comma()
	jsonString(f.w, field)
	f.w.WriteByte(':')
	if ttl != 0 {
		f.w.WriteString(`{"value":`)
		jsonString(f.w, value)
		fmt.Fprintf(f.w, `,"ttl_ms":%d}`, ttl)
		return nil
	}
	jsonString(f.w, value)
	return nil
}

func (f *JSON) ZsetItem(member string, score float64) error {
	f.comma()
	jsonString(f.w, member)
	f.w.WriteByte(':')
	f.w.WriteString(strconv.FormatFloat(score, 'g', -1, 64))
	return nil
}

func (f *JSON) StreamMeta(meta rdb.StreamMeta) error { return nil }

func (f *JSON) StreamEntry(entry rdb.StreamEntry) error {
	f.comma()
	fmt.Fprintf(f.w, `{"id":%q,"fields":{`, entry.ID.String())
	for i, fld := range entry.Fields {
		if i > 0 {
			f.w.WriteByte(',')
		}
		jsonString(f.w, fld.Field)
		f.w.WriteByte(':')
		jsonString(f.w, fld.Value)
	}
	f.w.WriteString("}}")
	return nil
}

func (f *JSON) StreamGroup(group rdb.StreamConsumerGroup) error { return nil }

func (f *JSON) Module(moduleName string, moduleVersion uint64, doc string, understood bool) error {
	if understood {
		f.w.WriteString(doc)
		return nil
	}
	fmt.Fprintf(f.w, `{"module":%q}`, moduleName)
	return nil
}

func jsonString(w *bufio.Writer, s string) {
	if !utf8.ValidString(s) {
		var b strings.Builder
		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				fmt.Fprintf(&b, `\x%02x`, s[i])
			} else {
				b.WriteString(s[i : i+size])
			}
			i += size
		}
		s = b.String()
	}
	w.Write(oj.JSON(s))
}

var _ rdb.Sink = (*JSON)(nil)
