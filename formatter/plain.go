package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/upstash/rdbdump"
)

// Plain renders a decoded RDB as labeled key=value lines: one header line
// per key ("db=0 type=string key=foo value=bar"), with a collection's
// members written as indented lines beneath a header that carries no value
// of its own ("db=0 type=hash key=myhash" followed by "  field=f value=v").
// Intended for quick eyeballing or grepping, not for round-tripping.
type Plain struct {
	w   *bufio.Writer
	db  uint64
	key string
}

func NewPlain(w io.Writer) *Plain {
	return &Plain{w: bufio.NewWriter(w)}
}

func (f *Plain) Flush() error { return f.w.Flush() }

func (f *Plain) StartStream(version uint16) error { return nil }

func (f *Plain) EndStream(checksumOK *bool, decodeErr error) error { return nil }

func (f *Plain) StartDatabase(db uint64, sizeHint, expiresHint uint64) error {
	f.db = db
	return nil
}

func (f *Plain) EndDatabase(db uint64) error { return nil }

func (f *Plain) Aux(key, value string) error {
	fmt.Fprintf(f.w, "aux key=%s value=%s\n", key, value)
	return nil
}

func (f *Plain) StartKey(info rdb.KeyInfo) error {
	f.key = info.Key
	if info.ValueType == rdb.ValueString {
		return nil
	}
	fmt.Fprintf(f.w, "db=%d type=%s key=%s\n", f.db, info.ValueType, f.key)
	return nil
}

func (f *Plain) EndKey(info rdb.KeyInfo) error { return nil }

func (f *Plain) item(format string, args ...any) {
	f.w.WriteString("  ")
	fmt.Fprintf(f.w, format, args...)
	f.w.WriteByte('\n')
}

func (f *Plain) String(value string) error {
	fmt.Fprintf(f.w, "db=%d type=string key=%s value=%s\n", f.db, f.key, value)
	return nil
}

func (f *Plain) ListItem(value string) error {
	f.item("value=%s", value)
	return nil
}

func (f *Plain) SetItem(value string) error {
	f.item("value=%s", value)
	return nil
}

func (f *Plain) HashItem(field, value string, ttl int64) error {
	if ttl != 0 {
		f.item("field=%s value=%s ttl=%d", field, value, ttl)
		return nil
	}
	f.item("field=%s value=%s", field, value)
	return nil
}

func (f *Plain) ZsetItem(member string, score float64) error {
	f.item("member=%s score=%s", member, strconv.FormatFloat(score, 'g', -1, 64))
	return nil
}

func (f *Plain) StreamMeta(meta rdb.StreamMeta) error { return nil }

func (f *Plain) StreamEntry(entry rdb.StreamEntry) error {
	line := fmt.Sprintf("id=%s", entry.ID.String())
	for _, fld := range entry.Fields {
		line += fmt.Sprintf(" %s=%s", fld.Field, fld.Value)
	}
	f.item("%s", line)
	return nil
}

func (f *Plain) StreamGroup(group rdb.StreamConsumerGroup) error { return nil }

func (f *Plain) Module(moduleName string, moduleVersion uint64, doc string, understood bool) error {
	if understood {
		fmt.Fprintf(f.w, "db=%d type=module key=%s value=%s\n", f.db, f.key, doc)
		return nil
	}
	fmt.Fprintf(f.w, "db=%d type=module key=%s value=module:%s\n", f.db, f.key, moduleName)
	return nil
}

var _ rdb.Sink = (*Plain)(nil)
