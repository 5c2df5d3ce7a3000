package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/upstash/rdbdump"
)

// Protocol renders a decoded RDB as a stream of RESP2 multi-bulk commands
// that, replayed against an empty server, reproduce the same keyspace.
// Every field/member/element of a key is bundled into a single multi-bulk
// command (one HSET per hash, one SADD per set, and so on) rather than one
// command per field; the reference implementation leaves this split open,
// and the choice is recorded in DESIGN.md.
type Protocol struct {
	w         *bufio.Writer
	key       string
	args      []string
	hashTTLs  []hashFieldTTL
	hasExpire bool
	expireAt  int64
}

type hashFieldTTL struct {
	field string
	ttl   int64
}

func NewProtocol(w io.Writer) *Protocol {
	return &Protocol{w: bufio.NewWriter(w)}
}

func (f *Protocol) Flush() error { return f.w.Flush() }

func (f *Protocol) StartStream(version uint16) error { return nil }

func (f *Protocol) EndStream(checksumOK *bool, decodeErr error) error { return nil }

func (f *Protocol) StartDatabase(db uint64, sizeHint, expiresHint uint64) error {
	return f.writeCommand([]string{"SELECT", strconv.FormatUint(db, 10)})
}

func (f *Protocol) EndDatabase(db uint64) error { return nil }

func (f *Protocol) Aux(key, value string) error { return nil }

func (f *Protocol) StartKey(info rdb.KeyInfo) error {
	f.key = info.Key
	f.args = nil
	f.hashTTLs = nil
	f.hasExpire = info.HasExpire
	f.expireAt = info.ExpireAt

	switch info.ValueType {
	case rdb.ValueList:
		f.args = []string{"RPUSH", info.Key}
	case rdb.ValueSet:
		f.args = []string{"SADD", info.Key}
	case rdb.ValueHash:
		f.args = []string{"HSET", info.Key}
	case rdb.ValueZset:
		f.args = []string{"ZADD", info.Key}
	}
	return nil
}

func (f *Protocol) EndKey(info rdb.KeyInfo) error {
	switch info.ValueType {
	case rdb.ValueList, rdb.ValueSet, rdb.ValueHash, rdb.ValueZset:
		if len(f.args) > 2 {
			if err := f.writeCommand(f.args); err != nil {
				return err
			}
		}
	}
	for _, t := range f.hashTTLs {
		cmd := []string{"HPEXPIREAT", info.Key, strconv.FormatInt(t.ttl, 10), "FIELDS", "1", t.field}
		if err := f.writeCommand(cmd); err != nil {
			return err
		}
	}
	if f.hasExpire {
		if err := f.writeCommand([]string{"PEXPIREAT", info.Key, strconv.FormatInt(f.expireAt, 10)}); err != nil {
			return err
		}
	}
	return nil
}

func (f *Protocol) String(value string) error {
	return f.writeCommand([]string{"SET", f.key, value})
}

func (f *Protocol) ListItem(value string) error {
	f.args = append(f.args, value)
	return nil
}

func (f *Protocol) SetItem(value string) error {
	f.args = append(f.args, value)
	return nil
}

func (f *Protocol) HashItem(field, value string, ttl int64) error {
	f.args = append(f.args, field, value)
	if ttl != 0 {
		f.hashTTLs = append(f.hashTTLs, hashFieldTTL{field: field, ttl: ttl})
	}
	return nil
}

func (f *Protocol) ZsetItem(member string, score float64) error {
	f.args = append(f.args, strconv.FormatFloat(score, 'g', -1, 64), member)
	return nil
}

func (f *Protocol) StreamMeta(meta rdb.StreamMeta) error { return nil }

func (f *Protocol) StreamEntry(entry rdb.StreamEntry) error {
	cmd := []string{"XADD", f.key, entry.ID.String()}
	for _, fld := range entry.Fields {
		cmd = append(cmd, fld.Field, fld.Value)
	}
	return f.writeCommand(cmd)
}

func (f *Protocol) StreamGroup(group rdb.StreamConsumerGroup) error {
	return f.writeCommand([]string{"XGROUP", "CREATE", f.key, group.Name, group.LastID.String()})
}

func (f *Protocol) Module(moduleName string, moduleVersion uint64, doc string, understood bool) error {
	return nil
}

func (f *Protocol) writeCommand(args []string) error {
	fmt.Fprintf(f.w, "*%d\r\n", len(args))
	for _, a := range args {
		fmt.Fprintf(f.w, "$%d\r\n%s\r\n", len(a), a)
	}
	return nil
}

var _ rdb.Sink = (*Protocol)(nil)
