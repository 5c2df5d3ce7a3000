package rdb

import (
	"encoding/binary"
	"fmt"
	"io"
)

// decoderRun drives a single forward pass over an RDB stream: header, then
// a sequence of records (aux fields, database selectors, keys and their
// values) until the EOF opcode, then the trailing checksum. It holds the
// mutable state of one Decode call.
func newDecoder(r io.Reader, sink Sink, opts Options) *decoderRun {
	return &decoderRun{
		src:    newStreamSource(r),
		sink:   sink,
		filter: opts.filter(),
		caps:   opts.caps(),
		opts:   opts,
	}
}

// decoderRun holds the mutable state of a single in-flight decode.
type decoderRun struct {
	src    *streamSource
	sink   Sink
	filter Filter
	caps   sanityCaps
	opts   Options
	stats  Stats

	curDB       uint64
	dbOpen      bool
	dbKept      bool
	dbStarted   bool
	dbSize      uint64
	dbExpires   uint64
	pendingExp  int64
	hasExp      bool
	pendingIdle int64
	hasIdle     bool
	pendingFreq int
	hasFreq     bool
	checksumOK  *bool
}

// ensureDBStarted fires Sink.StartDatabase the first time it is needed:
// either because a RESIZEDB record supplied real hints, or because a key
// or aux record arrived without one ever appearing. SELECTDB is always
// immediately followed by at most one RESIZEDB, so this never reorders
// anything relative to the wire.
func (d *decoderRun) ensureDBStarted() error {
	if !d.dbOpen || d.dbStarted || !d.dbKept {
		return nil
	}
	d.dbStarted = true
	d.stats.Databases++
	return d.sink.StartDatabase(d.curDB, d.dbSize, d.dbExpires)
}

func (d *decoderRun) run() (Stats, error) {
	version, err := d.readHeader()
	if err != nil {
		return d.stats, d.wrap("header", err)
	}
	if err := d.sink.StartStream(version); err != nil {
		return d.stats, err
	}

	runErr := d.runBody()

	var checksumOK *bool
	if runErr == nil {
		checksumOK = d.checksumOK
	}
	if endErr := d.sink.EndStream(checksumOK, runErr); endErr != nil && runErr == nil {
		runErr = endErr
	}
	return d.stats, runErr
}

func (d *decoderRun) runBody() error {
	for {
		op, err := d.readOpcode()
		if err != nil {
			return d.wrap("opcode", err)
		}
		if op == opCodeEOF {
			break
		}
		if err := d.dispatch(op); err != nil {
			return d.wrap(fmt.Sprintf("record 0x%02x", op), err)
		}
	}

	if err := d.closeCurrentDB(); err != nil {
		return err
	}

	checksumOK, err := d.verifyTrailer()
	if err != nil {
		return d.wrap("checksum", err)
	}
	d.checksumOK = checksumOK
	d.stats.Bytes = d.src.Pos()
	return nil
}

func (d *decoderRun) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return newDecodeError(d.src.Pos(), op, err)
}

func (d *decoderRun) readHeader() (uint16, error) {
	b, err := d.src.Get(headerLen)
	if err != nil {
		return 0, err
	}
	if string(b[:magicLen]) != magicStr {
		return 0, ErrBadMagic
	}
	var version uint16
	for _, c := range b[magicLen:] {
		if c < '0' || c > '9' {
			return 0, ErrBadMagic
		}
		version = version*10 + uint16(c-'0')
	}
	if version < MinVersion || version > Version {
		return 0, ErrUnsupportedVersion
	}
	return version, nil
}

func (d *decoderRun) readOpcode() (Type, error) {
	b, err := d.src.Get(1)
	if err != nil {
		return 0, err
	}
	return Type(b[0]), nil
}

func (d *decoderRun) dispatch(op Type) error {
	switch op {
	case opCodeSelectDB:
		return d.handleSelectDB()
	case opCodeResizeDB:
		return d.handleResizeDB()
	case opCodeAux:
		return d.handleAux()
	case opCodeExpireTime:
		secs, err := d.src.Get(4)
		if err != nil {
			return err
		}
		d.pendingExp = int64(binary.LittleEndian.Uint32(secs)) * 1000
		d.hasExp = true
		return nil
	case opCodeExpireTimeMS:
		ms, err := d.src.Get(8)
		if err != nil {
			return err
		}
		d.pendingExp = int64(binary.LittleEndian.Uint64(ms))
		d.hasExp = true
		return nil
	case opCodeFreq:
		b, err := d.src.Get(1)
		if err != nil {
			return err
		}
		d.pendingFreq = int(b[0])
		d.hasFreq = true
		return nil
	case opCodeIdle:
		vr := newValueReader(d.src, d.caps)
		idle, _, err := vr.readLen()
		if err != nil {
			return err
		}
		d.pendingIdle = int64(idle)
		d.hasIdle = true
		return nil
	case opCodeModuleAux:
		return d.handleModuleAux()
	case opCodeFunction2:
		vr := newValueReader(d.src, d.caps)
		if _, err := vr.ReadString(); err != nil {
			return err
		}
		return nil
	case opCodeSlotInfo:
		vr := newValueReader(d.src, d.caps)
		for i := 0; i < 3; i++ {
			if _, _, err := vr.readLen(); err != nil {
				return err
			}
		}
		return nil
	default:
		if op.unsupported() {
			return ErrUnsupportedType
		}
		if _, ok := op.ValueType(); !ok {
			return ErrUnknownOpcode
		}
		return d.handleKey(op)
	}
}

func (d *decoderRun) handleSelectDB() error {
	vr := newValueReader(d.src, d.caps)
	db, _, err := vr.readLen()
	if err != nil {
		return err
	}
	if err := d.closeCurrentDB(); err != nil {
		return err
	}
	d.curDB = db
	d.dbOpen = true
	d.dbStarted = false
	d.dbSize = 0
	d.dbExpires = 0
	d.dbKept = d.filter.Database(db)
	return nil
}

func (d *decoderRun) closeCurrentDB() error {
	if !d.dbOpen {
		return nil
	}
	if d.dbKept && d.dbStarted {
		if err := d.sink.EndDatabase(d.curDB); err != nil {
			return err
		}
	}
	d.dbOpen = false
	return nil
}

func (d *decoderRun) handleResizeDB() error {
	vr := newValueReader(d.src, d.caps)
	size, _, err := vr.readLen()
	if err != nil {
		return err
	}
	expires, _, err := vr.readLen()
	if err != nil {
		return err
	}
	d.dbSize = size
	d.dbExpires = expires
	return d.ensureDBStarted()
}

func (d *decoderRun) handleAux() error {
	vr := newValueReader(d.src, d.caps)
	key, err := vr.ReadString()
	if err != nil {
		return err
	}
	val, err := vr.ReadString()
	if err != nil {
		return err
	}
	// AUX records may appear before the first SELECTDB (header metadata
	// like "redis-ver"), when there is no database to start yet.
	if d.dbOpen {
		if err := d.ensureDBStarted(); err != nil {
			return err
		}
	}
	return d.sink.Aux(key, val)
}

// handleModuleAux consumes a MODULE_AUX record: a module id followed by
// that module's opaque-to-us value stream. No module registers structural
// data here in a way this decoder understands, so it is always skipped and
// reported to the Sink as an unrecognized module payload.
func (d *decoderRun) handleModuleAux() error {
	vr := newValueReader(d.src, d.caps)
	id, _, err := vr.readLen()
	if err != nil {
		return err
	}
	name := constructModuleName(id)
	if err := vr.skipModuleOpaque(); err != nil {
		return err
	}
	return d.sink.Module(name, moduleVersion(id), "", false)
}

func (d *decoderRun) handleKey(op Type) error {
	if err := d.ensureDBStarted(); err != nil {
		return err
	}
	vr := newValueReader(d.src, d.caps)
	key, err := vr.ReadString()
	if err != nil {
		return err
	}
	if err := vr.checkLen(uint64(len(key)), d.caps.MaxKeySize); err != nil {
		return err
	}

	vt, _ := op.ValueType()
	info := KeyInfo{
		DB:        d.curDB,
		Key:       key,
		Type:      op,
		ValueType: vt,
		HasExpire: d.hasExp,
		ExpireAt:  d.pendingExp,
		Freq:      -1,
	}
	if d.hasIdle {
		info.Idle = d.pendingIdle
	}
	if d.hasFreq {
		info.Freq = d.pendingFreq
	}
	d.pendingExp = 0
	d.hasExp = false
	d.pendingIdle = 0
	d.hasIdle = false
	d.pendingFreq = 0
	d.hasFreq = false

	keep := d.dbKept && d.filter.Key(info)
	sink := d.sink
	if !keep {
		sink = discardSink{}
	}

	if err := sink.StartKey(info); err != nil {
		return err
	}
	if err := vr.readAndEmit(op, sink); err != nil {
		return err
	}
	if err := sink.EndKey(info); err != nil {
		return err
	}
	if keep {
		d.stats.Keys++
	}
	return nil
}

// verifyTrailer reads the trailing footer and reports the tri-state
// checksum outcome the Sink sees in EndStream: nil if the footer opted out
// of checksumming (all zero bytes), false if verification was skipped via
// Options.SkipChecksum, true if it was performed and matched. A checksum
// mismatch is still a hard error regardless of this tri-state.
func (d *decoderRun) verifyTrailer() (*bool, error) {
	footer, err := d.src.ReadFooter(crcLen)
	if err != nil {
		return nil, err
	}
	allZero := true
	for _, b := range footer {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, nil
	}
	if d.opts.SkipChecksum {
		ok := false
		return &ok, nil
	}
	if !verifyChecksum(d.src.CRC(), footer) {
		return nil, ErrChecksumMismatch
	}
	ok := true
	return &ok, nil
}
